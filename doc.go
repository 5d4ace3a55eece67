// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package zconfig loads hierarchical configuration documents into Go values.
//
// A document is parsed into a tree of typed nodes by package [config].
// Every path node may declare properties which the values below it can
// reference as ${name}; unknown names fall back to the environment and
// are otherwise left as written. Package [bind] then maps the resolved
// tree onto structs using the config struct tag.
//
// # Basic Usage
//
//	type Client struct {
//	    Host    string        `config:"host,required"`
//	    Timeout time.Duration `config:"params.timeout"`
//	}
//
//	func (Client) ConfigPath() string { return "zconfig.client" }
//
//	client, err := zconfig.LoadFile[Client](ctx, os.DirFS("."), "app.yaml")
//
// # Packages
//
//   - [node]: the node tree and dot path lookup
//   - [variable]: ${name} resolution against scoped properties
//   - [config]: document parsers, post-load resolution and encoding
//   - [bind]: struct binding
//   - [source]: file and HTTP document sources
//   - [lifecycle]: component state tracking
//   - [rmq]: a RabbitMQ connection factory configured by this module
package zconfig
