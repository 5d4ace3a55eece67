// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package config parses configuration documents into a [node.Tree] and
// exposes the result as a [Configuration].
//
// # Parsing
//
// [Parse] reads a document in the [Format] named by [Settings], builds the
// node tree, checks the declared document version and finally runs the
// post-load pass:
//
//	cfg, err := config.Parse(ctx, "app", f, config.Settings{Format: config.JSON}, "1.0.0")
//
// # Documents
//
// A document has exactly one top level entry whose name becomes the name of
// the root node. In JSON, YAML, TOML and INI documents objects become path
// nodes, scalars become value nodes and arrays become lists. A handful of
// reserved keys carry metadata:
//
//	{
//	  "zconfig": {
//	    "@version": "1.0.0",
//	    "@properties": {"env": "prod"},
//	    "host": "${env}.example.com",
//	    "params": {"@kind": "params", "timeout": "5s"},
//	    "password": {"@value": "...", "@encrypted": true},
//	    "ports": [5672, 5673]
//	  }
//	}
//
// XML documents use a version attribute on the root element, a
// <properties> child element, kind="params" and kind="list" attributes,
// an encrypted="true" attribute and repeated sibling elements for lists.
//
// # Post-load
//
// Once built, the tree is walked depth first. Every path node merges its
// properties into the scope inherited from its ancestors and every scalar
// below it is resolved against that scope with the [variable] package.
// The tree is then validated, sealed and the configuration marked loaded.
package config
