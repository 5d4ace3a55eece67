// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package bind populates Go values from a loaded [config.Configuration].
//
// Struct fields are matched to nodes by the config tag:
//
//	type Settings struct {
//	    Host    string        `config:"hostname,required"`
//	    Timeout time.Duration `config:"params.timeout"`
//	    Started time.Time     `config:"started,transform=timestamp"`
//	    Ports   map[int64]struct{}
//	    Ignored string        `config:"-"`
//	}
//
// A field without a tag is matched by its name with the first letter
// lower cased. Names may be dot paths relative to the node being bound.
//
// A value is bound at the root of the configuration unless its type
// implements [Anchored] or the [At] option is given. The anchor must
// name an existing path node.
package bind
