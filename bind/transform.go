// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package bind

import (
	"time"

	"github.com/z5labs/zconfig/variable"
)

// Transformer converts the raw scalar of a field before it is assigned.
// The scope holds the properties visible at the node being bound.
type Transformer interface {
	Transform(raw string, scope variable.Scope) (any, error)
}

// TransformerFunc is a func type which implements [Transformer].
type TransformerFunc func(raw string, scope variable.Scope) (any, error)

// Transform implements the [Transformer] interface.
func (f TransformerFunc) Transform(raw string, scope variable.Scope) (any, error) {
	return f(raw, scope)
}

// Timestamp parses RFC 3339 timestamps.
var Timestamp = TransformerFunc(func(raw string, _ variable.Scope) (any, error) {
	return time.Parse(time.RFC3339, raw)
})

// Duration parses Go durations such as "1m30s".
var Duration = TransformerFunc(func(raw string, _ variable.Scope) (any, error) {
	return time.ParseDuration(raw)
})

func builtinTransformers() map[string]Transformer {
	return map[string]Transformer{
		"timestamp": Timestamp,
		"duration":  Duration,
	}
}
