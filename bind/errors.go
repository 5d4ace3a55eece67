// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package bind

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrNotPointer is returned when the bind target is not a non-nil pointer.
var ErrNotPointer = errors.New("bind: target must be a non-nil pointer")

// ErrNilConfiguration is returned when Bind is given a nil configuration.
var ErrNilConfiguration = errors.New("bind: configuration must not be nil")

// BindingError wraps every failure returned by [Bind].
type BindingError struct {
	Type  reflect.Type
	Cause error
}

// Error implements the [builtin.error] interface.
func (e *BindingError) Error() string {
	return fmt.Sprintf("failed to bind %s: %s", e.Type, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e *BindingError) Unwrap() error {
	return e.Cause
}

// MissingFieldError occurs when a required field has no value.
type MissingFieldError struct {
	// Field is the configuration name of the field.
	Field string

	// GoField is the name of the struct field.
	GoField string
}

// Error implements the [builtin.error] interface.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// InvalidTagError occurs when a config struct tag cannot be parsed.
type InvalidTagError struct {
	Field string
	Tag   string
}

// Error implements the [builtin.error] interface.
func (e *InvalidTagError) Error() string {
	return fmt.Sprintf("invalid config tag on field %s: %q", e.Field, e.Tag)
}

// UnknownTransformerError occurs when a field names a transformer which
// was never registered.
type UnknownTransformerError struct {
	Name string
}

// Error implements the [builtin.error] interface.
func (e *UnknownTransformerError) Error() string {
	return fmt.Sprintf("unknown transformer: %q", e.Name)
}

// UnsupportedTypeError occurs when a Go type, such as a channel or func,
// cannot be populated from any node.
type UnsupportedTypeError struct {
	Type reflect.Type
}

// Error implements the [builtin.error] interface.
func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported bind target type: %s", e.Type)
}

// TypeCoercionError occurs when a scalar cannot be converted to the type
// of the field it is bound to.
type TypeCoercionError struct {
	Value string
	To    reflect.Type
	Cause error
}

// Error implements the [builtin.error] interface.
func (e TypeCoercionError) Error() string {
	return fmt.Sprintf("failed to coerce %q to %s: %s", e.Value, e.To, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e TypeCoercionError) Unwrap() error {
	return e.Cause
}
