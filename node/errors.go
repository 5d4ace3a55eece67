// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package node

import (
	"errors"
	"fmt"
)

// ErrSealed is returned when the structure of a sealed [Tree] is modified.
var ErrSealed = errors.New("node: tree is sealed")

// PathNotFoundError is returned by Find when a path segment does not exist.
// It is distinct from structural errors so callers can treat it as an
// optional lookup miss.
type PathNotFoundError struct {
	Path    string
	Segment string
}

// Error implements the [builtin.error] interface.
func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("path not found: %s: missing segment %q", e.Path, e.Segment)
}

// DuplicateNameError occurs when a named child is added twice to the same parent.
type DuplicateNameError struct {
	Parent string
	Name   string
}

// Error implements the [builtin.error] interface.
func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate child name %q under %s", e.Name, e.Parent)
}

// InvalidChildError occurs when a parent cannot hold a child of the given kind.
type InvalidChildError struct {
	Parent string
	Kind   Kind
	Child  Kind
}

// Error implements the [builtin.error] interface.
func (e *InvalidChildError) Error() string {
	return fmt.Sprintf("%s node %s cannot hold a %s child", e.Kind, e.Parent, e.Child)
}

// InvalidNameError occurs when a child name is empty or contains the path delimiter.
type InvalidNameError struct {
	Name string
}

// Error implements the [builtin.error] interface.
func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid node name: %q", e.Name)
}

// KindError reports that the node found at Path is not of the expected kind.
type KindError struct {
	Path     string
	Expected []Kind
	Actual   Kind
}

// Error implements the [builtin.error] interface.
func (e *KindError) Error() string {
	return fmt.Sprintf("unexpected node kind at %s: expected %v but found %s", e.Path, e.Expected, e.Actual)
}

// ValidationError is returned by Validate and names the node which failed.
type ValidationError struct {
	Path  string
	Cause error
}

// Error implements the [builtin.error] interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid node %s: %s", e.Path, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// MissingChildError is reported by [RequireChild] rules.
type MissingChildError struct {
	Name string
	Kind Kind
}

// Error implements the [builtin.error] interface.
func (e *MissingChildError) Error() string {
	return fmt.Sprintf("missing required %s child %q", e.Kind, e.Name)
}
