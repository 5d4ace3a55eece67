// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package lifecycle provides the state guard used by components which must
// be configured before they can be used.
//
// A [Tracker] is owned by exactly one component. Transitions only happen via
// explicit calls and a component checks the expected state before every
// state dependent operation:
//
//	func (f *Factory) Open(ctx context.Context) error {
//	    if err := f.state.Check(lifecycle.Initialized); err != nil {
//	        return err
//	    }
//	    ...
//	    f.state.Set(lifecycle.Available)
//	}
//
// A Tracker is not safe for concurrent use.
package lifecycle

import (
	"fmt"
	"strings"
)

// State is the lifecycle state of a component.
type State int

const (
	Unknown State = iota
	Initialized

	// Available and Running both mean ready for use. Components which
	// distinguish "open" from "actively processing" use both.
	Available
	Running

	Stopped
	Error
)

// String implements the [fmt.Stringer] interface.
func (s State) String() string {
	switch s {
	case Unknown:
		return "unknown"
	case Initialized:
		return "initialized"
	case Available:
		return "available"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// StateError is returned by [Tracker.Check] when the current state
// is not one of the expected states.
type StateError struct {
	Expected []State
	Actual   State

	// Cause is the last failure recorded by [Tracker.Fail], if any.
	Cause error
}

// Error implements the [builtin.error] interface.
func (e *StateError) Error() string {
	expected := make([]string, len(e.Expected))
	for i, s := range e.Expected {
		expected[i] = s.String()
	}
	msg := fmt.Sprintf("invalid state: expected %s but was %s", strings.Join(expected, " or "), e.Actual)
	if e.Cause != nil {
		msg += fmt.Sprintf(": last error: %s", e.Cause)
	}
	return msg
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e *StateError) Unwrap() error {
	return e.Cause
}

// Tracker holds the current [State] of its owner and the last failure.
// The zero value is in the [Unknown] state.
type Tracker struct {
	state State
	err   error
}

// State returns the current state.
func (t *Tracker) State() State {
	return t.state
}

// Err returns the last failure recorded by [Tracker.Fail].
func (t *Tracker) Err() error {
	return t.err
}

// Set unconditionally overwrites the current state.
func (t *Tracker) Set(s State) {
	t.state = s
}

// Fail moves the tracker into the [Error] state and records err.
func (t *Tracker) Fail(err error) {
	t.state = Error
	t.err = err
}

// Is reports whether the current state is s.
func (t *Tracker) Is(s State) bool {
	return t.state == s
}

// Check returns a [*StateError] unless the current state is one of expected.
func (t *Tracker) Check(expected ...State) error {
	for _, s := range expected {
		if t.state == s {
			return nil
		}
	}
	return &StateError{
		Expected: expected,
		Actual:   t.state,
		Cause:    t.err,
	}
}

// Dispose moves the tracker into the terminal [Stopped] state and clears
// the last error. Releasing resources is left to the owning component.
func (t *Tracker) Dispose() {
	t.state = Stopped
	t.err = nil
}
