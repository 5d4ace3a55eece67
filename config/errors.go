// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"errors"
	"fmt"
)

// ErrNoPassword is returned when an encrypted value is read from a
// configuration parsed without a password.
var ErrNoPassword = errors.New("config: encrypted value but no password was given")

// ConfigurationError is returned for malformed documents, missing
// structural elements, version mismatches and unresolved required bindings.
type ConfigurationError struct {
	Name  string
	Path  string
	Cause error
}

// Error implements the [builtin.error] interface.
func (e *ConfigurationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("configuration %q: %s", e.Name, e.Cause)
	}
	return fmt.Sprintf("configuration %q: %s: %s", e.Name, e.Path, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// UnsupportedFormatError occurs when no parser or encoder exists for a format.
type UnsupportedFormatError struct {
	Format Format
}

// Error implements the [builtin.error] interface.
func (e UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported configuration format: %q", string(e.Format))
}

// InvalidJSONError occurs if the source contains invalid JSON.
type InvalidJSONError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e InvalidJSONError) Error() string {
	return fmt.Sprintf("invalid json: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e InvalidJSONError) Unwrap() error {
	return e.Cause
}

// InvalidYAMLError occurs if the source contains invalid YAML.
type InvalidYAMLError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e InvalidYAMLError) Error() string {
	return fmt.Sprintf("invalid yaml: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e InvalidYAMLError) Unwrap() error {
	return e.Cause
}

// InvalidXMLError occurs if the source contains invalid XML.
type InvalidXMLError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e InvalidXMLError) Error() string {
	return fmt.Sprintf("invalid xml: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e InvalidXMLError) Unwrap() error {
	return e.Cause
}

// InvalidDocumentError occurs when a syntactically valid source does not
// have the shape of a configuration document.
type InvalidDocumentError struct {
	Format Format
	Cause  error
}

// Error implements the [builtin.error] interface.
func (e InvalidDocumentError) Error() string {
	return fmt.Sprintf("invalid %s document: %s", e.Format, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e InvalidDocumentError) Unwrap() error {
	return e.Cause
}

// InvalidVersionError occurs when a version is not a semantic version.
type InvalidVersionError struct {
	Version string
}

// Error implements the [builtin.error] interface.
func (e InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid semantic version: %q", e.Version)
}

// VersionMismatchError occurs when the version declared by a document
// cannot be read by the requested version.
type VersionMismatchError struct {
	Expected Version
	Declared Version
}

// Error implements the [builtin.error] interface.
func (e VersionMismatchError) Error() string {
	return fmt.Sprintf("document version %s is not compatible with %s", e.Declared, e.Expected)
}
