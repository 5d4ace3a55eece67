// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Version is a semantic version. The zero value means no version.
type Version string

// ParseVersion canonicalises s, which may omit the leading "v".
func ParseVersion(s string) (Version, error) {
	if s == "" {
		return "", nil
	}
	v := s
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", InvalidVersionError{Version: s}
	}
	return Version(semver.Canonical(v)), nil
}

// String returns the version without its "v" prefix.
func (v Version) String() string {
	return strings.TrimPrefix(string(v), "v")
}

// IsZero reports whether no version is set.
func (v Version) IsZero() bool {
	return v == ""
}

// Accepts reports whether a document declaring version doc can be read by
// a consumer expecting v. The major versions must match and the document
// may not be newer than v.
func (v Version) Accepts(doc Version) bool {
	if v.IsZero() || doc.IsZero() {
		return true
	}
	if semver.Major(string(v)) != semver.Major(string(doc)) {
		return false
	}
	return semver.Compare(string(doc), string(v)) <= 0
}

func checkVersion(expected Version, declared string) (Version, error) {
	doc, err := ParseVersion(declared)
	if err != nil {
		return "", err
	}
	if !expected.Accepts(doc) {
		return "", VersionMismatchError{Expected: expected, Declared: doc}
	}
	if doc.IsZero() {
		return expected, nil
	}
	return doc, nil
}
