// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package variable

import "sort"

// Scope is an immutable set of variables visible at a position in the
// configuration tree. The zero value is an empty scope.
type Scope struct {
	vars map[string]string
}

// NewScope returns a scope holding a copy of vars.
func NewScope(vars map[string]string) Scope {
	return Scope{}.With(vars)
}

// With returns a new scope where vars override the variables of s.
// s itself is never modified.
func (s Scope) With(vars map[string]string) Scope {
	if len(vars) == 0 {
		return s
	}
	merged := make(map[string]string, len(s.vars)+len(vars))
	for k, v := range s.vars {
		merged[k] = v
	}
	for k, v := range vars {
		merged[k] = v
	}
	return Scope{vars: merged}
}

// Lookup returns the value of name.
func (s Scope) Lookup(name string) (string, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Len returns the number of variables in s.
func (s Scope) Len() int {
	return len(s.vars)
}

// Names returns the sorted variable names of s.
func (s Scope) Names() []string {
	names := make([]string, 0, len(s.vars))
	for k := range s.vars {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
