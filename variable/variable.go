// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package variable resolves ${name} references inside scalar values.
//
// A reference is looked up in a [Scope] first and then in the process
// environment. References which cannot be resolved are left untouched,
// since some values are only resolved by their consumer. Substituted
// values are never scanned again, which bounds resolution to a single
// pass and rules out expansion loops.
package variable

import (
	"os"
	"regexp"
)

var tokenPattern = regexp.MustCompile(`\$\{([^${}]+)\}`)

// HasVariable reports whether s contains at least one ${name} reference.
func HasVariable(s string) bool {
	return tokenPattern.MatchString(s)
}

// Variables returns the names referenced by s in order of occurrence.
// A name referenced twice is returned twice.
func Variables(s string) []string {
	matches := tokenPattern.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return nil
	}
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m[1]
	}
	return names
}

// Resolver substitutes variable references.
type Resolver struct {
	lookupEnv func(string) (string, bool)
}

// ResolverOption configures a [Resolver].
type ResolverOption func(*Resolver)

// LookupEnv overrides how names missing from the scope are looked up.
// A nil func disables the environment fallback.
func LookupEnv(f func(string) (string, bool)) ResolverOption {
	return func(r *Resolver) {
		r.lookupEnv = f
	}
}

// NewResolver returns a [Resolver] falling back to [os.LookupEnv].
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		lookupEnv: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve replaces every reference in s with its value from scope or,
// failing that, the environment.
func (r *Resolver) Resolve(s string, scope Scope) string {
	if !HasVariable(s) {
		return s
	}
	return tokenPattern.ReplaceAllStringFunc(s, func(token string) string {
		name := token[2 : len(token)-1]
		if v, ok := scope.Lookup(name); ok {
			return v
		}
		if r.lookupEnv == nil {
			return token
		}
		if v, ok := r.lookupEnv(name); ok {
			return v
		}
		return token
	})
}

// Unresolved returns the names still referenced by s after resolution,
// i.e. the names unknown to both scope and environment.
func (r *Resolver) Unresolved(s string, scope Scope) []string {
	return Variables(r.Resolve(s, scope))
}

var defaultResolver = NewResolver()

// Resolve resolves s against scope and the process environment.
func Resolve(s string, scope Scope) string {
	return defaultResolver.Resolve(s, scope)
}
