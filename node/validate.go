// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package node

import (
	"errors"
	"fmt"
)

// Rule is a format specific constraint checked against every path node
// by [Node.Validate].
type Rule func(Node) error

// RequireChild returns a [Rule] which requires the path node at parentPath
// to hold a child called name of the given kind.
func RequireChild(parentPath, name string, kind Kind) Rule {
	return func(n Node) error {
		if n.Path() != parentPath {
			return nil
		}
		c, ok := n.Child(name)
		if !ok || c.Kind() != kind {
			return &MissingChildError{Name: name, Kind: kind}
		}
		return nil
	}
}

var errBrokenParent = errors.New("child does not point back to its parent")

// Validate checks the structure of the subtree rooted at n and applies
// every rule to each path node. The first failure is returned as a
// [*ValidationError]. Nothing is repaired.
func (n Node) Validate(rules ...Rule) error {
	return Walk(n, func(cur Node) error {
		err := cur.checkStructure()
		if err == nil && cur.Kind() == KindPath {
			err = applyRules(cur, rules)
		}
		if err != nil {
			return &ValidationError{Path: cur.Path(), Cause: err}
		}
		return nil
	})
}

// Validate validates the whole tree starting at the root.
func (t *Tree) Validate(rules ...Rule) error {
	return t.Root().Validate(rules...)
}

func applyRules(n Node, rules []Rule) error {
	for _, rule := range rules {
		err := rule(n)
		if err != nil {
			return err
		}
	}
	return nil
}

func (n Node) checkStructure() error {
	e := n.entry()
	if e.kind == KindValue && len(e.children) > 0 {
		return &InvalidChildError{Parent: n.Path(), Kind: e.kind, Child: n.tree.at(e.children[0]).kind}
	}

	seen := make(map[string]struct{}, len(e.children))
	for _, id := range e.children {
		c := n.tree.at(id)
		if c.parent != n.id {
			return errBrokenParent
		}
		if !e.kind.accepts(c.kind) {
			return &InvalidChildError{Parent: n.Path(), Kind: e.kind, Child: c.kind}
		}
		if _, dup := seen[c.name]; dup {
			return &DuplicateNameError{Parent: n.Path(), Name: c.name}
		}
		seen[c.name] = struct{}{}
	}

	if e.kind != KindPath || e.props == noID {
		return nil
	}
	props := Node{tree: n.tree, id: e.props}
	if props.Kind() != KindProperties {
		return fmt.Errorf("properties slot holds a %s node", props.Kind())
	}
	return props.checkStructure()
}
