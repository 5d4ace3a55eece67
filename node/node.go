// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package node

import (
	"strconv"
	"strings"
)

// Node is a handle to a node stored in a [Tree]. The zero value
// refers to no node; see [Node.IsZero].
type Node struct {
	tree *Tree
	id   ID
}

// IsZero reports whether n refers to no node.
func (n Node) IsZero() bool {
	return n.tree == nil
}

// Tree returns the tree owning n.
func (n Node) Tree() *Tree {
	return n.tree
}

// ID returns the arena id of n.
func (n Node) ID() ID {
	return n.id
}

func (n Node) entry() *entry {
	return n.tree.at(n.id)
}

// Kind returns the variant of n.
func (n Node) Kind() Kind {
	if n.IsZero() {
		return KindInvalid
	}
	return n.entry().kind
}

// Name returns the name of n. Elements of lists are named by their index.
func (n Node) Name() string {
	return n.entry().name
}

// Path returns the dot delimited path from the root to n.
func (n Node) Path() string {
	return n.tree.path(n.id)
}

// Parent returns the parent of n. The root has no parent.
func (n Node) Parent() (Node, bool) {
	p := n.entry().parent
	if p == noID {
		return Node{}, false
	}
	return Node{tree: n.tree, id: p}, true
}

// Value returns the scalar held by a value node.
// It is empty for every other kind.
func (n Node) Value() string {
	return n.entry().value
}

// Encrypted reports whether the value of n is stored encrypted.
func (n Node) Encrypted() bool {
	return n.entry().encrypted
}

// SetValue replaces the scalar of a value node. Unlike structural changes
// this is still permitted on a sealed tree.
func (n Node) SetValue(v string) error {
	e := n.entry()
	if e.kind != KindValue {
		return &KindError{Path: n.Path(), Expected: []Kind{KindValue}, Actual: e.kind}
	}
	e.value = v
	return nil
}

// SetEncrypted marks the value of n as encrypted.
func (n Node) SetEncrypted(encrypted bool) error {
	e := n.entry()
	if e.kind != KindValue {
		return &KindError{Path: n.Path(), Expected: []Kind{KindValue}, Actual: e.kind}
	}
	e.encrypted = encrypted
	return nil
}

// Len returns the number of children of n.
func (n Node) Len() int {
	return len(n.entry().children)
}

// Children returns the children of n in insertion order.
// The properties node of a path node is not included.
func (n Node) Children() []Node {
	ids := n.entry().children
	nodes := make([]Node, len(ids))
	for i, id := range ids {
		nodes[i] = Node{tree: n.tree, id: id}
	}
	return nodes
}

// Index returns the i-th child of n.
func (n Node) Index(i int) (Node, bool) {
	ids := n.entry().children
	if i < 0 || i >= len(ids) {
		return Node{}, false
	}
	return Node{tree: n.tree, id: ids[i]}, true
}

// Child returns the child of n with the given name. List elements are
// addressed by their decimal index and [PropertiesName] addresses
// the properties node of a path node.
func (n Node) Child(name string) (Node, bool) {
	e := n.entry()
	switch {
	case e.kind == KindPath && name == PropertiesName:
		return n.Properties()
	case e.kind.IsList():
		i, err := strconv.Atoi(name)
		if err != nil {
			return Node{}, false
		}
		return n.Index(i)
	case e.index != nil:
		id, ok := e.index[name]
		if !ok {
			return Node{}, false
		}
		return Node{tree: n.tree, id: id}, true
	default:
		return Node{}, false
	}
}

// Properties returns the properties node attached to a path node.
func (n Node) Properties() (Node, bool) {
	e := n.entry()
	if e.kind != KindPath || e.props == noID {
		return Node{}, false
	}
	return Node{tree: n.tree, id: e.props}, true
}

// Find resolves a path relative to n. The node at the final segment is
// returned whatever its kind, so callers must check [Node.Kind].
func (n Node) Find(path string) (Node, error) {
	cur := n
	for _, seg := range strings.Split(path, Delimiter) {
		next, ok := cur.Child(seg)
		if !ok {
			return Node{}, &PathNotFoundError{Path: path, Segment: seg}
		}
		cur = next
	}
	return cur, nil
}

// Values returns the scalars held by a list value, key value or
// properties node, in insertion order.
func (n Node) Values() []string {
	ids := n.entry().children
	vs := make([]string, 0, len(ids))
	for _, id := range ids {
		c := n.tree.at(id)
		if c.kind != KindValue {
			continue
		}
		vs = append(vs, c.value)
	}
	return vs
}

// Add appends a new child of the given kind. The name is ignored for
// list parents where children are named by their index.
func (n Node) Add(kind Kind, name string) (Node, error) {
	return n.tree.add(n.id, kind, name)
}

// AddPath adds a named path node.
func (n Node) AddPath(name string) (Node, error) {
	return n.Add(KindPath, name)
}

// AddKeyValue adds a named key value node.
func (n Node) AddKeyValue(name string) (Node, error) {
	return n.Add(KindKeyValue, name)
}

// AddListElement adds a named list element node.
func (n Node) AddListElement(name string) (Node, error) {
	return n.Add(KindListElement, name)
}

// AddListValue adds a named list value node.
func (n Node) AddListValue(name string) (Node, error) {
	return n.Add(KindListValue, name)
}

// AddValue adds a value node holding v.
func (n Node) AddValue(name, v string) (Node, error) {
	c, err := n.Add(KindValue, name)
	if err != nil {
		return Node{}, err
	}
	c.entry().value = v
	return c, nil
}

// AppendValue appends a value to a list node.
func (n Node) AppendValue(v string) (Node, error) {
	return n.AddValue("", v)
}

// SetProperties returns the properties node of a path node,
// creating it if necessary.
func (n Node) SetProperties() (Node, error) {
	return n.tree.properties(n.id)
}

// Walk calls fn for n and then for every descendant, depth first in
// insertion order. Properties nodes are not visited. Walk stops at the
// first error returned by fn.
func Walk(n Node, fn func(Node) error) error {
	err := fn(n)
	if err != nil {
		return err
	}
	for _, c := range n.Children() {
		err = Walk(c, fn)
		if err != nil {
			return err
		}
	}
	return nil
}
