// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package node implements the configuration tree.
//
// All nodes of a configuration live in a single [Tree] arena and are addressed
// through [Node] handles. A node knows its parent only by id, so parent links
// are navigation aids and never ownership. The variant of a node is given by
// its [Kind]:
//
//   - [KindPath] is a namespace holding uniquely named children and an optional
//     [KindProperties] node defining variables for its subtree.
//   - [KindKeyValue] maps keys to scalar values, e.g. a flat parameter block.
//   - [KindValue] holds a single scalar string.
//   - [KindListElement] is an ordered list of structured elements.
//   - [KindListValue] is an ordered list of scalar values.
//
// Paths are dot delimited and start with the name of the root node,
// e.g. "zconfig.client.rmq.settings".
package node

import (
	"errors"
	"strconv"
	"strings"
)

// Delimiter separates the segments of a path.
const Delimiter = "."

// PropertiesName is the name of the properties node attached to a path node.
// It can be used as a path segment.
const PropertiesName = "@properties"

// ID addresses a node within its [Tree].
type ID int32

const noID ID = -1

type entry struct {
	kind      Kind
	name      string
	parent    ID
	value     string
	encrypted bool
	children  []ID
	index     map[string]ID
	props     ID
}

// Tree owns every node of a configuration.
//
// A Tree may be read concurrently once it is no longer mutated. Callers
// which mutate a live tree must synchronize with readers themselves.
type Tree struct {
	nodes  []entry
	sealed bool
}

// NewTree returns a tree consisting of a single root path node.
func NewTree(rootName string) *Tree {
	t := &Tree{}
	t.nodes = append(t.nodes, entry{
		kind:   KindPath,
		name:   rootName,
		parent: noID,
		index:  make(map[string]ID),
		props:  noID,
	})
	return t
}

// Root returns the root path node.
func (t *Tree) Root() Node {
	return Node{tree: t, id: 0}
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns the node addressed by id.
func (t *Tree) Node(id ID) (Node, bool) {
	if id < 0 || int(id) >= len(t.nodes) {
		return Node{}, false
	}
	return Node{tree: t, id: id}, true
}

// Seal freezes the structure of the tree. Scalar values may still be replaced.
func (t *Tree) Seal() {
	t.sealed = true
}

// Sealed reports whether [Tree.Seal] has been called.
func (t *Tree) Sealed() bool {
	return t.sealed
}

// Find resolves an absolute path, i.e. one starting with the root name.
func (t *Tree) Find(path string) (Node, error) {
	root := t.Root()
	head, rest, _ := strings.Cut(path, Delimiter)
	if head != root.Name() {
		return Node{}, &PathNotFoundError{Path: path, Segment: head}
	}
	if rest == "" {
		return root, nil
	}
	n, err := root.Find(rest)
	var perr *PathNotFoundError
	if errors.As(err, &perr) {
		return Node{}, &PathNotFoundError{Path: path, Segment: perr.Segment}
	}
	return n, err
}

func (t *Tree) at(id ID) *entry {
	return &t.nodes[id]
}

func (t *Tree) add(parent ID, kind Kind, name string) (Node, error) {
	if t.sealed {
		return Node{}, ErrSealed
	}

	p := t.at(parent)
	if !p.kind.accepts(kind) {
		return Node{}, &InvalidChildError{
			Parent: t.path(parent),
			Kind:   p.kind,
			Child:  kind,
		}
	}

	if p.kind.IsList() {
		name = strconv.Itoa(len(p.children))
	} else {
		err := validName(p.kind, name)
		if err != nil {
			return Node{}, err
		}
		if _, exists := p.index[name]; exists {
			return Node{}, &DuplicateNameError{Parent: t.path(parent), Name: name}
		}
	}

	id := ID(len(t.nodes))
	e := entry{
		kind:   kind,
		name:   name,
		parent: parent,
		props:  noID,
	}
	if kind.IsMap() {
		e.index = make(map[string]ID)
	}
	t.nodes = append(t.nodes, e)

	// re-fetch, append may have moved the arena
	p = t.at(parent)
	p.children = append(p.children, id)
	if p.index != nil {
		p.index[name] = id
	}
	return Node{tree: t, id: id}, nil
}

func (t *Tree) properties(parent ID) (Node, error) {
	p := t.at(parent)
	if p.kind != KindPath {
		return Node{}, &InvalidChildError{Parent: t.path(parent), Kind: p.kind, Child: KindProperties}
	}
	if p.props != noID {
		return Node{tree: t, id: p.props}, nil
	}
	if t.sealed {
		return Node{}, ErrSealed
	}

	id := ID(len(t.nodes))
	t.nodes = append(t.nodes, entry{
		kind:   KindProperties,
		name:   PropertiesName,
		parent: parent,
		index:  make(map[string]ID),
		props:  noID,
	})
	t.at(parent).props = id
	return Node{tree: t, id: id}, nil
}

func (t *Tree) path(id ID) string {
	var segs []string
	for id != noID {
		e := t.at(id)
		segs = append(segs, e.name)
		id = e.parent
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return strings.Join(segs, Delimiter)
}

func validName(parent Kind, name string) error {
	if name == "" || name == PropertiesName {
		return &InvalidNameError{Name: name}
	}
	if parent == KindPath && strings.Contains(name, Delimiter) {
		return &InvalidNameError{Name: name}
	}
	return nil
}
