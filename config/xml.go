// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/z5labs/zconfig/node"
)

// Reserved XML names.
const (
	xmlProperties = "properties"
	xmlProperty   = "property"
	xmlName       = "name"
	xmlVersion    = "version"
	xmlKind       = "kind"
	xmlEncrypted  = "encrypted"

	xmlKindList = "list"
)

var errNoRootElement = errors.New("document has no root element")

type xmlElement struct {
	name     string
	attrs    []xml.Attr
	children []*xmlElement
	text     strings.Builder
}

func (e *xmlElement) attr(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// scalar reports whether e only carries text.
func (e *xmlElement) scalar() bool {
	if len(e.children) > 0 {
		return false
	}
	for _, a := range e.attrs {
		if a.Name.Local != xmlEncrypted {
			return false
		}
	}
	return true
}

func (e *xmlElement) encrypted() bool {
	v, _ := e.attr(xmlEncrypted)
	b, _ := strconv.ParseBool(v)
	return b
}

func (e *xmlElement) value() string {
	return strings.TrimSpace(e.text.String())
}

type xmlParser struct{}

// Parse implements the [Parser] interface.
func (xmlParser) Parse(r io.Reader) (*Document, error) {
	root, err := readXML(r)
	if err != nil {
		return nil, err
	}

	doc := &Document{Tree: node.NewTree(root.name)}
	doc.Version, _ = root.attr(xmlVersion)

	err = buildXMLPath(doc.Tree.Root(), root, true)
	if err != nil {
		return nil, InvalidDocumentError{Format: XML, Cause: err}
	}
	return doc, nil
}

func readXML(r io.Reader) (*xmlElement, error) {
	dec := xml.NewDecoder(r)

	var (
		root  *xmlElement
		stack []*xmlElement
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, InvalidXMLError{Cause: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &xmlElement{name: t.Name.Local, attrs: t.Attr}
			if len(stack) == 0 {
				if root != nil {
					return nil, InvalidXMLError{Cause: errors.New("multiple root elements")}
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}
	if root == nil {
		return nil, InvalidXMLError{Cause: errNoRootElement}
	}
	return root, nil
}

func buildXMLPath(path node.Node, el *xmlElement, root bool) error {
	for _, a := range el.attrs {
		name := a.Name.Local
		if name == xmlKind || (root && name == xmlVersion) || a.Name.Space == "xmlns" || name == "xmlns" {
			continue
		}
		_, err := path.AddValue(name, a.Value)
		if err != nil {
			return err
		}
	}

	for _, group := range groupByName(el.children) {
		first := group[0]
		var err error
		switch {
		case first.name == xmlProperties && len(group) == 1:
			err = buildXMLProperties(path, first)
		case len(group) > 1:
			err = buildXMLList(path, first.name, group)
		default:
			err = buildXMLElement(path, first.name, first)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func buildXMLElement(parent node.Node, name string, el *xmlElement) error {
	kind, _ := el.attr(xmlKind)
	switch {
	case kind == xmlKindList:
		return buildXMLList(parent, name, el.children)
	case kind == kindParams:
		return buildXMLParams(parent, name, el)
	case el.scalar():
		n, err := parent.AddValue(name, el.value())
		if err != nil {
			return err
		}
		if el.encrypted() {
			return n.SetEncrypted(true)
		}
		return nil
	default:
		path, err := parent.AddPath(name)
		if err != nil {
			return err
		}
		return buildXMLPath(path, el, false)
	}
}

func buildXMLList(parent node.Node, name string, items []*xmlElement) error {
	scalars := true
	for _, item := range items {
		if !item.scalar() || item.encrypted() {
			scalars = false
			break
		}
	}

	if scalars {
		lv, err := parent.AddListValue(name)
		if err != nil {
			return err
		}
		for _, item := range items {
			_, err := lv.AppendValue(item.value())
			if err != nil {
				return err
			}
		}
		return nil
	}

	le, err := parent.AddListElement(name)
	if err != nil {
		return err
	}
	for _, item := range items {
		err := buildXMLElement(le, "", item)
		if err != nil {
			return err
		}
	}
	return nil
}

func buildXMLParams(parent node.Node, name string, el *xmlElement) error {
	kv, err := parent.AddKeyValue(name)
	if err != nil {
		return err
	}
	for _, a := range el.attrs {
		if a.Name.Local == xmlKind {
			continue
		}
		_, err := kv.AddValue(a.Name.Local, a.Value)
		if err != nil {
			return err
		}
	}
	for _, child := range el.children {
		_, err := kv.AddValue(child.name, child.value())
		if err != nil {
			return err
		}
	}
	return nil
}

func buildXMLProperties(path node.Node, el *xmlElement) error {
	props, err := path.SetProperties()
	if err != nil {
		return err
	}
	for _, a := range el.attrs {
		_, err := props.AddValue(a.Name.Local, a.Value)
		if err != nil {
			return err
		}
	}
	for _, child := range el.children {
		name := child.name
		if name == xmlProperty {
			name, _ = child.attr(xmlName)
		}
		_, err := props.AddValue(name, child.value())
		if err != nil {
			return err
		}
	}
	return nil
}

// groupByName groups elements by name in order of first appearance.
func groupByName(els []*xmlElement) [][]*xmlElement {
	index := make(map[string]int)
	var groups [][]*xmlElement
	for _, el := range els {
		i, ok := index[el.name]
		if !ok {
			i = len(groups)
			index[el.name] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], el)
	}
	return groups
}
