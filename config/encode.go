// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"io"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/z5labs/zconfig/node"
)

// Encode writes cfg to w as a JSON or YAML document which parses back
// into an equivalent tree. Resolved values are written, not the raw
// variable references.
func Encode(w io.Writer, cfg *Configuration, f Format) error {
	body := encodePath(cfg.Root())
	if !cfg.Version.IsZero() {
		body[keyVersion] = cfg.Version.String()
	}
	doc := map[string]any{cfg.Root().Name(): body}

	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err := enc.Encode(doc)
		if err != nil {
			return err
		}
		return enc.Close()
	default:
		return UnsupportedFormatError{Format: f}
	}
}

// EncodeNode converts the subtree rooted at n into the generic form
// written by [Encode].
func EncodeNode(n node.Node) any {
	switch n.Kind() {
	case node.KindPath:
		return encodePath(n)
	case node.KindKeyValue:
		m := encodeValues(n)
		m[keyKind] = kindParams
		return m
	case node.KindProperties:
		return encodeValues(n)
	case node.KindListValue:
		vs := n.Values()
		items := make([]any, len(vs))
		for i, v := range vs {
			items[i] = v
		}
		return items
	case node.KindListElement:
		items := make([]any, 0, n.Len())
		for _, child := range n.Children() {
			items = append(items, EncodeNode(child))
		}
		return items
	case node.KindValue:
		if n.Encrypted() {
			return map[string]any{keyValue: n.Value(), keyEncrypted: true}
		}
		return n.Value()
	default:
		return nil
	}
}

func encodePath(n node.Node) map[string]any {
	m := make(map[string]any, n.Len()+1)
	if props, ok := n.Properties(); ok {
		m[keyProperties] = encodeValues(props)
	}
	for _, child := range n.Children() {
		m[child.Name()] = EncodeNode(child)
	}
	return m
}

func encodeValues(n node.Node) map[string]any {
	m := make(map[string]any, n.Len())
	for _, child := range n.Children() {
		m[child.Name()] = child.Value()
	}
	return m
}
