// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/z5labs/zconfig/node"
)

// Reserved keys of map based documents.
const (
	keyProperties = "@properties"
	keyVersion    = "@version"
	keyKind       = "@kind"
	keyValue      = "@value"
	keyEncrypted  = "@encrypted"

	kindParams = "params"
)

var (
	errNoRoot      = errors.New("document must contain exactly one top level entry")
	errRootNotPath = errors.New("top level entry must be an object")
)

// mapBuilder turns the generic decoding of a map based format
// (JSON, YAML and everything viper reads) into a node tree.
type mapBuilder struct {
	format Format
}

func (b mapBuilder) document(m map[string]any) (*Document, error) {
	if len(m) != 1 {
		return nil, InvalidDocumentError{Format: b.format, Cause: errNoRoot}
	}

	var (
		name string
		body any
	)
	for k, v := range m {
		name, body = k, v
	}
	obj, ok := asObject(body)
	if !ok {
		return nil, InvalidDocumentError{Format: b.format, Cause: errRootNotPath}
	}

	doc := &Document{Tree: node.NewTree(name)}
	if v, ok := obj[keyVersion]; ok {
		s, err := b.scalar(name+"."+keyVersion, v)
		if err != nil {
			return nil, err
		}
		doc.Version = s
	}

	err := b.object(doc.Tree.Root(), obj)
	if err != nil {
		return nil, InvalidDocumentError{Format: b.format, Cause: err}
	}
	return doc, nil
}

func (b mapBuilder) object(parent node.Node, obj map[string]any) error {
	for _, k := range sortedKeys(obj) {
		switch k {
		case keyVersion, keyKind:
			continue
		case keyProperties:
			err := b.properties(parent, obj[k])
			if err != nil {
				return err
			}
			continue
		}

		err := b.member(parent, k, obj[k])
		if err != nil {
			return err
		}
	}
	return nil
}

func (b mapBuilder) properties(parent node.Node, v any) error {
	obj, ok := asObject(v)
	if !ok {
		return fmt.Errorf("%s.%s: properties must be an object", parent.Path(), keyProperties)
	}
	props, err := parent.SetProperties()
	if err != nil {
		return err
	}
	for _, k := range sortedKeys(obj) {
		s, err := b.scalar(props.Path()+"."+k, obj[k])
		if err != nil {
			return err
		}
		_, err = props.AddValue(k, s)
		if err != nil {
			return err
		}
	}
	return nil
}

// member adds name to parent. For list parents the name is ignored.
func (b mapBuilder) member(parent node.Node, name string, v any) error {
	if obj, ok := asObject(v); ok {
		switch {
		case isEncryptedValue(obj):
			return b.encrypted(parent, name, obj)
		case obj[keyKind] == kindParams:
			return b.params(parent, name, obj)
		default:
			path, err := parent.AddPath(name)
			if err != nil {
				return err
			}
			return b.object(path, obj)
		}
	}

	if list, ok := v.([]any); ok {
		return b.list(parent, name, list)
	}

	s, err := b.scalar(name, v)
	if err != nil {
		return err
	}
	_, err = parent.AddValue(name, s)
	return err
}

func (b mapBuilder) params(parent node.Node, name string, obj map[string]any) error {
	kv, err := parent.AddKeyValue(name)
	if err != nil {
		return err
	}
	for _, k := range sortedKeys(obj) {
		if k == keyKind {
			continue
		}
		s, err := b.scalar(kv.Path()+"."+k, obj[k])
		if err != nil {
			return err
		}
		_, err = kv.AddValue(k, s)
		if err != nil {
			return err
		}
	}
	return nil
}

func (b mapBuilder) encrypted(parent node.Node, name string, obj map[string]any) error {
	s, err := b.scalar(name, obj[keyValue])
	if err != nil {
		return err
	}
	n, err := parent.AddValue(name, s)
	if err != nil {
		return err
	}
	return n.SetEncrypted(true)
}

func (b mapBuilder) list(parent node.Node, name string, items []any) error {
	if allScalars(items) {
		lv, err := parent.AddListValue(name)
		if err != nil {
			return err
		}
		for _, item := range items {
			s, err := b.scalar(lv.Path(), item)
			if err != nil {
				return err
			}
			_, err = lv.AppendValue(s)
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
		err := b.member(le, "", item)
		if err != nil {
			return err
		}
	}
	return nil
}

func (b mapBuilder) scalar(path string, v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case bool:
		return strconv.FormatBool(x), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case time.Time:
		return x.Format(time.RFC3339Nano), nil
	case fmt.Stringer:
		return x.String(), nil
	case map[string]any, map[any]any, []any:
		return "", fmt.Errorf("%s: expected a scalar value", path)
	default:
		return fmt.Sprint(x), nil
	}
}

func asObject(v any) (map[string]any, bool) {
	switch x := v.(type) {
	case map[string]any:
		return x, true
	case map[any]any:
		obj := make(map[string]any, len(x))
		for k, v := range x {
			obj[fmt.Sprint(k)] = v
		}
		return obj, true
	case []map[string]any:
		// HCL blocks decode as a list of objects
		if len(x) != 1 {
			return nil, false
		}
		return x[0], true
	default:
		return nil, false
	}
}

func isEncryptedValue(obj map[string]any) bool {
	if _, ok := obj[keyValue]; !ok {
		return false
	}
	switch x := obj[keyEncrypted].(type) {
	case bool:
		return x
	case string:
		b, _ := strconv.ParseBool(x)
		return b
	default:
		return false
	}
}

func allScalars(items []any) bool {
	for _, item := range items {
		if _, ok := item.([]any); ok {
			return false
		}
		if _, ok := asObject(item); ok {
			return false
		}
	}
	return true
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
