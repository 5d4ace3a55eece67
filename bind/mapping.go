// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package bind

import (
	"reflect"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

const tagName = "config"

type field struct {
	index     []int
	goName    string
	name      string
	required  bool
	transform string
}

type mapping struct {
	fields []field
}

var mappings sync.Map

// mappingOf returns the field table of the struct type t, building and
// caching it on first use.
func mappingOf(t reflect.Type) (*mapping, error) {
	if m, ok := mappings.Load(t); ok {
		return m.(*mapping), nil
	}

	m, err := buildMapping(t)
	if err != nil {
		return nil, err
	}
	actual, _ := mappings.LoadOrStore(t, m)
	return actual.(*mapping), nil
}

func buildMapping(t reflect.Type) (*mapping, error) {
	m := &mapping{}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		tag, tagged := sf.Tag.Lookup(tagName)
		if tag == "-" {
			continue
		}

		f, err := parseTag(sf, tag)
		if err != nil {
			return nil, err
		}
		if sf.Anonymous && !tagged && sf.Type.Kind() == reflect.Struct {
			// embedded structs bind against the same node
			f.name = ""
		}
		m.fields = append(m.fields, f)
	}
	return m, nil
}

func parseTag(sf reflect.StructField, tag string) (field, error) {
	f := field{
		index:  sf.Index,
		goName: sf.Name,
	}

	parts := strings.Split(tag, ",")
	f.name = strings.TrimSpace(parts[0])
	if f.name == "" {
		f.name = defaultName(sf.Name)
	}

	for _, opt := range parts[1:] {
		opt = strings.TrimSpace(opt)
		switch {
		case opt == "required":
			f.required = true
		case strings.HasPrefix(opt, "transform="):
			f.transform = strings.TrimPrefix(opt, "transform=")
			if f.transform == "" {
				return field{}, &InvalidTagError{Field: sf.Name, Tag: tag}
			}
		case opt == "":
		default:
			return field{}, &InvalidTagError{Field: sf.Name, Tag: tag}
		}
	}
	return f, nil
}

func defaultName(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}
