// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"io"

	"gopkg.in/yaml.v3"
)

type yamlParser struct{}

// Parse implements the [Parser] interface.
func (yamlParser) Parse(r io.Reader) (*Document, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	m := make(map[string]any)
	err = yaml.Unmarshal(b, &m)
	if err != nil {
		return nil, InvalidYAMLError{Cause: err}
	}
	return mapBuilder{format: YAML}.document(m)
}
