// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"bytes"
	"io"

	"github.com/goccy/go-json"
)

type jsonParser struct{}

// Parse implements the [Parser] interface.
func (jsonParser) Parse(r io.Reader) (*Document, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	// numbers stay in their textual form
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	m := make(map[string]any)
	err = dec.Decode(&m)
	if err != nil {
		return nil, InvalidJSONError{Cause: err}
	}
	return mapBuilder{format: JSON}.document(m)
}
