// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"io"

	"github.com/spf13/viper"
)

// viperParser reads the formats viper has codecs for. Viper lower cases
// every key, so names in these formats are always lower case.
type viperParser struct {
	format Format
}

// Parse implements the [Parser] interface.
func (p viperParser) Parse(r io.Reader) (*Document, error) {
	v := viper.New()
	v.SetConfigType(string(p.format))

	err := v.ReadConfig(r)
	if err != nil {
		return nil, InvalidDocumentError{Format: p.format, Cause: err}
	}
	return mapBuilder{format: p.format}.document(v.AllSettings())
}
