// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/z5labs/zconfig/node"
)

// Format names a document encoding.
type Format string

const (
	JSON       Format = "json"
	YAML       Format = "yaml"
	XML        Format = "xml"
	TOML       Format = "toml"
	HCL        Format = "hcl"
	INI        Format = "ini"
	Properties Format = "properties"
	Dotenv     Format = "dotenv"
)

// Document is the output of a [Parser].
type Document struct {
	Tree *node.Tree

	// Version is the version declared by the document, if any.
	Version string
}

// Parser builds the node tree of a single document.
type Parser interface {
	Parse(r io.Reader) (*Document, error)
}

// ParserFunc is a func type which implements [Parser].
type ParserFunc func(io.Reader) (*Document, error)

// Parse implements the [Parser] interface.
func (f ParserFunc) Parse(r io.Reader) (*Document, error) {
	return f(r)
}

// ParserFor returns the built-in [Parser] for f.
func ParserFor(f Format) (Parser, error) {
	switch f {
	case JSON:
		return jsonParser{}, nil
	case YAML:
		return yamlParser{}, nil
	case XML:
		return xmlParser{}, nil
	case TOML, HCL, INI, Properties, Dotenv:
		return viperParser{format: f}, nil
	default:
		return nil, UnsupportedFormatError{Format: f}
	}
}

var extensions = map[string]Format{
	".json":       JSON,
	".yaml":       YAML,
	".yml":        YAML,
	".xml":        XML,
	".toml":       TOML,
	".hcl":        HCL,
	".ini":        INI,
	".properties": Properties,
	".props":      Properties,
	".env":        Dotenv,
}

// FormatOf infers the [Format] of a file from its extension.
func FormatOf(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	f, ok := extensions[ext]
	if !ok {
		return "", UnsupportedFormatError{Format: Format(strings.TrimPrefix(ext, "."))}
	}
	return f, nil
}
