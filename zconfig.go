// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package zconfig

import (
	"context"
	"fmt"
	"io"
	"io/fs"

	"github.com/z5labs/zconfig/bind"
	"github.com/z5labs/zconfig/config"
	"github.com/z5labs/zconfig/source"
)

type options struct {
	settings  config.Settings
	version   config.Version
	parseOpts []config.Option
	bindOpts  []bind.Option
}

// Option configures [Load] and [LoadFile].
type Option func(*options)

// Settings sets the parser settings. With [LoadFile] an empty format is
// inferred from the file extension.
func Settings(s config.Settings) Option {
	return func(o *options) {
		o.settings = s
	}
}

// Version sets the version the document must be compatible with.
func Version(v config.Version) Option {
	return func(o *options) {
		o.version = v
	}
}

// ParseOptions are passed to [config.Parse].
func ParseOptions(opts ...config.Option) Option {
	return func(o *options) {
		o.parseOpts = append(o.parseOpts, opts...)
	}
}

// BindOptions are passed to [bind.Bind].
func BindOptions(opts ...bind.Option) Option {
	return func(o *options) {
		o.bindOpts = append(o.bindOpts, opts...)
	}
}

// Load parses a single document from r and binds it into a new T.
func Load[T any](ctx context.Context, name string, r io.Reader, opts ...Option) (T, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return load[T](ctx, name, r, o)
}

// LoadFile is [Load] for a file of fsys. The configuration is named after
// the file path.
func LoadFile[T any](ctx context.Context, fsys fs.FS, path string, opts ...Option) (T, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.settings.Format == "" && o.settings.Parser == nil {
		f, err := config.FormatOf(path)
		if err != nil {
			var zero T
			return zero, ParseError{Cause: err}
		}
		o.settings.Format = f
	}
	return load[T](ctx, path, source.NewFileReader(fsys, path), o)
}

func load[T any](ctx context.Context, name string, r io.Reader, o *options) (T, error) {
	var zero T
	cfg, err := config.Parse(ctx, name, r, o.settings, o.version, o.parseOpts...)
	if err != nil {
		return zero, ParseError{Cause: err}
	}

	v, err := bind.Into[T](ctx, cfg, o.bindOpts...)
	if err != nil {
		return zero, BindError{Cause: err}
	}
	return v, nil
}

// ParseError
type ParseError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e ParseError) Error() string {
	return fmt.Sprintf("failed to parse configuration: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e ParseError) Unwrap() error {
	return e.Cause
}

// BindError
type BindError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e BindError) Error() string {
	return fmt.Sprintf("failed to bind configuration: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e BindError) Unwrap() error {
	return e.Cause
}
