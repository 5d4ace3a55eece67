// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package logging

import (
	"context"
	"log/slog"
	"strings"
)

// Masked replaces every masked value.
const Masked = "****"

type maskOptions struct {
	keys    map[string]struct{}
	secrets []string
}

// MaskOption configures a [MaskHandler].
type MaskOption func(*maskOptions)

// Keys masks the values of attributes with the given keys, at any depth.
func Keys(keys ...string) MaskOption {
	return func(o *maskOptions) {
		for _, k := range keys {
			o.keys[k] = struct{}{}
		}
	}
}

// Secrets masks every occurrence of the given values in messages and
// string attributes. Empty secrets are ignored.
func Secrets(secrets ...string) MaskOption {
	return func(o *maskOptions) {
		for _, s := range secrets {
			if s != "" {
				o.secrets = append(o.secrets, s)
			}
		}
	}
}

// MaskHandler is a [slog.Handler] which masks secrets before records
// reach the wrapped handler.
type MaskHandler struct {
	slog slog.Handler
	opts *maskOptions
}

// NewMaskHandler wraps h.
func NewMaskHandler(h slog.Handler, opts ...MaskOption) *MaskHandler {
	o := &maskOptions{
		keys: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(o)
	}
	return &MaskHandler{slog: h, opts: o}
}

// Enabled implements the [slog.Handler] interface.
func (h *MaskHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.slog.Enabled(ctx, lvl)
}

// Handle implements the [slog.Handler] interface.
func (h *MaskHandler) Handle(ctx context.Context, record slog.Record) error {
	r := slog.NewRecord(record.Time, record.Level, h.maskString(record.Message), record.PC)
	record.Attrs(func(a slog.Attr) bool {
		r.AddAttrs(h.mask(a))
		return true
	})
	return h.slog.Handle(ctx, r)
}

// WithAttrs implements the [slog.Handler] interface.
func (h *MaskHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = h.mask(a)
	}
	return &MaskHandler{slog: h.slog.WithAttrs(masked), opts: h.opts}
}

// WithGroup implements the [slog.Handler] interface.
func (h *MaskHandler) WithGroup(name string) slog.Handler {
	return &MaskHandler{slog: h.slog.WithGroup(name), opts: h.opts}
}

func (h *MaskHandler) mask(a slog.Attr) slog.Attr {
	if _, ok := h.opts.keys[a.Key]; ok {
		return slog.String(a.Key, Masked)
	}

	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindGroup:
		group := v.Group()
		masked := make([]any, len(group))
		for i, ga := range group {
			masked[i] = h.mask(ga)
		}
		return slog.Group(a.Key, masked...)
	case slog.KindString:
		return slog.String(a.Key, h.maskString(v.String()))
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return slog.String(a.Key, h.maskString(err.Error()))
		}
		return slog.Attr{Key: a.Key, Value: v}
	default:
		return slog.Attr{Key: a.Key, Value: v}
	}
}

func (h *MaskHandler) maskString(s string) string {
	for _, secret := range h.opts.secrets {
		s = strings.ReplaceAll(s, secret, Masked)
	}
	return s
}
