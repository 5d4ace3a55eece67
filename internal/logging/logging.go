// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package logging builds the slog handlers used by the zconfig command.
package logging

import (
	"io"
	"log/slog"
)

// New returns a text logger at level which masks secrets and correlates
// records with the active span.
func New(w io.Writer, level slog.Level, opts ...MaskOption) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewTraceHandler(NewMaskHandler(h, opts...)))
}
