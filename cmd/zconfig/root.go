// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/z5labs/zconfig/config"
	"github.com/z5labs/zconfig/internal/logging"
	"github.com/z5labs/zconfig/source"

	"github.com/spf13/cobra"
)

type rootFlags struct {
	logLevel string
	password string
	version  string
	format   string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:          "zconfig",
		Short:        "Work with zconfig configuration documents",
		SilenceUsage: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	pf.StringVar(&flags.password, "password", "", "password for encrypted values")
	pf.StringVar(&flags.version, "require-version", "", "version documents must be compatible with")
	pf.StringVar(&flags.format, "format", "", "document format, inferred from the file extension if empty")

	cmd.AddCommand(
		newValidateCmd(flags),
		newGetCmd(flags),
		newConvertCmd(flags),
		newEncryptCmd(flags),
	)
	return cmd
}

func (f *rootFlags) logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(f.logLevel))
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %q", f.logLevel)
	}
	return logging.New(w, level, logging.Keys("password"), logging.Secrets(f.password)), nil
}

func (f *rootFlags) parseOptions() []config.Option {
	if f.password == "" {
		return nil
	}
	return []config.Option{config.WithPassword(f.password)}
}

// load parses the document at loc, which is a file path or an http(s) URL.
func (f *rootFlags) load(ctx context.Context, cmd *cobra.Command, loc string) (*config.Configuration, error) {
	log, err := f.logger(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	version, err := config.ParseVersion(f.version)
	if err != nil {
		return nil, err
	}

	r, name, err := open(ctx, loc, log)
	if err != nil {
		return nil, err
	}

	format := config.Format(f.format)
	if format == "" {
		format, err = config.FormatOf(name)
		if err != nil {
			r.Close()
			return nil, err
		}
	}

	settings := config.Settings{
		Format: format,
		Logger: log,
	}
	return config.Parse(ctx, loc, r, settings, version, f.parseOptions()...)
}

func open(ctx context.Context, loc string, log *slog.Logger) (io.ReadCloser, string, error) {
	if strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://") {
		u, err := url.Parse(loc)
		if err != nil {
			return nil, "", err
		}
		rc, err := source.HTTP(ctx, loc, source.Logger(log))
		if err != nil {
			return nil, "", err
		}
		return rc, path.Base(u.Path), nil
	}

	abs, err := filepath.Abs(loc)
	if err != nil {
		return nil, "", err
	}
	name := filepath.Base(abs)
	return source.NewFileReader(os.DirFS(filepath.Dir(abs)), name), name, nil
}
