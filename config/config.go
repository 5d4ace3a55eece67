// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/z5labs/zconfig/internal/try"
	"github.com/z5labs/zconfig/lifecycle"
	"github.com/z5labs/zconfig/node"
	"github.com/z5labs/zconfig/secret"
	"github.com/z5labs/zconfig/variable"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/z5labs/zconfig/config")

// Settings control how a document is parsed and post processed.
type Settings struct {
	Format Format

	// Parser overrides the built-in parser for Format.
	Parser Parser

	// Rules are applied to every path node once variables are resolved.
	Rules []node.Rule

	// LookupEnv is the environment fallback for variables no property
	// defines. Defaults to [os.LookupEnv].
	LookupEnv func(string) (string, bool)

	Logger *slog.Logger
}

func (s Settings) parser() (Parser, error) {
	if s.Parser != nil {
		return s.Parser, nil
	}
	return ParserFor(s.Format)
}

func (s Settings) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func (s Settings) lookupEnv() func(string) (string, bool) {
	if s.LookupEnv != nil {
		return s.LookupEnv
	}
	return os.LookupEnv
}

type options struct {
	password string
}

// Option configures a [Configuration].
type Option func(*options)

// WithPassword sets the password used to decrypt encrypted values.
func WithPassword(password string) Option {
	return func(o *options) {
		o.password = password
	}
}

// Configuration is a parsed configuration document.
//
// Once loaded, a Configuration is read only and safe for concurrent use.
type Configuration struct {
	Name     string
	Version  Version
	Settings Settings

	tree   *node.Tree
	state  lifecycle.Tracker
	cipher *secret.Cipher
}

// New wraps an already built tree. The returned configuration must be
// loaded with [Configuration.Load] before it can be bound.
func New(name string, tree *node.Tree, settings Settings, opts ...Option) (*Configuration, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	cfg := &Configuration{
		Name:     name,
		Settings: settings,
		tree:     tree,
	}
	if o.password != "" {
		c, err := secret.New(o.password)
		if err != nil {
			return nil, &ConfigurationError{Name: name, Cause: err}
		}
		cfg.cipher = c
	}
	cfg.state.Set(lifecycle.Initialized)
	return cfg, nil
}

// Parse reads a single document from r and returns the loaded [Configuration].
//
// If r implements [io.Closer] it is closed before Parse returns. A non-zero
// version is checked against the version declared by the document.
func Parse(ctx context.Context, name string, r io.Reader, settings Settings, version Version, opts ...Option) (cfg *Configuration, err error) {
	ctx, span := tracer.Start(ctx, "config.Parse", trace.WithAttributes(
		attribute.String("zconfig.name", name),
		attribute.String("zconfig.format", string(settings.Format)),
	))
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()
	defer try.Close(&err, r)

	p, err := settings.parser()
	if err != nil {
		return nil, &ConfigurationError{Name: name, Cause: err}
	}

	doc, err := p.Parse(r)
	if err != nil {
		return nil, &ConfigurationError{Name: name, Cause: err}
	}

	declared, err := checkVersion(version, doc.Version)
	if err != nil {
		return nil, &ConfigurationError{Name: name, Cause: err}
	}

	cfg, err = New(name, doc.Tree, settings, opts...)
	if err != nil {
		return nil, err
	}
	cfg.Version = declared

	settings.logger().DebugContext(ctx, "parsed configuration document",
		slog.String("name", name),
		slog.String("format", string(settings.Format)),
		slog.Int("nodes", doc.Tree.Len()),
	)

	err = cfg.Load(ctx)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load runs the post-load pass: properties and values are resolved,
// the tree is validated and sealed and the configuration marked loaded.
func (c *Configuration) Load(ctx context.Context) error {
	err := c.state.Check(lifecycle.Initialized)
	if err != nil {
		return &ConfigurationError{Name: c.Name, Cause: err}
	}

	pl := postLoad{
		resolver: variable.NewResolver(variable.LookupEnv(c.Settings.lookupEnv())),
		log:      c.Settings.logger(),
	}
	err = pl.process(ctx, c.tree.Root(), variable.Scope{})
	if err == nil {
		err = c.tree.Validate(c.Settings.Rules...)
	}
	if err != nil {
		c.state.Fail(err)
		return &ConfigurationError{Name: c.Name, Cause: err}
	}

	c.tree.Seal()
	c.state.Set(lifecycle.Available)
	return nil
}

// Loaded reports whether the post-load pass has completed.
func (c *Configuration) Loaded() bool {
	return c.state.Is(lifecycle.Available)
}

// CheckLoaded returns a [*lifecycle.StateError] unless the configuration is loaded.
func (c *Configuration) CheckLoaded() error {
	return c.state.Check(lifecycle.Available)
}

// Tree returns the underlying node tree.
func (c *Configuration) Tree() *node.Tree {
	return c.tree
}

// Root returns the root path node.
func (c *Configuration) Root() node.Node {
	return c.tree.Root()
}

// Find resolves an absolute dot path, starting with the root name.
func (c *Configuration) Find(path string) (node.Node, error) {
	return c.tree.Find(path)
}

// ScopeAt returns the properties visible at n: those of every path node
// from the root down to n, with nearer definitions winning.
func (c *Configuration) ScopeAt(n node.Node) variable.Scope {
	var chain []node.Node
	for cur, ok := n, true; ok; cur, ok = cur.Parent() {
		if cur.Kind() == node.KindPath {
			chain = append(chain, cur)
		}
	}

	scope := variable.Scope{}
	for i := len(chain) - 1; i >= 0; i-- {
		props, ok := chain[i].Properties()
		if !ok {
			continue
		}
		scope = scope.With(valuesOf(props))
	}
	return scope
}

// Decrypt returns the plain text of n. Values which are not encrypted are
// returned as is.
func (c *Configuration) Decrypt(n node.Node) (string, error) {
	if !n.Encrypted() {
		return n.Value(), nil
	}
	if c.cipher == nil {
		return "", ErrNoPassword
	}
	return c.cipher.Decrypt(n.Value())
}

func valuesOf(props node.Node) map[string]string {
	vals := make(map[string]string, props.Len())
	for _, child := range props.Children() {
		vals[child.Name()] = child.Value()
	}
	return vals
}
