// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"context"
	"log/slog"

	"github.com/z5labs/zconfig/node"
	"github.com/z5labs/zconfig/variable"
)

type postLoad struct {
	resolver *variable.Resolver
	log      *slog.Logger
}

func (p postLoad) process(ctx context.Context, n node.Node, scope variable.Scope) error {
	switch n.Kind() {
	case node.KindValue:
		return p.resolve(ctx, n, scope)
	case node.KindPath:
		props, ok := n.Properties()
		if ok {
			// properties only see what their ancestors define
			for _, prop := range props.Children() {
				err := p.resolve(ctx, prop, scope)
				if err != nil {
					return err
				}
			}
			scope = scope.With(valuesOf(props))
		}
	}

	for _, child := range n.Children() {
		err := p.process(ctx, child, scope)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p postLoad) resolve(ctx context.Context, n node.Node, scope variable.Scope) error {
	if n.Encrypted() {
		return nil
	}
	raw := n.Value()
	if !variable.HasVariable(raw) {
		return nil
	}

	resolved := p.resolver.Resolve(raw, scope)
	if resolved != raw {
		err := n.SetValue(resolved)
		if err != nil {
			return err
		}
	}

	unresolved := variable.Variables(resolved)
	if len(unresolved) > 0 {
		p.log.DebugContext(ctx, "variables left unresolved",
			slog.String("path", n.Path()),
			slog.Any("variables", unresolved),
		)
	}
	return nil
}
