// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package bind

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/z5labs/zconfig/config"
	"github.com/z5labs/zconfig/internal/try"
	"github.com/z5labs/zconfig/node"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/z5labs/zconfig/bind")

// Anchored is implemented by types which always bind at the same path.
type Anchored interface {
	// ConfigPath returns an absolute dot path which includes the root name,
	// e.g. "zconfig.client.rmq.settings".
	ConfigPath() string
}

// Option configures a single [Bind] call.
type Option func(*binder)

// At binds at the given absolute path, overriding [Anchored].
func At(path string) Option {
	return func(b *binder) {
		b.anchor = path
	}
}

// WithTransformer registers t under name for use by the transform tag option.
func WithTransformer(name string, t Transformer) Option {
	return func(b *binder) {
		b.transformers[name] = t
	}
}

// Logger sets the logger used for debug output.
func Logger(l *slog.Logger) Option {
	return func(b *binder) {
		b.log = l
	}
}

var (
	nodeType = reflect.TypeOf(node.Node{})
	anyType  = reflect.TypeOf((*any)(nil)).Elem()
)

type binder struct {
	cfg          *config.Configuration
	anchor       string
	transformers map[string]Transformer
	log          *slog.Logger
}

// Bind populates the value pointed to by v from cfg.
//
// The anchor must name a path node, or a params node, otherwise Bind
// fails with a [*config.ConfigurationError]. Fields without a matching
// node keep their current value. A required field without a value fails
// with a [*config.ConfigurationError] whose cause is a [*MissingFieldError].
// Fields of type any receive the decrypted subtree as nested
// map[string]any, []any and string values. Every error is returned
// wrapped in a [*BindingError].
func Bind(ctx context.Context, cfg *config.Configuration, v any, opts ...Option) (err error) {
	typ := reflect.TypeOf(v)
	ctx, span := tracer.Start(ctx, "bind.Bind", trace.WithAttributes(
		attribute.String("zconfig.type", fmt.Sprintf("%T", v)),
	))
	defer span.End()
	defer func() {
		if err == nil {
			return
		}
		err = &BindingError{Type: typ, Cause: err}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}()
	defer try.Recover(&err)

	if cfg == nil {
		return ErrNilConfiguration
	}
	span.SetAttributes(attribute.String("zconfig.name", cfg.Name))

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrNotPointer
	}
	err = cfg.CheckLoaded()
	if err != nil {
		return err
	}

	b := &binder{
		cfg:          cfg,
		anchor:       cfg.Root().Name(),
		transformers: builtinTransformers(),
		log:          slog.New(slog.DiscardHandler),
	}
	if a, ok := v.(Anchored); ok {
		b.anchor = a.ConfigPath()
	}
	for _, opt := range opts {
		opt(b)
	}

	n, err := b.anchorNode()
	if err != nil {
		return err
	}

	b.log.DebugContext(ctx, "binding configuration",
		slog.String("anchor", b.anchor),
		slog.String("type", typ.String()),
	)
	return b.assign(n, rv.Elem())
}

// Into binds a new T.
func Into[T any](ctx context.Context, cfg *config.Configuration, opts ...Option) (T, error) {
	var v T
	err := Bind(ctx, cfg, &v, opts...)
	return v, err
}

func isNotFound(err error) bool {
	var nf *node.PathNotFoundError
	return errors.As(err, &nf)
}

// anchorNode locates the path node values are bound from. Params nodes
// are accepted as well so a flat key value group can back a struct.
func (b *binder) anchorNode() (node.Node, error) {
	n, err := b.cfg.Find(b.anchor)
	if err != nil {
		return node.Node{}, &config.ConfigurationError{
			Name:  b.cfg.Name,
			Path:  b.anchor,
			Cause: err,
		}
	}
	if n.Kind() != node.KindPath && n.Kind() != node.KindKeyValue {
		kerr := &node.KindError{
			Path:     n.Path(),
			Expected: []node.Kind{node.KindPath, node.KindKeyValue},
			Actual:   n.Kind(),
		}
		return node.Node{}, &config.ConfigurationError{
			Name:  b.cfg.Name,
			Path:  b.anchor,
			Cause: kerr,
		}
	}
	return n, nil
}

func (b *binder) missing(parent string, f field) error {
	path := parent
	if f.name != "" {
		path = parent + node.Delimiter + f.name
	}
	return &config.ConfigurationError{
		Name:  b.cfg.Name,
		Path:  path,
		Cause: &MissingFieldError{Field: f.name, GoField: f.goName},
	}
}

func (b *binder) bindStruct(n node.Node, rv reflect.Value) error {
	if n.Kind() != node.KindPath && n.Kind() != node.KindKeyValue {
		return &node.KindError{
			Path:     n.Path(),
			Expected: []node.Kind{node.KindPath, node.KindKeyValue},
			Actual:   n.Kind(),
		}
	}

	m, err := mappingOf(rv.Type())
	if err != nil {
		return err
	}
	for _, f := range m.fields {
		fv := rv.FieldByIndex(f.index)

		child := n
		if f.name != "" {
			child, err = n.Find(f.name)
			if err != nil && !isNotFound(err) {
				return err
			}
			if err != nil {
				if f.required {
					return b.missing(n.Path(), f)
				}
				continue
			}
		}

		if isEmpty(child) {
			if f.required {
				return b.missing(n.Path(), f)
			}
			continue
		}

		if f.transform != "" {
			err = b.transform(child, f.transform, fv)
		} else {
			err = b.assign(child, fv)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func isEmpty(n node.Node) bool {
	switch n.Kind() {
	case node.KindValue:
		return n.Value() == ""
	case node.KindPath:
		_, hasProps := n.Properties()
		return n.Len() == 0 && !hasProps
	default:
		return n.Len() == 0
	}
}

func (b *binder) assign(n node.Node, rv reflect.Value) error {
	t := rv.Type()
	switch {
	case t == nodeType:
		rv.Set(reflect.ValueOf(n))
		return nil
	case t == anyType:
		v, err := b.plain(n)
		if err != nil {
			return err
		}
		rv.Set(reflect.ValueOf(&v).Elem())
		return nil
	case !supported(t):
		return &UnsupportedTypeError{Type: t}
	}

	if n.Kind() == node.KindValue {
		raw, err := b.cfg.Decrypt(n)
		if err != nil {
			return err
		}
		if t.Kind() == reflect.Pointer {
			return b.assignPointer(n, rv)
		}
		return decodeScalar(raw, rv)
	}

	switch t.Kind() {
	case reflect.Pointer:
		return b.assignPointer(n, rv)
	case reflect.Struct:
		return b.bindStruct(n, rv)
	case reflect.Slice:
		return b.assignSlice(n, rv)
	case reflect.Array:
		return b.assignArray(n, rv)
	case reflect.Map:
		if isSet(t) && n.Kind().IsList() {
			return b.assignSet(n, rv)
		}
		return b.assignMap(n, rv)
	default:
		return &node.KindError{
			Path:     n.Path(),
			Expected: []node.Kind{node.KindValue},
			Actual:   n.Kind(),
		}
	}
}

func supported(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Chan, reflect.Func, reflect.UnsafePointer, reflect.Complex64, reflect.Complex128, reflect.Interface, reflect.Invalid:
		return false
	default:
		return true
	}
}

// plain converts the subtree at n into generic values with encrypted
// values decrypted.
func (b *binder) plain(n node.Node) (any, error) {
	switch n.Kind() {
	case node.KindValue:
		return b.cfg.Decrypt(n)
	case node.KindListValue, node.KindListElement:
		items := make([]any, 0, n.Len())
		for _, child := range n.Children() {
			v, err := b.plain(child)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	default:
		m := make(map[string]any, n.Len())
		for _, child := range n.Children() {
			v, err := b.plain(child)
			if err != nil {
				return nil, err
			}
			m[child.Name()] = v
		}
		return m, nil
	}
}

func (b *binder) assignPointer(n node.Node, rv reflect.Value) error {
	if rv.IsNil() {
		rv.Set(reflect.New(rv.Type().Elem()))
	}
	return b.assign(n, rv.Elem())
}

func (b *binder) assignSlice(n node.Node, rv reflect.Value) error {
	if !n.Kind().IsList() {
		return &node.KindError{
			Path:     n.Path(),
			Expected: []node.Kind{node.KindListValue, node.KindListElement},
			Actual:   n.Kind(),
		}
	}

	children := n.Children()
	s := reflect.MakeSlice(rv.Type(), len(children), len(children))
	for i, child := range children {
		err := b.assign(child, s.Index(i))
		if err != nil {
			return err
		}
	}
	rv.Set(s)
	return nil
}

func (b *binder) assignArray(n node.Node, rv reflect.Value) error {
	if !n.Kind().IsList() {
		return &node.KindError{
			Path:     n.Path(),
			Expected: []node.Kind{node.KindListValue, node.KindListElement},
			Actual:   n.Kind(),
		}
	}

	children := n.Children()
	for i := 0; i < rv.Len() && i < len(children); i++ {
		err := b.assign(children[i], rv.Index(i))
		if err != nil {
			return err
		}
	}
	return nil
}

func isSet(t reflect.Type) bool {
	return t.Elem().Kind() == reflect.Struct && t.Elem().NumField() == 0
}

func (b *binder) assignSet(n node.Node, rv reflect.Value) error {
	t := rv.Type()
	set := reflect.MakeMapWithSize(t, n.Len())
	member := reflect.Zero(t.Elem())
	for _, child := range n.Children() {
		if child.Kind() != node.KindValue {
			return &node.KindError{
				Path:     child.Path(),
				Expected: []node.Kind{node.KindValue},
				Actual:   child.Kind(),
			}
		}
		raw, err := b.cfg.Decrypt(child)
		if err != nil {
			return err
		}
		k := reflect.New(t.Key()).Elem()
		err = decodeScalar(raw, k)
		if err != nil {
			return err
		}
		set.SetMapIndex(k, member)
	}
	rv.Set(set)
	return nil
}

func (b *binder) assignMap(n node.Node, rv reflect.Value) error {
	if !n.Kind().IsMap() {
		return &node.KindError{
			Path:     n.Path(),
			Expected: []node.Kind{node.KindPath, node.KindKeyValue, node.KindProperties},
			Actual:   n.Kind(),
		}
	}

	t := rv.Type()
	m := reflect.MakeMapWithSize(t, n.Len())
	for _, child := range n.Children() {
		k := reflect.New(t.Key()).Elem()
		err := decodeScalar(child.Name(), k)
		if err != nil {
			return err
		}
		v := reflect.New(t.Elem()).Elem()
		err = b.assign(child, v)
		if err != nil {
			return err
		}
		m.SetMapIndex(k, v)
	}
	rv.Set(m)
	return nil
}

func (b *binder) transform(n node.Node, name string, rv reflect.Value) error {
	t, ok := b.transformers[name]
	if !ok {
		return &UnknownTransformerError{Name: name}
	}
	if n.Kind() != node.KindValue {
		return &node.KindError{
			Path:     n.Path(),
			Expected: []node.Kind{node.KindValue},
			Actual:   n.Kind(),
		}
	}

	raw, err := b.cfg.Decrypt(n)
	if err != nil {
		return err
	}
	out, err := t.Transform(raw, b.cfg.ScopeAt(n))
	if err != nil {
		return TypeCoercionError{Value: raw, To: rv.Type(), Cause: err}
	}

	ov := reflect.ValueOf(out)
	switch {
	case !ov.IsValid():
		return nil
	case ov.Type().AssignableTo(rv.Type()):
		rv.Set(ov)
		return nil
	case ov.Type().ConvertibleTo(rv.Type()):
		rv.Set(ov.Convert(rv.Type()))
		return nil
	default:
		return decodeScalar(out, rv)
	}
}
