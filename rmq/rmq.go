// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package rmq provides a RabbitMQ connection factory configured from a
// [config.Configuration].
//
// The factory follows the component lifecycle:
//
//	f := rmq.NewFactory()
//	err := f.Configure(ctx, cfg) // Unknown -> Initialized
//	conn, err := f.Open(ctx)     // Initialized -> Available
//	err = f.Close(ctx)           // Available -> Stopped
package rmq

import (
	"context"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/z5labs/zconfig/bind"
	"github.com/z5labs/zconfig/config"
	"github.com/z5labs/zconfig/lifecycle"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/z5labs/zconfig/rmq")

// Settings are the connection settings read from the configuration.
type Settings struct {
	Host           string        `config:"host,required"`
	Port           int           `config:"port"`
	VHost          string        `config:"vhost"`
	Username       string        `config:"username"`
	Password       string        `config:"password"`
	Heartbeat      time.Duration `config:"heartbeat"`
	ConnectionName string        `config:"connectionName"`
	TLS            bool          `config:"tls"`
}

// ConfigPath implements the [bind.Anchored] interface.
func (Settings) ConfigPath() string {
	return "zconfig.client.rmq.settings"
}

// URL returns the AMQP URI of the broker. Credentials are included.
func (s Settings) URL() string {
	scheme := "amqp"
	port := 5672
	if s.TLS {
		scheme = "amqps"
		port = 5671
	}
	if s.Port != 0 {
		port = s.Port
	}

	u := url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(s.Host, strconv.Itoa(port)),
	}
	if s.Username != "" || s.Password != "" {
		u.User = url.UserPassword(s.Username, s.Password)
	}
	return u.String()
}

// Config returns the amqp091 dial config.
func (s Settings) Config() amqp.Config {
	cfg := amqp.Config{
		Vhost:      s.VHost,
		Heartbeat:  s.Heartbeat,
		Locale:     "en_US",
		Properties: amqp.Table{},
	}
	if s.ConnectionName != "" {
		cfg.Properties.SetClientConnectionName(s.ConnectionName)
	}
	return cfg
}

// Connection is the subset of [*amqp.Connection] used by the factory.
type Connection interface {
	Channel() (*amqp.Channel, error)
	IsClosed() bool
	Close() error
}

// Dialer opens a connection to a broker.
type Dialer func(url string, cfg amqp.Config) (Connection, error)

func dialAMQP(url string, cfg amqp.Config) (Connection, error) {
	conn, err := amqp.DialConfig(url, cfg)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

type options struct {
	dial        Dialer
	log         *slog.Logger
	bindOpts    []bind.Option
	hooks       []lifecycle.Hook
	maxRequests uint32
	timeout     time.Duration
	tripAfter   uint32
}

// Option configures a [Factory].
type Option func(*options)

// WithDialer replaces the amqp091 dialer.
func WithDialer(d Dialer) Option {
	return func(o *options) {
		o.dial = d
	}
}

// Logger sets the logger of the factory.
func Logger(l *slog.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// BindOptions are passed to [bind.Bind] when reading [Settings].
func BindOptions(opts ...bind.Option) Option {
	return func(o *options) {
		o.bindOpts = append(o.bindOpts, opts...)
	}
}

// OnClose registers a hook which runs before the connection is closed.
func OnClose(h lifecycle.Hook) Option {
	return func(o *options) {
		o.hooks = append(o.hooks, h)
	}
}

// TripAfter opens the dial circuit after n consecutive failures.
func TripAfter(n uint32) Option {
	return func(o *options) {
		o.tripAfter = n
	}
}

// OpenStateTimeout is how long the dial circuit stays open.
func OpenStateTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// Factory creates a single broker connection from configuration.
// It is safe for concurrent use.
type Factory struct {
	mu       sync.Mutex
	state    lifecycle.Tracker
	settings Settings
	conn     Connection

	dial     Dialer
	log      *slog.Logger
	bindOpts []bind.Option
	hooks    []lifecycle.Hook
	cb       *gobreaker.CircuitBreaker
}

// NewFactory returns a factory in the [lifecycle.Unknown] state.
func NewFactory(opts ...Option) *Factory {
	o := &options{
		dial:        dialAMQP,
		log:         slog.New(slog.DiscardHandler),
		maxRequests: 1,
		timeout:     30 * time.Second,
		tripAfter:   5,
	}
	for _, opt := range opts {
		opt(o)
	}

	f := &Factory{
		dial:     o.dial,
		log:      o.log,
		bindOpts: o.bindOpts,
		hooks:    o.hooks,
	}
	f.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "rmq-dial",
		MaxRequests: o.maxRequests,
		Timeout:     o.timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= o.tripAfter
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			switch to {
			case gobreaker.StateOpen:
				f.log.Error("dial circuit has been opened", slog.String("circuit", name))
			case gobreaker.StateHalfOpen:
				f.log.Warn(
					"dial circuit is now half open",
					slog.String("circuit", name),
					slog.Uint64("max_requests_allowed_through", uint64(o.maxRequests)),
				)
			case gobreaker.StateClosed:
				f.log.Info("dial circuit has been closed", slog.String("circuit", name))
			}
		},
	})
	return f
}

// State returns the lifecycle state of the factory.
func (f *Factory) State() lifecycle.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.State()
}

// Settings returns the settings read by [Factory.Configure].
func (f *Factory) Settings() Settings {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settings
}

// Configure binds [Settings] from cfg.
func (f *Factory) Configure(ctx context.Context, cfg *config.Configuration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := f.state.Check(lifecycle.Unknown, lifecycle.Stopped, lifecycle.Error)
	if err != nil {
		return err
	}

	settings, err := bind.Into[Settings](ctx, cfg, f.bindOpts...)
	if err != nil {
		f.state.Fail(err)
		return err
	}

	f.settings = settings
	f.state.Set(lifecycle.Initialized)
	f.log.DebugContext(ctx, "rabbitmq factory configured",
		slog.String("host", settings.Host),
		slog.String("vhost", settings.VHost),
	)
	return nil
}

// Open dials the broker through a circuit breaker. Once the circuit is
// open, Open fails fast with [gobreaker.ErrOpenState].
func (f *Factory) Open(ctx context.Context) (conn Connection, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ctx, span := tracer.Start(ctx, "rmq.Open", trace.WithAttributes(
		attribute.String("rmq.host", f.settings.Host),
	))
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	err = f.state.Check(lifecycle.Initialized)
	if err != nil {
		return nil, err
	}

	v, err := f.cb.Execute(func() (interface{}, error) {
		return f.dial(f.settings.URL(), f.settings.Config())
	})
	if err != nil {
		f.log.ErrorContext(ctx, "failed to dial rabbitmq", slog.Any("error", err))
		return nil, err
	}

	f.conn = v.(Connection)
	f.state.Set(lifecycle.Available)
	return f.conn, nil
}

// Close runs the close hooks, closes the connection and disposes the factory.
// The factory may be configured again afterwards.
func (f *Factory) Close(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := f.state.Check(lifecycle.Available)
	if err != nil {
		return err
	}

	conn := f.conn
	hooks := append([]lifecycle.Hook{}, f.hooks...)
	hooks = append(hooks, lifecycle.HookFunc(func(context.Context) error {
		if conn.IsClosed() {
			return nil
		}
		return conn.Close()
	}))

	err = lifecycle.MultiHook(hooks...).Run(ctx)
	f.conn = nil
	f.state.Dispose()
	return err
}
