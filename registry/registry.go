// Package registry owns the caches that accessors, modifiers and constructors are
// memoized in, together with the introspector that resolves them and the logger that
// reports cache misses.
//
// A Registry is an explicit object rather than hidden global state. It travels through
// context.Context:
//
//	ctx, teardown := registry.WithRegistry(ctx, registry.New(registry.WithTable(table)))
//	defer teardown()
//
//	author, err := members.Accessor[*Book, string](ctx, "Author")
//
// Code that never installs a registry shares the process-wide Default.
package registry

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/on-the-ground/compiled_reflect/internal/cache"
	"github.com/on-the-ground/compiled_reflect/introspect"
	"github.com/on-the-ground/compiled_reflect/shared/logging"
)

type Registry struct {
	logger       *zap.Logger
	introspector introspect.Introspector
	accessors    *cache.Sharded[any]
	modifiers    *cache.Sharded[any]
	constructors *cache.Trie[any]
	ID           string
	config       Config
}

type Option func(*Registry)

func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func WithIntrospector(i introspect.Introspector) Option {
	return func(r *Registry) {
		if i != nil {
			r.introspector = i
		}
	}
}

// WithTable resolves constructors from table through the default reflection introspector.
func WithTable(table *introspect.Table) Option {
	return WithIntrospector(introspect.NewReflection(table))
}

func WithConfig(config Config) Option {
	return func(r *Registry) {
		r.config = NewConfig(config.NumShards)
		r.config.LogLevel = config.LogLevel
	}
}

func New(opts ...Option) *Registry {
	r := &Registry{
		ID:           uuid.New().String(),
		logger:       zap.NewNop(),
		introspector: introspect.NewReflection(nil),
		config:       NewConfig(1),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(zap.String("registry", r.ID))
	r.accessors = cache.NewSharded[any](r.config.NumShards)
	r.modifiers = cache.NewSharded[any](r.config.NumShards)
	r.constructors = cache.NewTrie[any]()
	return r
}

// NewFromConfig builds a registry whose console logger follows config.LogLevel.
func NewFromConfig(config Config, opts ...Option) (*Registry, error) {
	lvl, err := logging.ParseLevel(config.LogLevel)
	if err != nil {
		return nil, err
	}
	base := []Option{WithConfig(config), WithLogger(logging.NewConsole(lvl))}
	return New(append(base, opts...)...), nil
}

func (r *Registry) Logger() *zap.Logger {
	return r.logger
}

func (r *Registry) Introspector() introspect.Introspector {
	return r.introspector
}

func (r *Registry) Config() Config {
	return r.config
}

// Accessors caches read callables under (declaring type, member name, value type).
func (r *Registry) Accessors() *cache.Sharded[any] {
	return r.accessors
}

// Modifiers caches write callables under (declaring type, member name, value type).
func (r *Registry) Modifiers() *cache.Sharded[any] {
	return r.modifiers
}

// Constructors caches construction callables under (arity, parameter types..., result type).
func (r *Registry) Constructors() *cache.Trie[any] {
	return r.constructors
}

type Stats struct {
	Accessors    int
	Modifiers    int
	Constructors int
}

func (r *Registry) Stats() Stats {
	return Stats{
		Accessors:    r.accessors.Len(),
		Modifiers:    r.modifiers.Len(),
		Constructors: r.constructors.Len(),
	}
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	return New()
})

// Default is the process-wide registry used when a context carries none.
func Default() *Registry {
	return defaultRegistry()
}

type ctxKey struct{}

// WithRegistry scopes r to the returned context.
// The teardown function flushes the registry logger and returns the parent context.
func WithRegistry(ctx context.Context, r *Registry) (context.Context, func() context.Context) {
	return context.WithValue(ctx, ctxKey{}, r), func() context.Context {
		if err := r.logger.Sync(); err != nil {
			r.logger.Warn("failed to sync logger", zap.Error(err))
		}
		return ctx
	}
}

// FromContext returns the innermost registry in ctx, or Default.
func FromContext(ctx context.Context) *Registry {
	if ctx != nil {
		if r, ok := ctx.Value(ctxKey{}).(*Registry); ok && r != nil {
			return r
		}
	}
	return Default()
}
