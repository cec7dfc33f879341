package bridge

import (
	"context"
	"reflect"

	gocache "github.com/patrickmn/go-cache"
	parsebridge "github.com/wippyai/parse-bridge"
	"github.com/wippyai/parse-bridge/errors"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

// Bridge converts values returned by a foreign runtime into native Go values
// and wraps foreign objects for member dispatch.
type Bridge struct {
	rt       parsebridge.Runtime
	registry *Registry
	members  *gocache.Cache
	tracer   trace.Tracer
	log      *zap.Logger
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithRegistry sets the conversion registry.
func WithRegistry(r *Registry) Option {
	return func(b *Bridge) { b.registry = r }
}

// WithTracer sets the tracer used for invocation spans.
func WithTracer(t trace.Tracer) Option {
	return func(b *Bridge) { b.tracer = t }
}

// WithLogger sets the bridge logger.
func WithLogger(l *zap.Logger) Option {
	return func(b *Bridge) { b.log = l }
}

// New creates a bridge over rt.
func New(rt parsebridge.Runtime, opts ...Option) *Bridge {
	b := &Bridge{
		rt:      rt,
		members: gocache.New(gocache.NoExpiration, 0),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.registry == nil {
		b.registry = NewRegistry()
	}
	if b.tracer == nil {
		b.tracer = noop.NewTracerProvider().Tracer("noop")
	}
	if b.log == nil {
		b.log = Logger()
	}
	return b
}

// Runtime returns the underlying foreign runtime.
func (b *Bridge) Runtime() parsebridge.Runtime { return b.rt }

// Registry returns the conversion registry.
func (b *Bridge) Registry() *Registry { return b.registry }

// Wrap wraps a foreign object without conversion.
func (b *Bridge) Wrap(ref parsebridge.Ref) *Object {
	return &Object{b: b, ref: ref}
}

// New instantiates a foreign type and wraps the result.
func (b *Bridge) New(ctx context.Context, typeName string, args ...any) (*Object, error) {
	ctx, span := b.tracer.Start(ctx, "bridge.new",
		trace.WithAttributes(typeAttr(typeName)))
	defer span.End()

	ref, err := b.rt.New(ctx, typeName, unwrapAll(args)...)
	if err != nil {
		recordError(span, err)
		if errors.KindOf(err) != errors.KindConstruction {
			err = errors.Construction("class "+typeName, err)
		}
		return nil, err
	}
	return b.Wrap(ref), nil
}

// InvokeStatic calls a static member of a foreign type and converts the result.
func (b *Bridge) InvokeStatic(ctx context.Context, typeName, member string, args ...any) (any, error) {
	ctx, span := b.tracer.Start(ctx, "bridge.invoke_static",
		trace.WithAttributes(typeAttr(typeName), memberAttr(member)))
	defer span.End()

	v, err := b.rt.InvokeStatic(ctx, typeName, member, unwrapAll(args)...)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	return b.Convert(ctx, v)
}

// Convert turns a raw runtime value into its native form. Sequences convert
// element-wise, foreign objects go through their registered converter or are
// wrapped generically, and everything else passes through.
func (b *Bridge) Convert(ctx context.Context, v any) (any, error) {
	switch x := v.(type) {
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			c, err := b.Convert(ctx, e)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	case parsebridge.Ref:
		if x.IsZero() {
			return nil, nil
		}
		if conv, ok := b.registry.Lookup(x.Type); ok {
			return conv(ctx, b, x)
		}
		return b.Wrap(x), nil
	default:
		return v, nil
	}
}

// HasMember reports whether a foreign type declares member. Answers are
// cached per type and member for the life of the bridge.
func (b *Bridge) HasMember(typeName, member string) bool {
	key := typeName + "#" + member
	if v, ok := b.members.Get(key); ok {
		return v.(bool)
	}
	has := b.rt.HasMember(typeName, member)
	b.members.Set(key, has, gocache.NoExpiration)
	return has
}

// Referer is implemented by native values that stand for a foreign object.
type Referer interface {
	Ref() parsebridge.Ref
}

// Unwrap converts native wrappers back to runtime values for use as arguments.
func Unwrap(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case Referer:
		if rv := reflect.ValueOf(x); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return nil
		}
		return x.Ref()
	case []any:
		return unwrapAll(x)
	case *Set:
		return unwrapAll(x.Items())
	default:
		return v
	}
}

func unwrapAll(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = Unwrap(a)
	}
	return out
}
