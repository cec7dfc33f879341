package bridge

import (
	"context"
	"fmt"
	"iter"

	parsebridge "github.com/wippyai/parse-bridge"
	"github.com/wippyai/parse-bridge/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Object wraps one foreign object. Member calls go to the instance first and
// fall back to a static member of the object's type when the instance does
// not declare the member.
type Object struct {
	b   *Bridge
	ref parsebridge.Ref
}

// Ref returns the wrapped handle.
func (o *Object) Ref() parsebridge.Ref { return o.ref }

// TypeName returns the fully-qualified foreign type name.
func (o *Object) TypeName() string { return o.ref.Type }

// Bridge returns the bridge the object belongs to.
func (o *Object) Bridge() *Bridge { return o.b }

// Same reports whether two wrappers hold the same foreign object.
func (o *Object) Same(other *Object) bool {
	return other != nil && o.ref == other.ref
}

// Has reports whether the object's type declares member.
func (o *Object) Has(member string) bool {
	return o.b.HasMember(o.ref.Type, member)
}

// Invoke calls member with args and converts the result.
func (o *Object) Invoke(ctx context.Context, member string, args ...any) (any, error) {
	ctx, span := o.b.tracer.Start(ctx, "bridge.invoke",
		trace.WithAttributes(typeAttr(o.ref.Type), memberAttr(member)))
	defer span.End()

	args = unwrapAll(args)
	v, err := o.b.rt.Invoke(ctx, o.ref, member, args...)
	if err != nil {
		if errors.KindOf(err) != errors.KindUnknownMember {
			recordError(span, err)
			return nil, err
		}

		span.SetAttributes(attribute.Bool("bridge.static_fallback", true))
		o.b.log.Debug("instance member unknown, trying static",
			zap.String("type", o.ref.Type),
			zap.String("member", member))

		v, err = o.b.rt.InvokeStatic(ctx, o.ref.Type, member, args...)
		if err != nil {
			recordError(span, err)
			if errors.KindOf(err) == errors.KindUnknownMember {
				e := errors.UnknownMember(o.ref.Type, member)
				e.Cause = err
				return nil, e
			}
			return nil, err
		}
	}

	out, err := o.b.Convert(ctx, v)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	return out, nil
}

// Iterate walks the object's iterator, converting each element as it is
// reached. Types without an iterator member yield nothing.
func (o *Object) Iterate(ctx context.Context) iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		if !o.Has("iterator") {
			return
		}

		itv, err := o.Invoke(ctx, "iterator")
		if err != nil {
			yield(nil, err)
			return
		}
		it, ok := itv.(*Object)
		if !ok {
			yield(nil, errors.New(errors.PhaseConvert, errors.KindTypeMismatch).
				Type(o.ref.Type).
				Member("iterator").
				Detail("iterator returned %T", itv).
				Build())
			return
		}

		for {
			more, err := it.Invoke(ctx, "hasNext")
			if err != nil {
				yield(nil, err)
				return
			}
			if b, _ := more.(bool); !b {
				return
			}
			v, err := it.Invoke(ctx, "next")
			if !yield(v, err) || err != nil {
				return
			}
		}
	}
}

// Inspect returns the debug form, <type>.
func (o *Object) Inspect() string {
	return "<" + o.ref.Type + ">"
}

// String returns the foreign toString of the object, or the debug form when
// that fails.
func (o *Object) String() string {
	v, err := o.Invoke(context.Background(), "toString")
	if err != nil {
		return o.Inspect()
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Call invokes member and asserts the converted result has type T.
func Call[T any](ctx context.Context, o *Object, member string, args ...any) (T, error) {
	var zero T
	v, err := o.Invoke(ctx, member, args...)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, errors.New(errors.PhaseConvert, errors.KindTypeMismatch).
			Type(o.ref.Type).
			Member(member).
			Detail("want %T, got %T", zero, v).
			Build()
	}
	return t, nil
}

// AsInt coerces a numeric foreign result to int.
func AsInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

func typeAttr(t string) attribute.KeyValue {
	return attribute.String("foreign.type", t)
}

func memberAttr(m string) attribute.KeyValue {
	return attribute.String("foreign.member", m)
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
