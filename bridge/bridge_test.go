package bridge

import (
	"context"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	parsebridge "github.com/wippyai/parse-bridge"
	"github.com/wippyai/parse-bridge/errors"
	"github.com/wippyai/parse-bridge/host"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"pgregory.net/rapid"
)

type label struct {
	value string
}

func (l *label) Value() string { return l.value }
func (l *label) String() string { return "label:" + l.value }

type bag struct {
	labels []*label
	tags   []string
}

func (b *bag) Items() *host.ArrayList {
	list := host.NewArrayList()
	for _, l := range b.labels {
		list.Add(l)
	}
	return list
}

func (b *bag) Tags() *host.HashSet {
	set := host.NewHashSet()
	for _, t := range b.tags {
		set.Add(t)
	}
	return set
}

func (b *bag) Nested() *host.ArrayList {
	outer := host.NewArrayList()
	outer.Add(b.Items())
	outer.Add(host.NewArrayList("x", 1))
	return outer
}

func (b *bag) Raw() []*label { return b.labels }

func (b *bag) Iterator() *host.Iterator {
	items := make([]any, len(b.labels))
	for i, l := range b.labels {
		items[i] = l
	}
	return host.IteratorOf(items...)
}

func newBag(words ...string) *bag {
	b := &bag{}
	for _, w := range words {
		b.labels = append(b.labels, &label{value: w})
		b.tags = append(b.tags, w)
	}
	return b
}

func newTestBridge(t *testing.T, opts ...Option) (*Bridge, *host.Runtime) {
	t.Helper()
	rt := host.New()
	require.NoError(t, rt.RegisterClass("demo.Label", func(v string) *label { return &label{value: v} }))
	require.NoError(t, rt.RegisterStatic("demo.Label", "KEY", "BEGIN_POS"))
	require.NoError(t, rt.RegisterStatic("demo.Label", "join", func(a, b string) string { return a + "+" + b }))
	require.NoError(t, rt.RegisterClass("demo.Bag", newBag))
	return New(rt, opts...), rt
}

func TestObject_InstanceInvoke(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBridge(t)

	obj, err := b.New(ctx, "demo.Label", "word")
	require.NoError(t, err)
	require.Equal(t, "demo.Label", obj.TypeName())

	v, err := obj.Invoke(ctx, "value")
	require.NoError(t, err)
	require.Equal(t, "word", v)
}

func TestObject_StaticFallback(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBridge(t)
	obj, err := b.New(ctx, "demo.Label", "word")
	require.NoError(t, err)

	v, err := obj.Invoke(ctx, "KEY")
	require.NoError(t, err)
	require.Equal(t, "BEGIN_POS", v)

	v, err = obj.Invoke(ctx, "join", "a", "b")
	require.NoError(t, err)
	require.Equal(t, "a+b", v)

	direct, err := b.InvokeStatic(ctx, "demo.Label", "KEY")
	require.NoError(t, err)
	require.Equal(t, "BEGIN_POS", direct)
}

func TestObject_UnknownOnBothPaths(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBridge(t)
	obj, err := b.New(ctx, "demo.Label", "word")
	require.NoError(t, err)

	_, err = obj.Invoke(ctx, "frobnicate")
	require.Error(t, err)
	require.Equal(t, errors.KindUnknownMember, errors.KindOf(err))

	var e *errors.Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, "demo.Label", e.Type)
	require.Equal(t, "frobnicate", e.Member)
	require.NotNil(t, e.Cause)
}

func TestObject_OtherErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBridge(t)
	obj, err := b.New(ctx, "demo.Label", "word")
	require.NoError(t, err)

	// wrong arity is not an unknown member, so no static retry
	_, err = obj.Invoke(ctx, "value", 1)
	require.Equal(t, errors.KindInvalidInput, errors.KindOf(err))
}

func TestConvert_Collections(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBridge(t)
	obj, err := b.New(ctx, "demo.Bag", "a", "b", "a")
	require.NoError(t, err)

	items, err := obj.Invoke(ctx, "items")
	require.NoError(t, err)
	list, ok := items.([]any)
	require.True(t, ok, "ArrayList should convert to []any, got %T", items)
	require.Len(t, list, 3)
	for _, it := range list {
		require.IsType(t, &Object{}, it)
	}
	require.True(t, list[0].(*Object).Same(list[0].(*Object)))
	require.False(t, list[0].(*Object).Same(list[2].(*Object)))

	tags, err := obj.Invoke(ctx, "tags")
	require.NoError(t, err)
	set, ok := tags.(*Set)
	require.True(t, ok, "HashSet should convert to *Set, got %T", tags)
	require.True(t, set.Equal(NewSet("b", "a")))

	nested, err := obj.Invoke(ctx, "nested")
	require.NoError(t, err)
	outer := nested.([]any)
	require.Len(t, outer, 2)
	require.Len(t, outer[0].([]any), 3)
	require.Equal(t, []any{"x", 1}, outer[1])

	raw, err := obj.Invoke(ctx, "raw")
	require.NoError(t, err)
	require.Len(t, raw.([]any), 3)
}

func TestConvert_Passthrough(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBridge(t)

	for _, v := range []any{nil, 1, "s", 2.5, true} {
		got, err := b.Convert(ctx, v)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}

	got, err := b.Convert(ctx, parsebridge.Ref{})
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestConvert_RegisteredConverter(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry()
	reg.Register("demo.Label", func(ctx context.Context, b *Bridge, ref parsebridge.Ref) (any, error) {
		return Call[string](ctx, b.Wrap(ref), "value")
	})
	require.NoError(t, reg.Alias("demo.Other", "demo.Label"))
	require.Error(t, reg.Alias("demo.X", "demo.Missing"))

	b, _ := newTestBridge(t, WithRegistry(reg))
	obj, err := b.New(ctx, "demo.Bag", "p", "q")
	require.NoError(t, err)

	items, err := obj.Invoke(ctx, "items")
	require.NoError(t, err)
	require.Equal(t, []any{"p", "q"}, items)
}

func TestObject_Iterate(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBridge(t)

	obj, err := b.New(ctx, "demo.Bag", "x", "y")
	require.NoError(t, err)

	var got []string
	for v, err := range obj.Iterate(ctx) {
		require.NoError(t, err)
		got = append(got, v.(*Object).String())
	}
	require.Equal(t, []string{"label:x", "label:y"}, got)

	// early break stops the walk
	count := 0
	for range obj.Iterate(ctx) {
		count++
		break
	}
	require.Equal(t, 1, count)

	lbl, err := b.New(ctx, "demo.Label", "z")
	require.NoError(t, err)
	for range lbl.Iterate(ctx) {
		t.Fatal("type without iterator must yield nothing")
	}
}

func TestObject_Strings(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBridge(t)

	lbl, err := b.New(ctx, "demo.Label", "w")
	require.NoError(t, err)
	require.Equal(t, "<demo.Label>", lbl.Inspect())
	require.Equal(t, "label:w", lbl.String())

	// no toString: display falls back to the debug form
	bg, err := b.New(ctx, "demo.Bag")
	require.NoError(t, err)
	require.Equal(t, "<demo.Bag>", bg.String())
}

func TestBridge_NewMissingClass(t *testing.T) {
	b, _ := newTestBridge(t)
	_, err := b.New(context.Background(), "demo.Missing")
	require.Equal(t, errors.KindConstruction, errors.KindOf(err))
}

func TestObject_ArgumentsUnwrap(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBridge(t)

	lbl, err := b.New(ctx, "demo.Label", "in")
	require.NoError(t, err)

	list, err := b.New(ctx, parsebridge.TypeArrayList, lbl, []any{lbl})
	require.NoError(t, err)

	got, err := list.Invoke(ctx, "get", 0)
	require.NoError(t, err)
	require.True(t, lbl.Same(got.(*Object)))
}

type countingRuntime struct {
	parsebridge.Runtime
	probes int
}

func (c *countingRuntime) HasMember(typeName, member string) bool {
	c.probes++
	return c.Runtime.HasMember(typeName, member)
}

func TestBridge_HasMemberCached(t *testing.T) {
	rt := host.New()
	counting := &countingRuntime{Runtime: rt}
	b := New(counting)

	for i := 0; i < 5; i++ {
		require.True(t, b.HasMember(parsebridge.TypeArrayList, "size"))
		require.False(t, b.HasMember(parsebridge.TypeArrayList, "nope"))
	}
	require.Equal(t, 2, counting.probes)
}

func TestObject_Tracing(t *testing.T) {
	ctx := context.Background()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	b, _ := newTestBridge(t, WithTracer(tp.Tracer("test")))

	obj, err := b.New(ctx, "demo.Label", "w")
	require.NoError(t, err)
	_, err = obj.Invoke(ctx, "KEY")
	require.NoError(t, err)

	var found bool
	for _, s := range sr.Ended() {
		if s.Name() != "bridge.invoke" {
			continue
		}
		found = true
		attrs := make(map[attribute.Key]attribute.Value)
		for _, kv := range s.Attributes() {
			attrs[kv.Key] = kv.Value
		}
		require.Equal(t, "demo.Label", attrs["foreign.type"].AsString())
		require.Equal(t, "KEY", attrs["foreign.member"].AsString())
		require.True(t, attrs["bridge.static_fallback"].AsBool())
	}
	require.True(t, found, "expected a bridge.invoke span")
}

func TestConvert_SequenceProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		hrt := host.New()
		b := New(hrt)

		n := rapid.IntRange(0, 20).Draw(rt, "n")
		items := make([]any, n)
		for i := range items {
			items[i] = strconv.Itoa(rapid.IntRange(0, 5).Draw(rt, fmt.Sprintf("item%d", i)))
		}

		list, err := b.New(ctx, parsebridge.TypeArrayList, items...)
		if err != nil {
			rt.Fatalf("new list: %v", err)
		}
		got, err := b.Convert(ctx, list.Ref())
		if err != nil {
			rt.Fatalf("convert: %v", err)
		}
		seq := got.([]any)
		if len(seq) != n {
			rt.Fatalf("sequence length %d, want %d", len(seq), n)
		}
		for i := range seq {
			if seq[i] != items[i] {
				rt.Fatalf("element %d = %v, want %v", i, seq[i], items[i])
			}
		}

		set, err := b.New(ctx, parsebridge.TypeHashSet, items...)
		if err != nil {
			rt.Fatalf("new set: %v", err)
		}
		conv, err := b.Convert(ctx, set.Ref())
		if err != nil {
			rt.Fatalf("convert set: %v", err)
		}
		if !conv.(*Set).Equal(NewSet(items...)) {
			rt.Fatalf("set %v != %v", conv, items)
		}
	})
}
