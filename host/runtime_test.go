package host

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	parsebridge "github.com/wippyai/parse-bridge"
	"github.com/wippyai/parse-bridge/errors"
)

type counter struct {
	child *counter
	n     int
}

func newCounter(start int) *counter { return &counter{n: start} }

func (c *counter) Add(n int) int { c.n += n; return c.n }
func (c *counter) Value() int { return c.n }
func (c *counter) String() string {
	return fmt.Sprintf("counter(%d)", c.n)
}
func (c *counter) Fail() error { return fmt.Errorf("boom") }
func (c *counter) Explode() { panic("kaboom") }
func (c *counter) Child() *counter {
	if c.child == nil {
		c.child = &counter{n: c.n * 10}
	}
	return c.child
}
func (c *counter) Pair() []*counter { return []*counter{c, c.Child()} }
func (c *counter) Sum(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}
func (c *counter) Absorb(o *counter) int { return c.n + o.n }

type leafy struct{ leaf bool }

func (l *leafy) ForeignType() string {
	if l.leaf {
		return "demo.Leaf"
	}
	return "demo.Node"
}
func (l *leafy) IsLeaf() bool { return l.leaf }

func newRuntime(t *testing.T) *Runtime {
	t.Helper()
	rt := New()
	require.NoError(t, rt.RegisterClass("demo.Counter", newCounter))
	require.NoError(t, rt.RegisterStatic("demo.Counter", "ZERO", 0))
	require.NoError(t, rt.RegisterStatic("demo.Counter", "twice", func(n int) int { return 2 * n }))
	return rt
}

func TestRuntime_NewAndInvoke(t *testing.T) {
	ctx := context.Background()
	rt := newRuntime(t)

	ref, err := rt.New(ctx, "demo.Counter", 5)
	require.NoError(t, err)
	require.Equal(t, "demo.Counter", ref.Type)
	require.False(t, ref.IsZero())

	got, err := rt.Invoke(ctx, ref, "add", 2)
	require.NoError(t, err)
	require.Equal(t, 7, got)

	s, err := rt.Invoke(ctx, ref, "toString")
	require.NoError(t, err)
	require.Equal(t, "counter(7)", s)
}

func TestRuntime_NumericArgumentConversion(t *testing.T) {
	ctx := context.Background()
	rt := newRuntime(t)

	ref, err := rt.New(ctx, "demo.Counter", int64(1))
	require.NoError(t, err)

	got, err := rt.Invoke(ctx, ref, "add", uint8(3))
	require.NoError(t, err)
	require.Equal(t, 4, got)

	_, err = rt.Invoke(ctx, ref, "add", "three")
	require.True(t, errors.IsKind(err, errors.KindTypeMismatch))
}

func TestRuntime_UnknownMember(t *testing.T) {
	ctx := context.Background()
	rt := newRuntime(t)
	ref, err := rt.New(ctx, "demo.Counter", 0)
	require.NoError(t, err)

	_, err = rt.Invoke(ctx, ref, "frobnicate")
	require.True(t, errors.IsKind(err, errors.KindUnknownMember))

	// statics are not instance members
	_, err = rt.Invoke(ctx, ref, "ZERO")
	require.True(t, errors.IsKind(err, errors.KindUnknownMember))

	_, err = rt.InvokeStatic(ctx, "demo.Counter", "value")
	require.True(t, errors.IsKind(err, errors.KindUnknownMember))
}

func TestRuntime_Statics(t *testing.T) {
	ctx := context.Background()
	rt := newRuntime(t)

	v, err := rt.InvokeStatic(ctx, "demo.Counter", "ZERO")
	require.NoError(t, err)
	require.Equal(t, 0, v)

	v, err = rt.InvokeStatic(ctx, "demo.Counter", "twice", 21)
	require.NoError(t, err)
	require.Equal(t, 42, v)

	_, err = rt.InvokeStatic(ctx, "demo.Counter", "ZERO", 1)
	require.True(t, errors.IsKind(err, errors.KindInvalidInput))

	_, err = rt.InvokeStatic(ctx, "demo.Missing", "x")
	require.True(t, errors.IsKind(err, errors.KindNotFound))
}

func TestRuntime_HasMember(t *testing.T) {
	rt := newRuntime(t)

	require.True(t, rt.HasMember("demo.Counter", "add"))
	require.True(t, rt.HasMember("demo.Counter", "toString"))
	require.True(t, rt.HasMember("demo.Counter", "ZERO"))
	require.False(t, rt.HasMember("demo.Counter", "iterator"))
	require.False(t, rt.HasMember("demo.Missing", "add"))
	require.True(t, rt.HasMember(parsebridge.TypeArrayList, "iterator"))
}

func TestRuntime_Identity(t *testing.T) {
	ctx := context.Background()
	rt := newRuntime(t)
	ref, err := rt.New(ctx, "demo.Counter", 1)
	require.NoError(t, err)

	c1, err := rt.Invoke(ctx, ref, "child")
	require.NoError(t, err)
	c2, err := rt.Invoke(ctx, ref, "child")
	require.NoError(t, err)
	require.Equal(t, c1, c2, "same Go pointer must yield the same Ref")

	pair, err := rt.Invoke(ctx, ref, "pair")
	require.NoError(t, err)
	require.Equal(t, []any{ref, c1}, pair)
}

func TestRuntime_RefArguments(t *testing.T) {
	ctx := context.Background()
	rt := newRuntime(t)
	a, err := rt.New(ctx, "demo.Counter", 3)
	require.NoError(t, err)
	b, err := rt.New(ctx, "demo.Counter", 4)
	require.NoError(t, err)

	got, err := rt.Invoke(ctx, a, "absorb", b)
	require.NoError(t, err)
	require.Equal(t, 7, got)

	got, err = rt.Invoke(ctx, a, "sum", []any{1, 2, int32(3)})
	require.NoError(t, err)
	require.Equal(t, 6, got)

	_, err = rt.Invoke(ctx, a, "absorb", parsebridge.Ref{Type: "demo.Counter", ID: 999})
	require.True(t, errors.IsKind(err, errors.KindNotFound))
}

func TestRuntime_InvocationErrors(t *testing.T) {
	ctx := context.Background()
	rt := newRuntime(t)
	ref, err := rt.New(ctx, "demo.Counter", 0)
	require.NoError(t, err)

	_, err = rt.Invoke(ctx, ref, "fail")
	require.True(t, errors.IsKind(err, errors.KindInvocation))
	require.Contains(t, err.Error(), "boom")

	_, err = rt.Invoke(ctx, ref, "explode")
	require.True(t, errors.IsKind(err, errors.KindInvocation))
	require.Contains(t, err.Error(), "kaboom")

	_, err = rt.Invoke(ctx, ref, "add")
	require.True(t, errors.IsKind(err, errors.KindInvalidInput))
}

func TestRuntime_Construction(t *testing.T) {
	ctx := context.Background()
	rt := newRuntime(t)

	_, err := rt.New(ctx, "demo.Missing")
	require.True(t, errors.IsKind(err, errors.KindConstruction))
	require.True(t, errors.IsKind(err, errors.KindNotFound))

	require.NoError(t, rt.RegisterClass("demo.Broken", func(path string) (*counter, error) {
		return nil, fmt.Errorf("no such file: %s", path)
	}))
	_, err = rt.New(ctx, "demo.Broken", "/nope")
	require.True(t, errors.IsKind(err, errors.KindConstruction))
	require.Contains(t, err.Error(), "/nope")

	require.NoError(t, rt.RegisterType("demo.Opaque", &leafy{}))
	_, err = rt.New(ctx, "demo.Opaque")
	require.True(t, errors.IsKind(err, errors.KindUnsupported))
}

func TestRuntime_Registration(t *testing.T) {
	rt := New()

	require.Error(t, rt.RegisterClass("", newCounter))
	require.Error(t, rt.RegisterClass("demo.X", 42))
	require.Error(t, rt.RegisterClass("demo.X", func() {}))
	require.NoError(t, rt.RegisterClass("demo.X", newCounter))

	err := rt.RegisterClass("demo.X", newCounter)
	require.True(t, errors.IsKind(err, errors.KindRegistration))

	err = rt.RegisterStatic("demo.Nope", "x", 1)
	require.True(t, errors.IsKind(err, errors.KindRegistration))

	require.Error(t, rt.RegisterAlias("demo.Y", "demo.Nope"))
	require.NoError(t, rt.RegisterAlias("demo.Y", "demo.X"))
	require.True(t, rt.HasMember("demo.Y", "add"))
}

func TestRuntime_ForeignType(t *testing.T) {
	ctx := context.Background()
	rt := New()
	require.NoError(t, rt.RegisterType("demo.Node", &leafy{}))
	require.NoError(t, rt.RegisterAlias("demo.Leaf", "demo.Node"))
	require.NoError(t, rt.RegisterClass("demo.Factory", func() *factory { return &factory{} }))

	f, err := rt.New(ctx, "demo.Factory")
	require.NoError(t, err)

	leaf, err := rt.Invoke(ctx, f, "make", true)
	require.NoError(t, err)
	require.Equal(t, "demo.Leaf", leaf.(parsebridge.Ref).Type)

	node, err := rt.Invoke(ctx, f, "make", false)
	require.NoError(t, err)
	require.Equal(t, "demo.Node", node.(parsebridge.Ref).Type)

	isLeaf, err := rt.Invoke(ctx, leaf.(parsebridge.Ref), "isLeaf")
	require.NoError(t, err)
	require.Equal(t, true, isLeaf)
}

type factory struct{}

func (f *factory) Make(leaf bool) *leafy { return &leafy{leaf: leaf} }

func TestRuntime_Collections(t *testing.T) {
	ctx := context.Background()
	rt := newRuntime(t)
	c, err := rt.New(ctx, "demo.Counter", 9)
	require.NoError(t, err)

	list, err := rt.New(ctx, parsebridge.TypeArrayList, "a", c)
	require.NoError(t, err)

	n, err := rt.Invoke(ctx, list, "size")
	require.NoError(t, err)
	require.Equal(t, 2, n)

	got, err := rt.Invoke(ctx, list, "get", 1)
	require.NoError(t, err)
	require.Equal(t, c, got)

	_, err = rt.Invoke(ctx, list, "get", 5)
	require.True(t, errors.IsKind(err, errors.KindInvocation))
	require.True(t, errors.IsKind(err, errors.KindOutOfBounds))

	it, err := rt.Invoke(ctx, list, "iterator")
	require.NoError(t, err)
	require.Equal(t, parsebridge.TypeIterator, it.(parsebridge.Ref).Type)

	var seen []any
	for {
		more, err := rt.Invoke(ctx, it.(parsebridge.Ref), "hasNext")
		require.NoError(t, err)
		if !more.(bool) {
			break
		}
		v, err := rt.Invoke(ctx, it.(parsebridge.Ref), "next")
		require.NoError(t, err)
		seen = append(seen, v)
	}
	require.Equal(t, []any{"a", c}, seen)

	set, err := rt.New(ctx, parsebridge.TypeHashSet, "x", "x", "y")
	require.NoError(t, err)
	n, err = rt.Invoke(ctx, set, "size")
	require.NoError(t, err)
	require.Equal(t, 2, n)

	s, err := rt.Invoke(ctx, set, "toString")
	require.NoError(t, err)
	require.Equal(t, "[x, y]", s)
}

func TestRuntime_ContextAndClose(t *testing.T) {
	rt := newRuntime(t)
	ctx, cancel := context.WithCancel(context.Background())

	ref, err := rt.New(ctx, "demo.Counter", 0)
	require.NoError(t, err)
	require.Equal(t, 1, rt.Objects())

	obj, ok := rt.Object(ref)
	require.True(t, ok)
	require.IsType(t, &counter{}, obj)

	cancel()
	_, err = rt.Invoke(ctx, ref, "value")
	require.ErrorIs(t, err, context.Canceled)

	require.True(t, rt.Release(ref))
	require.False(t, rt.Release(ref))
	require.NoError(t, rt.Close())
}
