package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	parsebridge "github.com/wippyai/parse-bridge"
	"github.com/wippyai/parse-bridge/bridge"
	"github.com/wippyai/parse-bridge/errors"
)

// calcWasm exports add(i32, i32) -> i32 and answer() -> i32 returning 42.
var calcWasm = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x01, 0x0b, 0x02, 0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7f, 0x60, 0x00, 0x01, 0x7f,
	0x03, 0x03, 0x02, 0x00, 0x01,
	0x07, 0x10, 0x02,
	0x03, 0x61, 0x64, 0x64, 0x00, 0x00,
	0x06, 0x61, 0x6e, 0x73, 0x77, 0x65, 0x72, 0x00, 0x01,
	0x0a, 0x0e, 0x02,
	0x07, 0x00, 0x20, 0x00, 0x20, 0x01, 0x6a, 0x0b,
	0x04, 0x00, 0x41, 0x2a, 0x0b,
}

const calcWIT = `
	add: func(a: s32, b: s32) -> s32;
	static answer: func() -> s32;
`

func newCalc(t *testing.T) *Engine {
	t.Helper()
	ctx := context.Background()
	e := New(ctx, &Config{MemoryLimitPages: 16})
	t.Cleanup(func() { _ = e.Close(ctx) })
	require.NoError(t, e.DefineClass(ctx, "demo.Calc", calcWasm, calcWIT))
	return e
}

func TestEngine_InvokeInstance(t *testing.T) {
	ctx := context.Background()
	e := newCalc(t)

	ref, err := e.New(ctx, "demo.Calc")
	require.NoError(t, err)
	require.Equal(t, "demo.Calc", ref.Type)
	require.Equal(t, 1, e.Objects())

	sum, err := e.Invoke(ctx, ref, "add", 2, 3)
	require.NoError(t, err)
	require.Equal(t, int32(5), sum)

	sum, err = e.Invoke(ctx, ref, "add", int64(-7), uint8(2))
	require.NoError(t, err)
	require.Equal(t, int32(-5), sum)
}

func TestEngine_StaticMembers(t *testing.T) {
	ctx := context.Background()
	e := newCalc(t)

	v, err := e.InvokeStatic(ctx, "demo.Calc", "answer")
	require.NoError(t, err)
	require.Equal(t, int32(42), v)

	ref, err := e.New(ctx, "demo.Calc")
	require.NoError(t, err)
	_, err = e.Invoke(ctx, ref, "answer")
	require.True(t, errors.IsKind(err, errors.KindUnknownMember))

	_, err = e.InvokeStatic(ctx, "demo.Calc", "add", 1, 2)
	require.True(t, errors.IsKind(err, errors.KindUnknownMember))

	require.True(t, e.HasMember("demo.Calc", "answer"))
	require.True(t, e.HasMember("demo.Calc", "add"))
	require.False(t, e.HasMember("demo.Calc", "nope"))
	require.False(t, e.HasMember("demo.Missing", "add"))
}

func TestEngine_BridgeDualDispatch(t *testing.T) {
	ctx := context.Background()
	b := bridge.New(newCalc(t))

	obj, err := b.New(ctx, "demo.Calc")
	require.NoError(t, err)

	v, err := obj.Invoke(ctx, "answer")
	require.NoError(t, err)
	require.Equal(t, int32(42), v)

	v, err = obj.Invoke(ctx, "add", 40, 2)
	require.NoError(t, err)
	n, ok := bridge.AsInt(v)
	require.True(t, ok)
	require.Equal(t, 42, n)

	_, err = obj.Invoke(ctx, "nope")
	require.Equal(t, errors.KindUnknownMember, errors.KindOf(err))
}

func TestEngine_ArgumentErrors(t *testing.T) {
	ctx := context.Background()
	e := newCalc(t)
	ref, err := e.New(ctx, "demo.Calc")
	require.NoError(t, err)

	_, err = e.Invoke(ctx, ref, "add", 1)
	require.True(t, errors.IsKind(err, errors.KindInvalidInput))

	_, err = e.Invoke(ctx, ref, "add", "one", 2)
	require.True(t, errors.IsKind(err, errors.KindTypeMismatch))

	_, err = e.Invoke(ctx, ref, "add", int64(1)<<40, 2)
	require.True(t, errors.IsKind(err, errors.KindInvalidInput))

	_, err = e.Invoke(ctx, ref, "add", 1.5, 2)
	require.True(t, errors.IsKind(err, errors.KindTypeMismatch))
}

func TestEngine_Construction(t *testing.T) {
	ctx := context.Background()
	e := newCalc(t)

	_, err := e.New(ctx, "demo.Missing")
	require.True(t, errors.IsKind(err, errors.KindConstruction))

	_, err = e.New(ctx, "demo.Calc", 1)
	require.True(t, errors.IsKind(err, errors.KindConstruction))

	_, err = e.Invoke(ctx, parsebridge.Ref{Type: "demo.Calc", ID: 99}, "add", 1, 2)
	require.True(t, errors.IsKind(err, errors.KindNotFound))
}

func TestEngine_DefineClassErrors(t *testing.T) {
	ctx := context.Background()
	e := newCalc(t)

	err := e.DefineClass(ctx, "demo.Calc", calcWasm, calcWIT)
	require.True(t, errors.IsKind(err, errors.KindRegistration))

	err = e.DefineClass(ctx, "demo.Bad", []byte{0x00, 0x61, 0x73}, calcWIT)
	require.Error(t, err)

	err = e.DefineClass(ctx, "demo.Missing", calcWasm, "sub: func(a: s32, b: s32) -> s32;")
	require.True(t, errors.IsKind(err, errors.KindRegistration))

	err = e.DefineClass(ctx, "demo.Wrong", calcWasm, "add: func(a: s64, b: s32) -> s32;")
	require.True(t, errors.IsKind(err, errors.KindRegistration))

	err = e.DefineClass(ctx, "demo.Empty", calcWasm, "// nothing here")
	require.True(t, errors.IsKind(err, errors.KindInvalidInput))

	err = e.DefineClass(ctx, "", calcWasm, calcWIT)
	require.True(t, errors.IsKind(err, errors.KindInvalidInput))
}

func TestEngine_ReleaseAndClose(t *testing.T) {
	ctx := context.Background()
	e := New(ctx, nil)
	require.NoError(t, e.DefineClass(ctx, "demo.Calc", calcWasm, calcWIT))

	ref, err := e.New(ctx, "demo.Calc")
	require.NoError(t, err)
	require.True(t, e.Release(ref))
	require.False(t, e.Release(ref))
	require.Equal(t, 0, e.Objects())

	_, err = e.New(ctx, "demo.Calc")
	require.NoError(t, err)
	require.NoError(t, e.Close(ctx))
	require.Equal(t, 0, e.Objects())
}

func TestEngine_LifecycleLogging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	prev := Logger()
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(prev) })

	ctx := context.Background()
	e := newCalc(t)
	ref, err := e.New(ctx, "demo.Calc")
	require.NoError(t, err)
	require.True(t, e.Release(ref))

	require.Equal(t, 1, logs.FilterMessage("object created").FilterField(zap.String("class", "demo.Calc")).Len())
	require.Equal(t, 1, logs.FilterMessage("object dropped").Len())
}

func TestEngine_Canceled(t *testing.T) {
	e := newCalc(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.New(ctx, "demo.Calc")
	require.ErrorIs(t, err, context.Canceled)
	_, err = e.InvokeStatic(ctx, "demo.Calc", "answer")
	require.ErrorIs(t, err, context.Canceled)
}

func TestClass_Members(t *testing.T) {
	e := New(context.Background(), nil)
	require.NoError(t, e.DefineClass(context.Background(), "demo.Calc", calcWasm, calcWIT))
	c, ok := e.Class("demo.Calc")
	require.True(t, ok)
	require.Equal(t, []string{"add", "answer"}, c.Members())

	params, ok := c.Params("add")
	require.True(t, ok)
	require.Equal(t, []wit.Type{wit.S32{}, wit.S32{}}, params)
	_, ok = c.Params("nope")
	require.False(t, ok)
}

func TestParseSignatures(t *testing.T) {
	sigs, err := parseSignatures(`
		export to-string: func() -> u32;
		static make: func(seed: u64, scale: f64) -> (s32, bool);
		reset: func();
	`)
	require.NoError(t, err)
	require.Len(t, sigs, 3)

	require.False(t, sigs["to-string"].static)
	require.Equal(t, []wit.Type{wit.U32{}}, sigs["to-string"].results)

	mk := sigs["make"]
	require.True(t, mk.static)
	require.Equal(t, []wit.Type{wit.U64{}, wit.F64{}}, mk.params)
	require.Equal(t, []wit.Type{wit.S32{}, wit.Bool{}}, mk.results)

	require.Empty(t, sigs["reset"].params)
	require.Empty(t, sigs["reset"].results)

	_, err = parseSignatures("a: func(); a: func();")
	require.Error(t, err)
}

func TestCamelName(t *testing.T) {
	tests := map[string]string{
		"to-string":     "toString",
		"add":           "add",
		"get-next-item": "getNextItem",
	}
	for in, want := range tests {
		require.Equal(t, want, camelName(in), in)
	}
}

func TestValues(t *testing.T) {
	tests := []struct {
		typ  wit.Type
		in   any
		want any
	}{
		{wit.Bool{}, true, true},
		{wit.U8{}, 200, uint8(200)},
		{wit.S16{}, -300, int16(-300)},
		{wit.U32{}, uint32(4000000000), uint32(4000000000)},
		{wit.S64{}, int64(-1) << 40, int64(-1) << 40},
		{wit.U64{}, uint64(1) << 50, uint64(1) << 50},
		{wit.F32{}, 1.5, float32(1.5)},
		{wit.F64{}, 3, float64(3)},
		{wit.Char{}, 'é', 'é'},
	}
	for _, tt := range tests {
		raw, err := encode(tt.typ, tt.in, nil)
		require.NoError(t, err, typeName(tt.typ))
		got, err := decode(tt.typ, raw)
		require.NoError(t, err)
		require.Equal(t, tt.want, got, typeName(tt.typ))
	}

	_, err := encode(wit.U8{}, 256, nil)
	require.True(t, errors.IsKind(err, errors.KindInvalidInput))
	_, err = encode(wit.Bool{}, 1, nil)
	require.True(t, errors.IsKind(err, errors.KindTypeMismatch))
	_, err = decode(wit.String{}, 0)
	require.True(t, errors.IsKind(err, errors.KindUnsupported))
}
