// Package engine hosts foreign classes compiled to WebAssembly on wazero.
//
// A class is a core module plus WIT text naming the exported functions it
// offers as members:
//
//	eng := engine.New(ctx, &engine.Config{MemoryLimitPages: 256})
//	err := eng.DefineClass(ctx, "demo.Calc", wasm, `
//		add: func(a: s32, b: s32) -> s32;
//		static answer: func() -> s32;
//	`)
//
// Engine implements the bridge's foreign runtime contract. Each object is a
// separate module instance, so instance state is private to the object.
// Static members run on one shared instance per class and are not visible
// as instance members; a bridge wrapper reaches them through its static
// fallback.
//
// Kebab-case member names are also reachable in lowerCamel form.
//
// # Supported types
//
// Parameters and results are WIT scalars passed as single core values:
//
//	WIT Type        Core Representation    Go result
//	─────────────────────────────────────────────────
//	bool            i32                    bool
//	u8-u32, char    i32                    uint8-uint32, rune
//	s8-s32          i32                    int8-int32
//	u64, s64        i64                    uint64, int64
//	f32, f64        f32, f64               float32, float64
//
// Members with several results return []any.
//
// # Thread Safety
//
// Engine is safe for concurrent use. A single object is not: calls on one
// instance must not overlap.
package engine
