package engine

import (
	"fmt"
	"math"
	"reflect"

	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/parse-bridge/errors"
)

// coreType returns the core value type a scalar WIT type is passed as.
// Types that need linear memory are not supported.
func coreType(t wit.Type) (api.ValueType, bool) {
	switch t.(type) {
	case wit.Bool, wit.U8, wit.S8, wit.U16, wit.S16, wit.U32, wit.S32, wit.Char:
		return api.ValueTypeI32, true
	case wit.U64, wit.S64:
		return api.ValueTypeI64, true
	case wit.F32:
		return api.ValueTypeF32, true
	case wit.F64:
		return api.ValueTypeF64, true
	}
	return 0, false
}

// encode lowers one Go argument to its core representation.
func encode(t wit.Type, v any, path []string) (uint64, error) {
	switch t.(type) {
	case wit.Bool:
		b, ok := v.(bool)
		if !ok {
			return 0, mismatch(path, v, t)
		}
		if b {
			return 1, nil
		}
		return 0, nil
	case wit.F32:
		f, ok := asFloat(v)
		if !ok {
			return 0, mismatch(path, v, t)
		}
		return api.EncodeF32(float32(f)), nil
	case wit.F64:
		f, ok := asFloat(v)
		if !ok {
			return 0, mismatch(path, v, t)
		}
		return api.EncodeF64(f), nil
	}

	n, ok := asInt(v)
	if !ok {
		return 0, mismatch(path, v, t)
	}
	lo, hi := bounds(t)
	if n < lo || (hi >= 0 && n > hi) {
		return 0, errors.New(errors.PhaseInvoke, errors.KindInvalidInput).
			Path(path...).
			Value(v).
			Detail("%d out of range for %s", n, typeName(t)).
			Build()
	}

	switch t.(type) {
	case wit.U8, wit.U16, wit.U32, wit.Char:
		return api.EncodeU32(uint32(n)), nil
	case wit.S8, wit.S16, wit.S32:
		return api.EncodeI32(int32(n)), nil
	case wit.S64:
		return api.EncodeI64(n), nil
	case wit.U64:
		return uint64(n), nil
	}
	return 0, errors.Unsupported(errors.PhaseInvoke, "parameter type "+typeName(t))
}

// decode lifts one core result.
func decode(t wit.Type, raw uint64) (any, error) {
	switch t.(type) {
	case wit.Bool:
		return uint32(raw) != 0, nil
	case wit.U8:
		return uint8(raw), nil
	case wit.S8:
		return int8(raw), nil
	case wit.U16:
		return uint16(raw), nil
	case wit.S16:
		return int16(raw), nil
	case wit.U32:
		return api.DecodeU32(raw), nil
	case wit.S32:
		return api.DecodeI32(raw), nil
	case wit.Char:
		return rune(api.DecodeU32(raw)), nil
	case wit.U64:
		return raw, nil
	case wit.S64:
		return int64(raw), nil
	case wit.F32:
		return api.DecodeF32(raw), nil
	case wit.F64:
		return api.DecodeF64(raw), nil
	}
	return nil, errors.Unsupported(errors.PhaseConvert, "result type "+typeName(t))
}

// bounds returns the accepted integer range; hi < 0 means unbounded above.
func bounds(t wit.Type) (lo, hi int64) {
	switch t.(type) {
	case wit.U8:
		return 0, math.MaxUint8
	case wit.S8:
		return math.MinInt8, math.MaxInt8
	case wit.U16:
		return 0, math.MaxUint16
	case wit.S16:
		return math.MinInt16, math.MaxInt16
	case wit.U32:
		return 0, math.MaxUint32
	case wit.S32:
		return math.MinInt32, math.MaxInt32
	case wit.Char:
		return 0, 0x10FFFF
	case wit.U64:
		return 0, -1
	}
	return math.MinInt64, math.MaxInt64
}

func asInt(v any) (int64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || f < math.MinInt64 || f > math.MaxInt64 {
			return 0, false
		}
		return int64(f), true
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	}
	return 0, false
}

func mismatch(path []string, v any, t wit.Type) error {
	return errors.TypeMismatch(errors.PhaseInvoke, path, fmt.Sprintf("%T", v), typeName(t))
}

func typeName(t wit.Type) string {
	switch t.(type) {
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.S8:
		return "s8"
	case wit.U16:
		return "u16"
	case wit.S16:
		return "s16"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case wit.Char:
		return "char"
	case wit.String:
		return "string"
	}
	return fmt.Sprintf("%T", t)
}
