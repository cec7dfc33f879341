package main

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"go.bytecodealliance.org/wit"
)

// convertArg parses a command-line argument as a value of WIT type t.
func convertArg(value string, t wit.Type) (any, error) {
	switch t.(type) {
	case wit.String:
		return value, nil
	case wit.U8:
		v, err := strconv.ParseUint(value, 10, 8)
		return uint8(v), err
	case wit.U16:
		v, err := strconv.ParseUint(value, 10, 16)
		return uint16(v), err
	case wit.U32:
		v, err := strconv.ParseUint(value, 10, 32)
		return uint32(v), err
	case wit.S8:
		v, err := strconv.ParseInt(value, 10, 8)
		return int8(v), err
	case wit.S16:
		v, err := strconv.ParseInt(value, 10, 16)
		return int16(v), err
	case wit.S32:
		v, err := strconv.ParseInt(value, 10, 32)
		return int32(v), err
	case wit.U64:
		return strconv.ParseUint(value, 10, 64)
	case wit.S64:
		return strconv.ParseInt(value, 10, 64)
	case wit.F32:
		v, err := strconv.ParseFloat(value, 32)
		return float32(v), err
	case wit.F64:
		return strconv.ParseFloat(value, 64)
	case wit.Bool:
		return strconv.ParseBool(value)
	case wit.Char:
		r, size := utf8.DecodeRuneInString(value)
		if r == utf8.RuneError || size != len(value) {
			return nil, fmt.Errorf("%q is not a single character", value)
		}
		return r, nil
	}
	return nil, fmt.Errorf("unsupported parameter type %s", witTypeStr(t))
}

func witTypeStr(t wit.Type) string {
	switch v := t.(type) {
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
	case *wit.TypeDef:
		if v.Name != nil {
			return *v.Name
		}
		return "typedef"
	default:
		return fmt.Sprintf("%T", t)
	}
}
