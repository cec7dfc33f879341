package host

import (
	"fmt"
	"reflect"
	"strconv"

	parsebridge "github.com/wippyai/parse-bridge"
	"github.com/wippyai/parse-bridge/errors"
	"github.com/wippyai/parse-bridge/resource"
)

var (
	errorType    = reflect.TypeOf((*error)(nil)).Elem()
	anySliceType = reflect.TypeOf([]any(nil))
)

// importArgs converts invocation arguments to the parameter types of fn.
func (r *Runtime) importArgs(ft reflect.Type, typeName, member string, args []any) ([]reflect.Value, error) {
	numIn := ft.NumIn()
	fixed := numIn
	if ft.IsVariadic() {
		fixed = numIn - 1
		if len(args) < fixed {
			return nil, arityError(typeName, member, fixed, len(args), true)
		}
	} else if len(args) != numIn {
		return nil, arityError(typeName, member, numIn, len(args), false)
	}

	in := make([]reflect.Value, 0, numIn)
	for i := 0; i < fixed; i++ {
		v, err := r.importValue(args[i], ft.In(i), []string{"args", strconv.Itoa(i)}, typeName)
		if err != nil {
			return nil, withMember(err, member)
		}
		in = append(in, v)
	}

	if ft.IsVariadic() {
		rest := args[fixed:]
		st := ft.In(numIn - 1)
		slice := reflect.MakeSlice(st, len(rest), len(rest))
		for i, a := range rest {
			v, err := r.importValue(a, st.Elem(), []string{"args", strconv.Itoa(fixed + i)}, typeName)
			if err != nil {
				return nil, withMember(err, member)
			}
			slice.Index(i).Set(v)
		}
		in = append(in, slice)
	}

	return in, nil
}

// importValue converts one foreign value to Go type t. Refs resolve to the
// objects they name and []any converts element-wise.
func (r *Runtime) importValue(arg any, t reflect.Type, path []string, typeName string) (reflect.Value, error) {
	if ref, ok := arg.(parsebridge.Ref); ok {
		obj, ok := r.objects.Get(resource.Handle(ref.ID))
		if !ok {
			return reflect.Value{}, errors.New(errors.PhaseInvoke, errors.KindNotFound).
				Path(path...).
				Detail("object %s not found", ref).
				Build()
		}
		arg = obj
	}

	if arg == nil {
		switch t.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, errors.TypeMismatch(errors.PhaseInvoke, path, "nil", typeName)
	}

	if list, ok := arg.([]any); ok {
		switch t.Kind() {
		case reflect.Slice:
			out := reflect.MakeSlice(t, len(list), len(list))
			for i, e := range list {
				ev, err := r.importValue(e, t.Elem(), appendPath(path, strconv.Itoa(i)), typeName)
				if err != nil {
					return reflect.Value{}, err
				}
				out.Index(i).Set(ev)
			}
			return out, nil
		case reflect.Interface:
			if anySliceType.AssignableTo(t) {
				out, err := r.importValue(arg, anySliceType, path, typeName)
				if err != nil {
					return reflect.Value{}, err
				}
				return out.Convert(t), nil
			}
		}
	}

	v := reflect.ValueOf(arg)
	if v.Type().AssignableTo(t) {
		return v, nil
	}
	if convertible(v.Type(), t) {
		return v.Convert(t), nil
	}
	return reflect.Value{}, errors.TypeMismatch(errors.PhaseInvoke, path, v.Type().String(), typeName)
}

// export converts a Go result to its foreign form: scalars pass through,
// registered types become interned Refs, unregistered slices become []any.
func (r *Runtime) export(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if ref, ok := v.(parsebridge.Ref); ok {
		return ref, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return nil, nil
		}
	case reflect.Slice:
		if rv.IsNil() {
			return nil, nil
		}
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		if _, registered := r.typeName(rv.Type()); !registered {
			return v, nil
		}
	}

	if t, ok := v.(Typed); ok {
		name := t.ForeignType()
		if _, ok := r.class(name); !ok {
			return nil, errors.NotFound(errors.PhaseConvert, "class", name)
		}
		return r.intern(name, v)
	}

	if name, ok := r.typeName(rv.Type()); ok {
		return r.intern(name, v)
	}

	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		if b, ok := v.([]byte); ok {
			return b, nil
		}
		out := make([]any, rv.Len())
		for i := range out {
			e, err := r.export(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out[i] = e
		}
		return out, nil
	}

	return nil, errors.New(errors.PhaseConvert, errors.KindTypeMismatch).
		Detail("Go type %s is not registered as a class", rv.Type()).
		Build()
}

func (r *Runtime) typeName(t reflect.Type) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.byType[t]
	return name, ok
}

func (r *Runtime) intern(class string, v any) (parsebridge.Ref, error) {
	h := r.objects.Intern(class, v)
	if h == 0 {
		return parsebridge.Ref{}, errors.New(errors.PhaseConvert, errors.KindNotInitialized).
			Type(class).
			Detail("runtime closed").
			Build()
	}
	return parsebridge.Ref{Type: class, ID: uint32(h)}, nil
}

func convertible(from, to reflect.Type) bool {
	if !from.ConvertibleTo(to) {
		return false
	}
	return (isNumeric(from) && isNumeric(to)) || (from.Kind() == reflect.String && to.Kind() == reflect.String)
}

func isNumeric(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func appendPath(path []string, elem string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, elem)
}

func arityError(typeName, member string, want, got int, variadic bool) error {
	atLeast := ""
	if variadic {
		atLeast = "at least "
	}
	return errors.New(errors.PhaseInvoke, errors.KindInvalidInput).
		Type(typeName).
		Member(member).
		Detail("expected %s%d arguments, got %d", atLeast, want, got).
		Build()
}

func withMember(err error, member string) error {
	if e, ok := err.(*errors.Error); ok && e.Member == "" {
		e.Member = member
	}
	return err
}

func describe(v any) string {
	return fmt.Sprintf("%v", v)
}
