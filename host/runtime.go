package host

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	parsebridge "github.com/wippyai/parse-bridge"
	"github.com/wippyai/parse-bridge/errors"
	"github.com/wippyai/parse-bridge/resource"
	"go.uber.org/zap"
)

// Typed is implemented by Go values whose foreign class depends on the value,
// not only on the Go type (a tree node vs. a tree leaf).
type Typed interface {
	ForeignType() string
}

// Class is a registered foreign class.
type Class struct {
	ctor    reflect.Value
	statics map[string]any
	methods map[string]int
	goType  reflect.Type
	Name    string
}

// Runtime is an in-process foreign runtime. Go types are registered as classes
// under qualified names and reached by member name through reflection.
// Objects crossing the boundary are interned, so the same Go pointer always
// yields the same Ref.
type Runtime struct {
	classes map[string]*Class
	byType  map[reflect.Type]string
	objects *resource.Table
	mu      sync.RWMutex
}

var _ parsebridge.Runtime = (*Runtime)(nil)

// New creates a runtime with the util collection classes registered.
func New() *Runtime {
	r := &Runtime{
		classes: make(map[string]*Class),
		byType:  make(map[reflect.Type]string),
		objects: resource.NewTable(),
	}
	registerCollections(r)
	return r
}

// RegisterClass registers a constructible class. ctor must be a function whose
// first result is the instance; an optional trailing error result reports
// construction failure.
func (r *Runtime) RegisterClass(name string, ctor any) error {
	if name == "" {
		return errors.InvalidInput(errors.PhaseHost, "class name cannot be empty")
	}

	cv := reflect.ValueOf(ctor)
	if cv.Kind() != reflect.Func {
		return errors.New(errors.PhaseHost, errors.KindTypeMismatch).
			Type(name).
			Detail("constructor must be a function, got %T", ctor).
			Build()
	}
	ct := cv.Type()
	if ct.NumOut() == 0 || ct.NumOut() > 2 || (ct.NumOut() == 2 && !ct.Out(1).Implements(errorType)) {
		return errors.New(errors.PhaseHost, errors.KindTypeMismatch).
			Type(name).
			Detail("constructor must return (T) or (T, error)").
			Build()
	}

	return r.register(name, ct.Out(0), cv)
}

// RegisterType registers a class that is produced by other members but has no
// public constructor. sample fixes the Go type.
func (r *Runtime) RegisterType(name string, sample any) error {
	if name == "" {
		return errors.InvalidInput(errors.PhaseHost, "class name cannot be empty")
	}
	if sample == nil {
		return errors.InvalidInput(errors.PhaseHost, "sample cannot be nil")
	}
	return r.register(name, reflect.TypeOf(sample), reflect.Value{})
}

// RegisterAlias registers name as a class sharing the Go type and statics of
// an existing class. Values declaring ForeignType report their own name.
func (r *Runtime) RegisterAlias(name, existing string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	base, ok := r.classes[existing]
	if !ok {
		return errors.NotFound(errors.PhaseHost, "class", existing)
	}
	r.classes[name] = &Class{
		Name:    name,
		goType:  base.goType,
		methods: base.methods,
		statics: base.statics,
	}
	return nil
}

// RegisterStatic registers a static member. A function value is called with
// the invocation arguments; any other value is returned as a constant field.
func (r *Runtime) RegisterStatic(class, member string, v any) error {
	if member == "" {
		return errors.InvalidInput(errors.PhaseHost, "member name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.classes[class]
	if !ok {
		return errors.Registration(class, member, errors.NotFound(errors.PhaseHost, "class", class))
	}
	c.statics[member] = v
	return nil
}

func (r *Runtime) register(name string, goType reflect.Type, ctor reflect.Value) error {
	methods := make(map[string]int)
	for i := 0; i < goType.NumMethod(); i++ {
		m := goType.Method(i)
		if !m.IsExported() || reserved[m.Name] {
			continue
		}
		methods[memberName(m.Name)] = i
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.classes[name]; exists {
		return errors.Registration(name, "", fmt.Errorf("class already registered"))
	}

	r.classes[name] = &Class{
		Name:    name,
		ctor:    ctor,
		goType:  goType,
		methods: methods,
		statics: make(map[string]any),
	}
	if _, bound := r.byType[goType]; !bound {
		r.byType[goType] = name
	}

	Logger().Debug("registered class",
		zap.String("class", name),
		zap.String("go_type", goType.String()),
		zap.Int("members", len(methods)))
	return nil
}

func (r *Runtime) class(name string) (*Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.classes[name]
	return c, ok
}

// New instantiates a class.
func (r *Runtime) New(ctx context.Context, typeName string, args ...any) (parsebridge.Ref, error) {
	if err := ctx.Err(); err != nil {
		return parsebridge.Ref{}, err
	}

	c, ok := r.class(typeName)
	if !ok {
		return parsebridge.Ref{}, errors.Construction("class "+typeName,
			errors.NotFound(errors.PhaseHost, "class", typeName))
	}
	if !c.ctor.IsValid() {
		return parsebridge.Ref{}, errors.Construction("class "+typeName,
			errors.Unsupported(errors.PhaseConstruct, "class has no public constructor"))
	}

	out, err := r.call(c.ctor, typeName, "<init>", args)
	if err != nil {
		return parsebridge.Ref{}, errors.Construction("class "+typeName, err)
	}

	v, err := r.export(out)
	if err != nil {
		return parsebridge.Ref{}, errors.Construction("class "+typeName, err)
	}
	ref, ok := v.(parsebridge.Ref)
	if !ok {
		return parsebridge.Ref{}, errors.Construction("class "+typeName,
			errors.TypeMismatch(errors.PhaseConstruct, nil, fmt.Sprintf("%T", v), typeName))
	}
	return ref, nil
}

// Invoke calls an instance member.
func (r *Runtime) Invoke(ctx context.Context, obj parsebridge.Ref, member string, args ...any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	target, ok := r.objects.Get(resource.Handle(obj.ID))
	if !ok {
		return nil, errors.NotFound(errors.PhaseInvoke, "object", obj.String())
	}

	c, ok := r.class(obj.Type)
	if !ok {
		return nil, errors.UnknownMember(obj.Type, member)
	}
	idx, ok := c.methods[member]
	if !ok {
		return nil, errors.UnknownMember(obj.Type, member)
	}

	fn := reflect.ValueOf(target).Method(idx)
	out, err := r.call(fn, obj.Type, member, args)
	if err != nil {
		return nil, err
	}
	return r.export(out)
}

// InvokeStatic calls a static member of a class.
func (r *Runtime) InvokeStatic(ctx context.Context, typeName, member string, args ...any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c, ok := r.class(typeName)
	if !ok {
		return nil, errors.NotFound(errors.PhaseInvoke, "class", typeName)
	}

	r.mu.RLock()
	s, ok := c.statics[member]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.UnknownMember(typeName, member)
	}

	fn := reflect.ValueOf(s)
	if fn.Kind() != reflect.Func {
		if len(args) > 0 {
			return nil, errors.New(errors.PhaseInvoke, errors.KindInvalidInput).
				Type(typeName).
				Member(member).
				Detail("static field takes no arguments, got %d", len(args)).
				Build()
		}
		return r.export(s)
	}

	out, err := r.call(fn, typeName, member, args)
	if err != nil {
		return nil, err
	}
	return r.export(out)
}

// HasMember reports whether a class declares an instance or static member.
func (r *Runtime) HasMember(typeName, member string) bool {
	c, ok := r.class(typeName)
	if !ok {
		return false
	}
	if _, ok := c.methods[member]; ok {
		return true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok = c.statics[member]
	return ok
}

// Object returns the Go value behind a Ref.
func (r *Runtime) Object(ref parsebridge.Ref) (any, bool) {
	return r.objects.GetTyped(resource.Handle(ref.ID), ref.Type)
}

// Release drops the runtime's reference to an object.
func (r *Runtime) Release(ref parsebridge.Ref) bool {
	_, ok := r.objects.Remove(resource.Handle(ref.ID))
	return ok
}

// Objects returns the number of live objects.
func (r *Runtime) Objects() int {
	return r.objects.Len()
}

// Close releases every object.
func (r *Runtime) Close() error {
	return r.objects.Close()
}

// call invokes fn with converted arguments. A trailing error result becomes an
// Invocation error, and so does a panic inside the member.
func (r *Runtime) call(fn reflect.Value, typeName, member string, args []any) (result any, err error) {
	in, err := r.importArgs(fn.Type(), typeName, member, args)
	if err != nil {
		return nil, err
	}

	defer func() {
		if p := recover(); p != nil {
			result = nil
			err = errors.Invocation(typeName, member, fmt.Errorf("panic: %v", p))
		}
	}()

	var out []reflect.Value
	if fn.Type().IsVariadic() {
		out = fn.CallSlice(in)
	} else {
		out = fn.Call(in)
	}

	if n := len(out); n > 0 && fn.Type().Out(n-1).Implements(errorType) {
		if e := out[n-1].Interface(); e != nil {
			return nil, errors.Invocation(typeName, member, e.(error))
		}
		out = out[:n-1]
	}

	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return out[0].Interface(), nil
	default:
		vals := make([]any, len(out))
		for i, o := range out {
			vals[i] = o.Interface()
		}
		return vals, nil
	}
}
