package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"

	parsebridge "github.com/wippyai/parse-bridge"
	"github.com/wippyai/parse-bridge/errors"
	"github.com/wippyai/parse-bridge/resource"
)

// Config holds configuration for engine creation
type Config struct {
	// MemoryLimitPages sets the maximum memory per instance in pages (64KB each).
	// 0 means default (65536 pages = 4GB).
	MemoryLimitPages uint32
}

// Engine is a foreign runtime whose classes are WebAssembly modules. Every
// object is its own module instance; static members run on one shared
// instance per class.
type Engine struct {
	runtime wazero.Runtime
	classes map[string]*Class
	objects *resource.Table
	mu      sync.RWMutex
}

var _ parsebridge.Runtime = (*Engine)(nil)

// Class is a compiled module plus the members its WIT text declares.
type Class struct {
	compiled wazero.CompiledModule
	members  map[string]*signature
	statics  api.Module
	Name     string
	staticMu sync.Mutex
}

// Members returns the declared member names, sorted.
func (c *Class) Members() []string {
	seen := make(map[string]bool)
	var out []string
	for _, sig := range c.members {
		if !seen[sig.name] {
			seen[sig.name] = true
			out = append(out, sig.name)
		}
	}
	sort.Strings(out)
	return out
}

// Params returns the declared parameter types of member.
func (c *Class) Params(member string) ([]wit.Type, bool) {
	sig, ok := c.members[member]
	if !ok {
		return nil, false
	}
	return sig.params, true
}

// instance is a live object; dropping it closes the module.
type instance struct {
	class  *Class
	module api.Module
}

func (i *instance) Drop() {
	if err := i.module.Close(context.Background()); err != nil {
		Logger().Debug("close instance", zap.String("class", i.class.Name), zap.Error(err))
	}
}

// lifecycleLogger reports object creation and release at debug level.
type lifecycleLogger struct{}

func (lifecycleLogger) OnObjectEvent(e resource.Event) {
	msg := "object created"
	if e.Type == resource.EventDropped {
		msg = "object dropped"
	}
	Logger().Debug(msg, zap.String("class", e.Class), zap.Uint32("handle", uint32(e.Handle)))
}

// New creates an engine.
func New(ctx context.Context, cfg *Config) *Engine {
	objects := resource.NewTable()
	objects.Subscribe(lifecycleLogger{})

	runtimeCfg := wazero.NewRuntimeConfig().WithCloseOnContextDone(true)
	if cfg != nil && cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}
	return &Engine{
		runtime: wazero.NewRuntimeWithConfig(ctx, runtimeCfg),
		classes: make(map[string]*Class),
		objects: objects,
	}
}

// DefineClass compiles wasm as class name. witText declares its members, one
// per line, with static members prefixed by "static":
//
//	add: func(a: s32, b: s32) -> s32;
//	static answer: func() -> s32;
//
// A member named "init" runs when New is given constructor arguments.
func (e *Engine) DefineClass(ctx context.Context, name string, wasm []byte, witText string) error {
	if name == "" {
		return errors.InvalidInput(errors.PhaseHost, "class name cannot be empty")
	}
	sigs, err := parseSignatures(witText)
	if err != nil {
		return err
	}

	compiled, err := e.runtime.CompileModule(ctx, wasm)
	if err != nil {
		return errors.Load("compile "+name, err)
	}

	exports := compiled.ExportedFunctions()
	members := make(map[string]*signature, len(sigs)*2)
	for member, sig := range sigs {
		def, ok := exports[member]
		if !ok {
			_ = compiled.Close(ctx)
			return errors.Registration(name, member, fmt.Errorf("module does not export %q", member))
		}
		if err := checkSignature(sig, def); err != nil {
			_ = compiled.Close(ctx)
			return errors.Registration(name, member, err)
		}
		members[member] = sig
		if alias := camelName(member); alias != member {
			members[alias] = sig
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.classes[name]; exists {
		_ = compiled.Close(ctx)
		return errors.Registration(name, "", fmt.Errorf("class already defined"))
	}
	e.classes[name] = &Class{Name: name, compiled: compiled, members: members}

	Logger().Debug("defined class", zap.String("class", name), zap.Int("members", len(sigs)))
	return nil
}

func checkSignature(sig *signature, def api.FunctionDefinition) error {
	params, results := def.ParamTypes(), def.ResultTypes()
	if len(params) != len(sig.params) || len(results) != len(sig.results) {
		return fmt.Errorf("declared %d params and %d results, export has %d and %d",
			len(sig.params), len(sig.results), len(params), len(results))
	}
	for i, t := range sig.params {
		ct, ok := coreType(t)
		if !ok {
			return fmt.Errorf("param %d: unsupported type %s", i, typeName(t))
		}
		if ct != params[i] {
			return fmt.Errorf("param %d: %s does not match %s", i, typeName(t), api.ValueTypeName(params[i]))
		}
	}
	for i, t := range sig.results {
		ct, ok := coreType(t)
		if !ok {
			return fmt.Errorf("result %d: unsupported type %s", i, typeName(t))
		}
		if ct != results[i] {
			return fmt.Errorf("result %d: %s does not match %s", i, typeName(t), api.ValueTypeName(results[i]))
		}
	}
	return nil
}

// Class returns a defined class.
func (e *Engine) Class(name string) (*Class, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	c, ok := e.classes[name]
	return c, ok
}

// New instantiates typeName. Constructor arguments go to the class's "init"
// member.
func (e *Engine) New(ctx context.Context, typeName string, args ...any) (parsebridge.Ref, error) {
	if err := ctx.Err(); err != nil {
		return parsebridge.Ref{}, err
	}
	c, ok := e.Class(typeName)
	if !ok {
		return parsebridge.Ref{}, errors.Construction("class "+typeName,
			errors.NotFound(errors.PhaseConstruct, "class", typeName))
	}

	ctor, hasCtor := c.members["init"]
	if len(args) > 0 && (!hasCtor || ctor.static) {
		return parsebridge.Ref{}, errors.Construction("class "+typeName,
			errors.Unsupported(errors.PhaseConstruct, "constructor arguments without an init member"))
	}

	mod, err := e.runtime.InstantiateModule(ctx, c.compiled, wazero.NewModuleConfig().WithName(""))
	if err != nil {
		return parsebridge.Ref{}, errors.Construction("instantiate "+typeName, err)
	}
	if hasCtor && !ctor.static {
		if _, err := call(ctx, mod, typeName, ctor, args); err != nil {
			_ = mod.Close(ctx)
			return parsebridge.Ref{}, errors.Construction("init "+typeName, err)
		}
	}

	h := e.objects.Insert(typeName, &instance{class: c, module: mod})
	if h == 0 {
		_ = mod.Close(ctx)
		return parsebridge.Ref{}, errors.NotInitialized(errors.PhaseConstruct, "engine")
	}
	return parsebridge.Ref{Type: typeName, ID: uint32(h)}, nil
}

// Invoke calls an instance member of obj.
func (e *Engine) Invoke(ctx context.Context, obj parsebridge.Ref, member string, args ...any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v, ok := e.objects.GetTyped(resource.Handle(obj.ID), obj.Type)
	if !ok {
		return nil, errors.NotFound(errors.PhaseInvoke, "object", obj.String())
	}
	inst := v.(*instance)

	sig, ok := inst.class.members[member]
	if !ok || sig.static {
		return nil, errors.UnknownMember(obj.Type, member)
	}
	return call(ctx, inst.module, obj.Type, sig, args)
}

// InvokeStatic calls a static member of typeName.
func (e *Engine) InvokeStatic(ctx context.Context, typeName, member string, args ...any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, ok := e.Class(typeName)
	if !ok {
		return nil, errors.NotFound(errors.PhaseInvoke, "class", typeName)
	}
	sig, ok := c.members[member]
	if !ok || !sig.static {
		return nil, errors.UnknownMember(typeName, member)
	}

	mod, err := e.staticInstance(ctx, c)
	if err != nil {
		return nil, err
	}
	return call(ctx, mod, typeName, sig, args)
}

func (e *Engine) staticInstance(ctx context.Context, c *Class) (api.Module, error) {
	c.staticMu.Lock()
	defer c.staticMu.Unlock()
	if c.statics != nil {
		return c.statics, nil
	}
	mod, err := e.runtime.InstantiateModule(ctx, c.compiled, wazero.NewModuleConfig().WithName(""))
	if err != nil {
		return nil, errors.Construction("instantiate statics of "+c.Name, err)
	}
	c.statics = mod
	return mod, nil
}

// HasMember reports whether typeName declares member.
func (e *Engine) HasMember(typeName, member string) bool {
	c, ok := e.Class(typeName)
	if !ok {
		return false
	}
	_, ok = c.members[member]
	return ok
}

// Release drops an object and closes its instance.
func (e *Engine) Release(ref parsebridge.Ref) bool {
	_, ok := e.objects.Remove(resource.Handle(ref.ID))
	return ok
}

// Objects returns the number of live objects.
func (e *Engine) Objects() int {
	return e.objects.Len()
}

// Close drops every object and closes the wazero runtime.
func (e *Engine) Close(ctx context.Context) error {
	if err := e.objects.Close(); err != nil {
		return err
	}
	return e.runtime.Close(ctx)
}

func call(ctx context.Context, mod api.Module, typeName string, sig *signature, args []any) (any, error) {
	if len(args) != len(sig.params) {
		return nil, errors.New(errors.PhaseInvoke, errors.KindInvalidInput).
			Type(typeName).
			Member(sig.name).
			Detail("expected %d arguments, got %d", len(sig.params), len(args)).
			Build()
	}

	params := make([]uint64, len(args))
	for i, a := range args {
		raw, err := encode(sig.params[i], a, []string{sig.name, fmt.Sprint(i)})
		if err != nil {
			return nil, err
		}
		params[i] = raw
	}

	fn := mod.ExportedFunction(sig.name)
	if fn == nil {
		return nil, errors.UnknownMember(typeName, sig.name)
	}
	raw, err := fn.Call(ctx, params...)
	if err != nil {
		return nil, errors.Invocation(typeName, sig.name, err)
	}

	switch len(sig.results) {
	case 0:
		return nil, nil
	case 1:
		return decode(sig.results[0], raw[0])
	}
	out := make([]any, len(sig.results))
	for i, t := range sig.results {
		v, err := decode(t, raw[i])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
