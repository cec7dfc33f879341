// Package host provides an in-process foreign object runtime.
//
// Go types are registered as classes under qualified names. Exported methods
// become instance members named in lowerCamel form (HasNext -> hasNext), and
// String is exposed as toString. Static members are registered explicitly and
// may be functions or constant fields.
//
//	rt := host.New()
//	rt.RegisterClass("demo.Counter", NewCounter)
//	rt.RegisterStatic("demo.Counter", "ZERO", 0)
//
//	ref, _ := rt.New(ctx, "demo.Counter", 5)
//	n, _ := rt.Invoke(ctx, ref, "add", 2)
//
// Objects that cross the boundary are interned in a resource.Table: the same
// Go pointer always yields the same Ref. Results of registered Go types are
// returned as Refs, unregistered slices as []any, and scalars unchanged.
//
// The util.ArrayList, util.HashSet and util.Iterator classes are registered
// by New.
//
// Calling an undeclared instance or static member returns an
// errors.KindUnknownMember error. An error returned by the member itself, or a
// panic inside it, is reported as errors.KindInvocation.
package host
