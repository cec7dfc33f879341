// Package bridge wraps a foreign runtime for native Go callers.
//
// A Bridge converts every value returned across the boundary:
//
//   - []any converts element-wise, recursively
//   - a foreign object whose type has a registered Converter is converted by it
//   - any other foreign object is wrapped as a generic *Object
//   - scalars pass through unchanged
//
// NewRegistry installs converters for util.ArrayList (to []any) and
// util.HashSet (to *Set). Higher layers register their own types:
//
//	reg := bridge.NewRegistry()
//	reg.Register("nlp.trees.Tree", treeConverter)
//	b := bridge.New(rt, bridge.WithRegistry(reg))
//
// Object.Invoke tries the instance member first. If the runtime reports
// errors.KindUnknownMember, the call is retried once as a static member of
// the object's type; a second unknown member is reported with the first
// failure as its cause.
//
// Object.Iterate exposes a foreign iterator as an iter.Seq2, converting one
// element per step. Types without an iterator member yield nothing.
//
// Bridges do no locking of their own. Member probes are cached per type and
// member in a go-cache store. Each invocation opens an OpenTelemetry span.
package bridge
