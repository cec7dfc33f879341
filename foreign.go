package parsebridge

import (
	"context"
	"strconv"
)

// Type tags of the collection classes every runtime is expected to expose.
const (
	TypeArrayList = "util.ArrayList"
	TypeHashSet   = "util.HashSet"
	TypeIterator  = "util.Iterator"
)

// Ref is an opaque reference to an object living in a foreign runtime.
// Refs are plain values: several wrappers may hold the same Ref and none of
// them owns the object. Two Refs are the same object iff they are equal.
type Ref struct {
	// Type is the fully-qualified name of the object's dynamic type.
	Type string
	ID   uint32
}

// IsZero reports whether r refers to nothing.
func (r Ref) IsZero() bool {
	return r.ID == 0
}

func (r Ref) String() string {
	return r.Type + "#" + strconv.FormatUint(uint64(r.ID), 10)
}

// Runtime is a foreign object runtime reached through reflection.
//
// Values crossing the boundary are raw: nil, Go scalars and strings, Refs for
// foreign objects, and []any for foreign arrays (elements raw as well).
// Arguments follow the same shape.
type Runtime interface {
	// New instantiates typeName with the given constructor arguments.
	New(ctx context.Context, typeName string, args ...any) (Ref, error)

	// Invoke calls an instance member of obj. A member the instance does not
	// have fails with errors.KindUnknownMember; static members are not
	// instance members.
	Invoke(ctx context.Context, obj Ref, member string, args ...any) (any, error)

	// InvokeStatic calls a static member declared by typeName.
	InvokeStatic(ctx context.Context, typeName, member string, args ...any) (any, error)

	// HasMember reports whether typeName declares member, instance or static.
	HasMember(typeName, member string) bool
}
