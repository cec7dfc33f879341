package bridge

import (
	"context"
	"sync"

	parsebridge "github.com/wippyai/parse-bridge"
	"github.com/wippyai/parse-bridge/errors"
)

// Converter turns a foreign object of a registered type into a native value.
type Converter func(ctx context.Context, b *Bridge, ref parsebridge.Ref) (any, error)

// Registry maps foreign type tags to converters. A missing entry means the
// object is wrapped as a generic *Object.
type Registry struct {
	converters map[string]Converter
	mu         sync.RWMutex
}

// NewRegistry creates a registry with the collection converters installed:
// util.ArrayList becomes []any and util.HashSet becomes *Set.
func NewRegistry() *Registry {
	r := &Registry{converters: make(map[string]Converter)}
	r.Register(parsebridge.TypeArrayList, SequenceConverter)
	r.Register(parsebridge.TypeHashSet, SetConverter)
	return r
}

// Register installs c for tag, replacing any previous converter.
func (r *Registry) Register(tag string, c Converter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.converters[tag] = c
}

// Alias makes tag use the converter registered for existing.
func (r *Registry) Alias(tag, existing string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.converters[existing]
	if !ok {
		return errors.NotFound(errors.PhaseConvert, "converter", existing)
	}
	r.converters[tag] = c
	return nil
}

// Lookup returns the converter registered for tag.
func (r *Registry) Lookup(tag string) (Converter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.converters[tag]
	return c, ok
}

// Len returns the number of registered type tags.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.converters)
}

// SequenceConverter reads an indexed collection through size() and get(i)
// and converts each element.
func SequenceConverter(ctx context.Context, b *Bridge, ref parsebridge.Ref) (any, error) {
	obj := b.Wrap(ref)

	n, err := obj.Invoke(ctx, "size")
	if err != nil {
		return nil, err
	}
	size, ok := AsInt(n)
	if !ok {
		return nil, errors.New(errors.PhaseConvert, errors.KindTypeMismatch).
			Type(ref.Type).
			Member("size").
			Detail("size returned %T", n).
			Build()
	}

	out := make([]any, size)
	for i := 0; i < size; i++ {
		v, err := obj.Invoke(ctx, "get", i)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// SetConverter walks a collection's iterator and collects the converted
// elements into a *Set.
func SetConverter(ctx context.Context, b *Bridge, ref parsebridge.Ref) (any, error) {
	set := NewSet()
	for v, err := range b.Wrap(ref).Iterate(ctx) {
		if err != nil {
			return nil, err
		}
		set.Add(v)
	}
	return set, nil
}
