package host

import (
	"fmt"
	"reflect"
	"strings"

	parsebridge "github.com/wippyai/parse-bridge"
	"github.com/wippyai/parse-bridge/errors"
)

// ArrayList is the runtime's ordered list class.
type ArrayList struct {
	items []any
}

// NewArrayList creates a list holding items.
func NewArrayList(items ...any) *ArrayList {
	return &ArrayList{items: append([]any(nil), items...)}
}

func (l *ArrayList) Size() int { return len(l.items) }

func (l *ArrayList) Get(i int) (any, error) {
	if i < 0 || i >= len(l.items) {
		return nil, errors.OutOfBounds(errors.PhaseInvoke, []string{"get"}, i, len(l.items))
	}
	return l.items[i], nil
}

func (l *ArrayList) Add(v any) bool {
	l.items = append(l.items, v)
	return true
}

func (l *ArrayList) Iterator() *Iterator {
	return &Iterator{items: l.items}
}

func (l *ArrayList) String() string {
	return joinItems(l.items)
}

// HashSet is the runtime's set class. Iteration follows insertion order.
type HashSet struct {
	index map[any]struct{}
	items []any
}

// NewHashSet creates a set holding items.
func NewHashSet(items ...any) *HashSet {
	s := &HashSet{index: make(map[any]struct{})}
	for _, it := range items {
		s.Add(it)
	}
	return s
}

func (s *HashSet) Size() int { return len(s.items) }

func (s *HashSet) Add(v any) bool {
	if v != nil && !reflect.TypeOf(v).Comparable() {
		s.items = append(s.items, v)
		return true
	}
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = struct{}{}
	s.items = append(s.items, v)
	return true
}

func (s *HashSet) Contains(v any) bool {
	if v != nil && !reflect.TypeOf(v).Comparable() {
		return false
	}
	_, ok := s.index[v]
	return ok
}

func (s *HashSet) Iterator() *Iterator {
	return &Iterator{items: s.items}
}

func (s *HashSet) String() string {
	return joinItems(s.items)
}

// Iterator walks a snapshot of a collection.
type Iterator struct {
	items []any
	pos   int
}

func (it *Iterator) HasNext() bool { return it.pos < len(it.items) }

func (it *Iterator) Next() (any, error) {
	if it.pos >= len(it.items) {
		return nil, fmt.Errorf("no such element")
	}
	v := it.items[it.pos]
	it.pos++
	return v, nil
}

// IteratorOf creates an iterator over items.
func IteratorOf(items ...any) *Iterator {
	return &Iterator{items: items}
}

func joinItems(items []any) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = describe(it)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func registerCollections(r *Runtime) {
	must(r.RegisterClass(parsebridge.TypeArrayList, NewArrayList))
	must(r.RegisterClass(parsebridge.TypeHashSet, NewHashSet))
	must(r.RegisterType(parsebridge.TypeIterator, &Iterator{}))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
