package bridge

import (
	"fmt"
	"reflect"
	"strings"

	parsebridge "github.com/wippyai/parse-bridge"
)

// Set is the native form of a foreign set. Wrapped objects are keyed by
// handle, comparable values by value, and anything else by its printed form.
// Items keeps insertion order.
type Set struct {
	index map[any]int
	items []any
}

// NewSet creates a set holding items.
func NewSet(items ...any) *Set {
	s := &Set{index: make(map[any]int)}
	for _, it := range items {
		s.Add(it)
	}
	return s
}

func setKey(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case Referer:
		return x.Ref()
	case parsebridge.Ref:
		return x
	}
	if reflect.TypeOf(v).Comparable() {
		return v
	}
	return "fmt:" + fmt.Sprintf("%#v", v)
}

// Add inserts v and reports whether it was new.
func (s *Set) Add(v any) bool {
	k := setKey(v)
	if _, ok := s.index[k]; ok {
		return false
	}
	s.index[k] = len(s.items)
	s.items = append(s.items, v)
	return true
}

// Contains reports whether v is in the set.
func (s *Set) Contains(v any) bool {
	_, ok := s.index[setKey(v)]
	return ok
}

// Len returns the number of elements.
func (s *Set) Len() int { return len(s.items) }

// Items returns the elements in insertion order.
func (s *Set) Items() []any {
	return append([]any(nil), s.items...)
}

// Equal reports set equality, ignoring order.
func (s *Set) Equal(other *Set) bool {
	if other == nil || s.Len() != other.Len() {
		return false
	}
	for k := range s.index {
		if _, ok := other.index[k]; !ok {
			return false
		}
	}
	return true
}

func (s *Set) String() string {
	parts := make([]string, len(s.items))
	for i, it := range s.items {
		parts[i] = fmt.Sprint(it)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
