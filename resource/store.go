package resource

import (
	"errors"
	"reflect"
	"sync"
)

var ErrClosed = errors.New("object store closed")

// store is the in-memory slot array behind a Table.
type store struct {
	entries  []entry
	freeList []Handle
	interned map[any]Handle
	mu       sync.RWMutex
	closed   bool
}

type entry struct {
	value any
	class string
	valid bool
}

func newStore() *store {
	return &store{
		entries:  make([]entry, 0, 64),
		freeList: make([]Handle, 0, 16),
		interned: make(map[any]Handle),
	}
}

func internable(value any) bool {
	if value == nil {
		return false
	}
	return reflect.TypeOf(value).Comparable()
}

// create stores value and returns its handle. With intern set, a comparable
// value already present under the same class keeps its existing handle.
func (s *store) create(class string, value any, intern bool) (Handle, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, false, ErrClosed
	}

	canIntern := intern && internable(value)
	if canIntern {
		if h, ok := s.interned[value]; ok && s.entries[h-1].class == class {
			return h, false, nil
		}
	}

	e := entry{
		class: class,
		value: value,
		valid: true,
	}

	var handle Handle
	if len(s.freeList) > 0 {
		handle = s.freeList[len(s.freeList)-1]
		s.freeList = s.freeList[:len(s.freeList)-1]
		s.entries[handle-1] = e
	} else {
		s.entries = append(s.entries, e)
		handle = Handle(len(s.entries))
	}

	if canIntern {
		s.interned[value] = handle
	}
	return handle, true, nil
}

func (s *store) lookup(handle Handle) (entry, bool) {
	if handle == 0 {
		return entry{}, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := handle - 1
	if int(idx) >= len(s.entries) {
		return entry{}, false
	}

	e := s.entries[idx]
	if !e.valid {
		return entry{}, false
	}
	return e, true
}

// drop invalidates handle and returns the entry it held.
func (s *store) drop(handle Handle) (entry, bool) {
	if handle == 0 {
		return entry{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := handle - 1
	if int(idx) >= len(s.entries) {
		return entry{}, false
	}

	e := s.entries[idx]
	if !e.valid {
		return entry{}, false
	}

	if internable(e.value) && s.interned[e.value] == handle {
		delete(s.interned, e.value)
	}
	s.entries[idx] = entry{}
	s.freeList = append(s.freeList, handle)

	return e, true
}

func (s *store) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	for i := range s.entries {
		if s.entries[i].valid {
			if d, ok := s.entries[i].value.(Dropper); ok {
				d.Drop()
			}
		}
	}

	s.entries = nil
	s.freeList = nil
	s.interned = nil
	return nil
}

func (s *store) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries) - len(s.freeList)
}

func (s *store) each(fn func(Handle, entry) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i, e := range s.entries {
		if e.valid {
			if !fn(Handle(i+1), e) {
				break
			}
		}
	}
}
