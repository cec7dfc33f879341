package resource

import (
	"sync"
)

// Table stores runtime-owned objects under integer handles.
type Table struct {
	store     *store
	observers []Observer
	obsMu     sync.RWMutex
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		store: newStore(),
	}
}

// Insert adds value under class and returns a fresh handle.
// It returns 0 once the table is closed.
func (t *Table) Insert(class string, value any) Handle {
	return t.create(class, value, false)
}

// Intern returns the handle already holding value under class, or inserts it.
func (t *Table) Intern(class string, value any) Handle {
	return t.create(class, value, true)
}

func (t *Table) create(class string, value any, intern bool) Handle {
	handle, created, err := t.store.create(class, value, intern)
	if err != nil {
		return 0
	}

	if created {
		t.notify(Event{
			Type:   EventCreated,
			Handle: handle,
			Class:  class,
			Value:  value,
		})
	}

	return handle
}

// Get retrieves a value by handle.
func (t *Table) Get(handle Handle) (any, bool) {
	e, ok := t.store.lookup(handle)
	return e.value, ok
}

// Class returns the class a handle was stored under.
func (t *Table) Class(handle Handle) (string, bool) {
	e, ok := t.store.lookup(handle)
	return e.class, ok
}

// GetTyped retrieves a value only if it was stored under class.
func (t *Table) GetTyped(handle Handle, class string) (any, bool) {
	e, ok := t.store.lookup(handle)
	if !ok || e.class != class {
		return nil, false
	}
	return e.value, true
}

// Remove drops an object and returns (value, true) if found.
func (t *Table) Remove(handle Handle) (any, bool) {
	e, ok := t.store.drop(handle)
	if !ok {
		return nil, false
	}

	if d, ok := e.value.(Dropper); ok {
		d.Drop()
	}

	t.notify(Event{
		Type:   EventDropped,
		Handle: handle,
		Class:  e.class,
		Value:  e.value,
	})

	return e.value, true
}

// Subscribe adds an observer for lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of live objects.
func (t *Table) Len() int {
	return t.store.len()
}

// Clear drops every object.
func (t *Table) Clear() {
	// Collect handles first to avoid holding the lock during Remove
	var handles []Handle
	t.store.each(func(h Handle, _ entry) bool {
		handles = append(handles, h)
		return true
	})
	for _, h := range handles {
		t.Remove(h)
	}
}

// Close drops every object and stops accepting new ones.
func (t *Table) Close() error {
	return t.store.close()
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnObjectEvent(e)
	}
}
