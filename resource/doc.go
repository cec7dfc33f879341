// Package resource provides the handle table that foreign runtimes use to
// keep objects alive while callers hold references to them.
//
// # Handle Table
//
// The Table maps integer handles to Go values tagged with a class name:
//
//	table := resource.NewTable()
//
//	// Insert a value, get a handle
//	handle := table.Insert("util.ArrayList", list)
//
//	// Intern returns the existing handle when the same value is already stored
//	same := table.Intern("util.ArrayList", list) // same == handle
//
//	// Retrieve value by handle
//	value, ok := table.Get(handle)
//
//	// Remove and get value
//	value, ok := table.Remove(handle)
//
// Handle 0 is reserved and always invalid, so a zero handle doubles as
// "no object".
//
// # Identity
//
// Interning gives handle-level identity: as long as a value stays in the
// table, every trip across the runtime boundary yields the same handle for
// it. Only comparable values (pointers in practice) are interned; other
// values get a fresh handle on every Insert.
//
// # Observers
//
// Register observers to track object lifecycle events:
//
//	table.Subscribe(observer)
//
// # Cleanup
//
// Values implementing Dropper are dropped when removed or when the table is
// closed.
package resource
