// Package state holds per-view fetch results for the reel UI.
//
// # Overview
//
// Each view (library, queue, calendar and so on) owns a Store parameterised
// by the data it renders. Fetches run as bubbletea commands on their own
// goroutines; their results come back as messages and are applied to the
// store from the UI's update loop.
//
// # Tags
//
// Every fetch starts with Begin, which returns a Tag made of the instance
// name and a random token. Apply accepts a result only when its tag is the
// most recently issued one:
//
//	tag := store.Begin(inst.Name)   // view mounts or user presses r
//	go fetch...                      // result carries tag
//	store.Apply(tag, movies, err)    // ignored if a newer Begin happened
//
// Switching instance calls Begin with the new name, which also clears data
// belonging to the old instance. A slow response from the old instance then
// arrives with a stale tag and is dropped, so one instance's data is never
// rendered under another instance's name.
//
// # Update Semantics
//
//	// Success: replace data, clear error
//	store.Apply(tag, data, nil)
//	→ snapshot.Data = data
//	→ snapshot.LastError = nil
//	→ snapshot.ConsecutiveFailures = 0
//
//	// Error: keep old data, record error
//	store.Apply(tag, zero, err)
//	→ snapshot.Data = <unchanged>
//	→ snapshot.LastError = err
//	→ snapshot.ConsecutiveFailures++
//
// IsOffline reports two or more consecutive failures, which the header uses
// to mark the instance unreachable.
//
// # Concurrency Model
//
// Store uses a sync.RWMutex. Snapshot copies data through the clone function
// given to NewStore (CloneSlice for slice payloads) so renderers never share
// backing arrays with the store.
package state
