package loop

import (
	"cmp"
	"slices"
)

type timer struct {
	name string
	at   float64 // Simulation timestamp in milliseconds
	fn   func()
}

// Timers holds named deferred callbacks in simulation time. Setting a name
// that is already pending replaces it.
type Timers struct {
	pending map[string]timer
}

// NewTimers creates an empty set.
func NewTimers() *Timers {
	return &Timers{pending: make(map[string]timer)}
}

// Set arms the named timer to run fn at timestamp at.
func (t *Timers) Set(name string, at float64, fn func()) {
	t.pending[name] = timer{name: name, at: at, fn: fn}
}

// Cancel drops the named timer if it is pending.
func (t *Timers) Cancel(name string) {
	delete(t.pending, name)
}

// Pending reports whether the named timer is armed.
func (t *Timers) Pending(name string) bool {
	_, ok := t.pending[name]
	return ok
}

// Advance runs every timer due at now, earliest first. A callback may arm
// new timers; those run on a later Advance.
func (t *Timers) Advance(now float64) {
	var due []timer
	for _, tm := range t.pending {
		if tm.at <= now {
			due = append(due, tm)
		}
	}
	slices.SortFunc(due, func(a, b timer) int {
		if c := cmp.Compare(a.at, b.at); c != 0 {
			return c
		}
		return cmp.Compare(a.name, b.name)
	})
	for _, tm := range due {
		// Skip timers cancelled or re-armed by an earlier callback.
		if cur, ok := t.pending[tm.name]; !ok || cur.at != tm.at {
			continue
		}
		delete(t.pending, tm.name)
		tm.fn()
	}
}

// Clear drops every pending timer.
func (t *Timers) Clear() {
	clear(t.pending)
}

// Len returns the number of pending timers.
func (t *Timers) Len() int {
	return len(t.pending)
}
