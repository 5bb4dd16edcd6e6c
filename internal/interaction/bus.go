// Package interaction delivers pointer events to whoever is listening.
//
// Components that must react to clicks anywhere on screen, such as a dropdown
// closing when the user clicks elsewhere, register a listener on a Bus while
// they need it and release it afterwards.
package interaction

import (
	"slices"
	"sync"
)

// Event is a single pointer interaction in terminal cell coordinates.
type Event struct {
	X, Y int
}

// Listener receives every dispatched event.
type Listener func(Event)

// Region is a rectangle of terminal cells.
type Region struct {
	X, Y          int
	Width, Height int
}

// Contains reports whether the cell (x, y) lies inside r. Empty regions
// contain nothing.
func (r Region) Contains(x, y int) bool {
	if r.Empty() {
		return false
	}
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Empty reports whether r has no area.
func (r Region) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Bus is a registry of listeners. The zero value is ready to use.
type Bus struct {
	mu        sync.Mutex
	next      uint64
	listeners map[uint64]Listener
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Listen registers fn and returns the function that removes it. Calling the
// release function more than once is harmless.
func (b *Bus) Listen(fn Listener) (release func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.listeners == nil {
		b.listeners = make(map[uint64]Listener)
	}
	id := b.next
	b.next++
	b.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.listeners, id)
			b.mu.Unlock()
		})
	}
}

// Dispatch delivers ev to every listener registered at the time of the call,
// in registration order. Listeners may release themselves or register new
// listeners while being called.
func (b *Bus) Dispatch(ev Event) {
	for _, fn := range b.snapshot() {
		fn(ev)
	}
}

// Len returns the number of registered listeners.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}

func (b *Bus) snapshot() []Listener {
	b.mu.Lock()
	defer b.mu.Unlock()

	ids := make([]uint64, 0, len(b.listeners))
	for id := range b.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]Listener, 0, len(ids))
	for _, id := range ids {
		out = append(out, b.listeners[id])
	}
	return out
}
