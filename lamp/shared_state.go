// Mgmt
// Copyright (C) James Shubin and the project contributors
// Written by James Shubin <james@shubin.ca> and the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package lamp

import "sync"

// SharedState is the externally-visible snapshot of live Controller state.
// It is exclusively mutated by the Controller worker; everyone else
// (the HTTP layer, the persistence loop) reads it through SharedStateBox,
// which guards it with a single mutex.
type SharedState struct {
	Strength      Strength
	Transition    *Transition // nil when idle or overridden by Set
	WeekScheduler *WeekScheduler
	Schedulers    *SchedulerMap
}

// Clone returns a shallow-independent copy suitable for handing to a
// reader outside the Controller worker. The SchedulerMap and WeekScheduler
// pointers are copied by reference deliberately: readers only ever range
// over them for display (see httpd's /get-schedulers), and mutation is the
// Controller's exclusive privilege regardless of who holds the pointer.
func (s SharedState) Clone() SharedState {
	out := s
	if s.Transition != nil {
		t := *s.Transition
		out.Transition = &t
	}
	return out
}

// SharedStateBox guards a SharedState behind a single mutex: readers take
// it briefly to copy a snapshot, and the Controller worker never blocks
// while holding it.
type SharedStateBox struct {
	mu    sync.Mutex
	state SharedState
}

// NewSharedStateBox wraps the given initial state.
func NewSharedStateBox(initial SharedState) *SharedStateBox {
	return &SharedStateBox{state: initial}
}

// Snapshot returns a copy of the current state, safe to read without
// further locking.
func (b *SharedStateBox) Snapshot() SharedState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.Clone()
}

// Replace overwrites the guarded state. Only the Controller worker should
// call this.
func (b *SharedStateBox) Replace(s SharedState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = s
}

// Update applies f to a copy of the current state under lock, then stores
// the result. Only the Controller worker should call this.
func (b *SharedStateBox) Update(f func(SharedState) SharedState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = f(b.state)
}
