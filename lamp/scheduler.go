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

import "time"

// AdvanceResult is a Scheduler's verdict after firing once.
type AdvanceResult int

const (
	// Keep means the scheduler remains armed for its next occurrence.
	Keep AdvanceResult = iota
	// Remove means the scheduler is spent and should be dropped.
	Remove
)

// NextKind tags a NextFire result.
type NextKind int

const (
	// Unknown means the scheduler has nothing scheduled.
	Unknown NextKind = iota
	// At means the scheduler will fire Command at Deadline.
	At
)

// NextFire is the result of Scheduler.Next.
type NextFire struct {
	Kind     NextKind
	Deadline time.Time // only meaningful when Kind == At
	Command  Command   // only meaningful when Kind == At
}

// NextUnknown builds a NextFire carrying no deadline.
func NextUnknown() NextFire { return NextFire{Kind: Unknown} }

// NextAt builds a NextFire carrying a deadline and the Command to run then.
func NextAt(deadline time.Time, cmd Command) NextFire {
	return NextFire{Kind: At, Deadline: deadline, Command: cmd}
}

// Scheduler is anything that can name its next firing deadline and produce
// a Command at that deadline. Implemented as a tagged sum of concrete
// variants behind this capability interface (WeekScheduler, and the named
// variants in package lamp/scheduler) rather than via reflection.
type Scheduler interface {
	// Advance is called once the scheduler's Command has been dispatched;
	// it records any internal bookkeeping (e.g. last-fired time) and
	// reports whether the scheduler should remain armed.
	Advance(now time.Time) AdvanceResult
	// Next computes the scheduler's next firing deadline relative to now.
	Next(now time.Time) NextFire
	// Description is a short human-readable label, surfaced over HTTP.
	Description() string
	// Kind names the scheduler's variant, surfaced over HTTP.
	Kind() string
}

// SchedulerMap is a keyed collection of named Schedulers. Keys are unique;
// insertion order is irrelevant. Only the Controller worker ever advances
// or mutates the schedulers it holds.
type SchedulerMap struct {
	m map[string]Scheduler
}

// NewSchedulerMap builds an empty SchedulerMap.
func NewSchedulerMap() *SchedulerMap {
	return &SchedulerMap{m: make(map[string]Scheduler)}
}

// AddReplace inserts s under name, replacing any prior scheduler under the
// same name rather than duplicating it.
func (sm *SchedulerMap) AddReplace(name string, s Scheduler) {
	if sm.m == nil {
		sm.m = make(map[string]Scheduler)
	}
	sm.m[name] = s
}

// Remove deletes name from the map. Removing an absent name is a no-op.
func (sm *SchedulerMap) Remove(name string) {
	delete(sm.m, name)
}

// Clear empties the map.
func (sm *SchedulerMap) Clear() {
	sm.m = make(map[string]Scheduler)
}

// Get returns the scheduler stored under name, if any.
func (sm *SchedulerMap) Get(name string) (Scheduler, bool) {
	s, ok := sm.m[name]
	return s, ok
}

// Len returns the number of schedulers currently held.
func (sm *SchedulerMap) Len() int {
	return len(sm.m)
}

// Range calls f for every (name, scheduler) pair. Iteration order is
// unspecified, matching the map's documented insertion-order-irrelevant
// semantics.
func (sm *SchedulerMap) Range(f func(name string, s Scheduler)) {
	for name, s := range sm.m {
		f(name, s)
	}
}

// Earliest returns the name and NextFire of the scheduler with the
// earliest deadline across the map, or ok=false if none have one.
func (sm *SchedulerMap) Earliest(now time.Time) (name string, next NextFire, ok bool) {
	for n, s := range sm.m {
		nf := s.Next(now)
		if nf.Kind != At {
			continue
		}
		if !ok || nf.Deadline.Before(next.Deadline) {
			name, next, ok = n, nf, true
		}
	}
	return name, next, ok
}
