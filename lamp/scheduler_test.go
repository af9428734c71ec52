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

import (
	"testing"
	"time"
)

// fakeScheduler is a minimal Scheduler stub for exercising SchedulerMap.
type fakeScheduler struct {
	deadline time.Time
	has      bool
}

func (f *fakeScheduler) Advance(now time.Time) AdvanceResult { return Keep }
func (f *fakeScheduler) Next(now time.Time) NextFire {
	if !f.has {
		return NextUnknown()
	}
	return NextAt(f.deadline, CommandUpdateWake{})
}
func (f *fakeScheduler) Description() string { return "fake" }
func (f *fakeScheduler) Kind() string        { return "fake" }

func TestSchedulerMapAddGetRemove(t *testing.T) {
	sm := NewSchedulerMap()
	if sm.Len() != 0 {
		t.Fatalf("new map should be empty, got %d", sm.Len())
	}
	sm.AddReplace("a", &fakeScheduler{})
	if sm.Len() != 1 {
		t.Fatalf("after AddReplace, Len() = %d, want 1", sm.Len())
	}
	if _, ok := sm.Get("a"); !ok {
		t.Fatal("Get(\"a\") should find the scheduler")
	}
	sm.Remove("a")
	if _, ok := sm.Get("a"); ok {
		t.Fatal("Get(\"a\") should fail after Remove")
	}
	sm.Remove("nonexistent") // must not panic
}

func TestSchedulerMapClear(t *testing.T) {
	sm := NewSchedulerMap()
	sm.AddReplace("a", &fakeScheduler{})
	sm.AddReplace("b", &fakeScheduler{})
	sm.Clear()
	if sm.Len() != 0 {
		t.Fatalf("Len() after Clear() = %d, want 0", sm.Len())
	}
}

func TestSchedulerMapEarliest(t *testing.T) {
	now := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)
	sm := NewSchedulerMap()
	sm.AddReplace("later", &fakeScheduler{has: true, deadline: now.Add(2 * time.Hour)})
	sm.AddReplace("sooner", &fakeScheduler{has: true, deadline: now.Add(1 * time.Hour)})
	sm.AddReplace("unknown", &fakeScheduler{has: false})

	name, next, ok := sm.Earliest(now)
	if !ok {
		t.Fatal("Earliest should find a deadline")
	}
	if name != "sooner" {
		t.Errorf("Earliest picked %q, want %q", name, "sooner")
	}
	if !next.Deadline.Equal(now.Add(1 * time.Hour)) {
		t.Errorf("Earliest deadline = %v, want %v", next.Deadline, now.Add(1*time.Hour))
	}
}

func TestSchedulerMapEarliestEmpty(t *testing.T) {
	sm := NewSchedulerMap()
	if _, _, ok := sm.Earliest(time.Now()); ok {
		t.Error("Earliest on empty map should report ok=false")
	}
}

func TestSchedulerMapRange(t *testing.T) {
	sm := NewSchedulerMap()
	sm.AddReplace("a", &fakeScheduler{})
	sm.AddReplace("b", &fakeScheduler{})
	seen := map[string]bool{}
	sm.Range(func(name string, s Scheduler) { seen[name] = true })
	if len(seen) != 2 || !seen["a"] || !seen["b"] {
		t.Errorf("Range visited %v, want a and b", seen)
	}
}

func TestWeekSchedulerGetSet(t *testing.T) {
	ws := NewWeekScheduler(DefaultTransition())
	if _, ok := ws.Get(Monday); ok {
		t.Fatal("fresh WeekScheduler should have no days set")
	}
	tod := TimeOfDay{Hour: 6, Min: 0}
	ws.Set(Monday, &tod)
	got, ok := ws.Get(Monday)
	if !ok || got != tod {
		t.Fatalf("Get(Monday) = %+v, %v; want %+v, true", got, ok, tod)
	}
	ws.Set(Monday, nil)
	if _, ok := ws.Get(Monday); ok {
		t.Fatal("Set(day, nil) should clear the day")
	}
}

func TestWeekSchedulerNextFrom(t *testing.T) {
	ws := NewWeekScheduler(DefaultTransition())
	tod := TimeOfDay{Hour: 7}
	ws.Set(Wednesday, &tod)

	got, offset, ok := ws.NextFrom(Monday)
	if !ok {
		t.Fatal("NextFrom should find Wednesday")
	}
	if offset != 2 {
		t.Errorf("offset = %d, want 2 (Mon->Wed)", offset)
	}
	if got != tod {
		t.Errorf("NextFrom time = %+v, want %+v", got, tod)
	}
}

func TestWeekSchedulerNextUnknownWhenEmpty(t *testing.T) {
	ws := NewWeekScheduler(DefaultTransition())
	nf := ws.Next(time.Now())
	if nf.Kind != Unknown {
		t.Errorf("Next on empty WeekScheduler = %v, want Unknown", nf.Kind)
	}
}

func TestWeekSchedulerNextToday(t *testing.T) {
	now := time.Date(2026, 7, 27, 10, 0, 0, 0, time.UTC) // a Monday
	ws := NewWeekScheduler(Transition{Duration: 15 * time.Minute})
	ws.Set(Monday, &TimeOfDay{Hour: 11})

	nf := ws.Next(now)
	if nf.Kind != At {
		t.Fatal("expected a deadline for today")
	}
	want := time.Date(2026, 7, 27, 10, 45, 0, 0, time.UTC) // 11:00 - 15m
	if !nf.Deadline.Equal(want) {
		t.Errorf("deadline = %v, want %v", nf.Deadline, want)
	}
}

func TestWeekSchedulerSkipsAlreadyFiredToday(t *testing.T) {
	now := time.Date(2026, 7, 27, 10, 0, 0, 0, time.UTC) // Monday
	ws := NewWeekScheduler(Transition{Duration: 0})
	ws.Set(Monday, &TimeOfDay{Hour: 11})
	ws.Set(Tuesday, &TimeOfDay{Hour: 6})
	ws.Advance(now) // marks "last fired" as now (today)

	nf := ws.Next(now)
	if nf.Kind != At {
		t.Fatal("expected to roll forward to Tuesday")
	}
	if nf.Deadline.Weekday() != time.Tuesday {
		t.Errorf("deadline weekday = %v, want Tuesday", nf.Deadline.Weekday())
	}
}

func TestWeekSchedulerDescriptionAndKind(t *testing.T) {
	ws := NewWeekScheduler(DefaultTransition())
	if ws.Kind() != "week" {
		t.Errorf("Kind() = %q, want %q", ws.Kind(), "week")
	}
	if ws.Description() == "" {
		t.Error("Description() should not be empty")
	}
}
