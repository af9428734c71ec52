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

package state

import (
	"testing"
	"time"

	"github.com/purpleidea/lampd/lamp"
)

// fireOnceScheduler is a stub lamp.Scheduler firing cmd once at deadline,
// then reporting Remove.
type fireOnceScheduler struct {
	deadline time.Time
	cmd      lamp.Command
}

func (f *fireOnceScheduler) Next(now time.Time) lamp.NextFire {
	return lamp.NextAt(f.deadline, f.cmd)
}
func (f *fireOnceScheduler) Advance(now time.Time) lamp.AdvanceResult { return lamp.Remove }
func (f *fireOnceScheduler) Description() string                     { return "fire-once" }
func (f *fireOnceScheduler) Kind() string                            { return "fire-once" }

func freshState() lamp.SharedState {
	return lamp.SharedState{
		Strength:      lamp.NewStrengthClamped(0),
		WeekScheduler: lamp.NewWeekScheduler(lamp.DefaultTransition()),
		Schedulers:    lamp.NewSchedulerMap(),
	}
}

func TestControllerCoreCommandSet(t *testing.T) {
	now := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)
	c := NewControllerCore(freshState(), now)

	action := c.Process(lamp.CommandSet{Strength: lamp.NewStrengthClamped(0.5)}, now)
	if action.Kind != lamp.ActionSet || action.Strength.Float64() != 0.5 {
		t.Fatalf("CommandSet => %+v, want ActionSet(0.5)", action)
	}
	if c.Shared().Transition != nil {
		t.Error("CommandSet must clear any active transition")
	}
	if c.Busy() {
		t.Error("CommandSet must not leave the core busy")
	}
}

func TestControllerCoreSetTransitionThenReplan(t *testing.T) {
	now := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)
	c := NewControllerCore(freshState(), now)

	tr := lamp.Transition{
		From: lamp.NewStrengthClamped(0), To: lamp.NewStrengthClamped(1),
		Duration:      10 * time.Second,
		Interpolation: lamp.TransitionInterpolation{Kind: lamp.Linear},
	}
	action := c.Process(lamp.CommandSetTransition{Transition: tr}, now)
	if action.Kind != lamp.ActionSet {
		t.Fatalf("CommandSetTransition => %+v, want ActionSet", action)
	}
	if !c.Busy() {
		t.Fatal("an active transition should report Busy()")
	}

	mid := now.Add(5 * time.Second)
	action = c.Process(nil, mid)
	if action.Kind != lamp.ActionSet {
		t.Fatalf("mid-transition replan => %+v, want ActionSet", action)
	}
	if got := action.Strength.Float64(); got < 0.49 || got > 0.51 {
		t.Errorf("mid-transition strength = %v, want ~0.5", got)
	}

	end := now.Add(10 * time.Second)
	action = c.Process(nil, end)
	if action.Kind != lamp.ActionWait {
		t.Fatalf("finished transition with no schedulers => %+v, want ActionWait", action)
	}
	if c.Busy() {
		t.Error("a finished transition should no longer report Busy()")
	}
}

func TestControllerCoreNoSchedulersWaitsForever(t *testing.T) {
	now := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)
	c := NewControllerCore(freshState(), now)
	action := c.Process(nil, now)
	if action.Kind != lamp.ActionWait || action.Sleep.Kind != lamp.SleepForever {
		t.Fatalf("with no schedulers => %+v, want Wait(Forever)", action)
	}
}

func TestControllerCoreArbitrationPicksNamedScheduler(t *testing.T) {
	now := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)
	deadline := now.Add(time.Hour)

	state := freshState()
	c := NewControllerCore(state, now)
	cmd := lamp.CommandSet{Strength: lamp.NewStrengthClamped(0.9)}
	c.Process(lamp.CommandAddReplaceScheduler{Name: "evening", Scheduler: &fireOnceScheduler{deadline: deadline, cmd: cmd}}, now)

	action := c.Process(nil, now)
	if action.Kind != lamp.ActionWait || action.Sleep.Kind != lamp.SleepTo {
		t.Fatalf("arbitration => %+v, want Wait(SleepTo)", action)
	}
	if !action.Sleep.At.Equal(deadline) {
		t.Errorf("sleep deadline = %v, want %v", action.Sleep.At, deadline)
	}
}

func TestControllerCoreWakeConsumptionIsDeadlineGated(t *testing.T) {
	now := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)
	deadline := now.Add(time.Hour)
	setCmd := lamp.CommandSet{Strength: lamp.NewStrengthClamped(0.9)}

	c := NewControllerCore(freshState(), now)
	c.Process(lamp.CommandAddReplaceScheduler{Name: "evening", Scheduler: &fireOnceScheduler{deadline: deadline, cmd: setCmd}}, now)
	c.Process(nil, now) // arms the wake-up

	// a spurious wake before the deadline must not consume the stash
	early := now.Add(10 * time.Minute)
	action := c.Process(nil, early)
	if action.Kind != lamp.ActionWait || !action.Sleep.At.Equal(deadline) {
		t.Fatalf("early wake => %+v, want the original deadline still armed", action)
	}

	// once now reaches the deadline the stashed command dispatches
	action = c.Process(nil, deadline)
	if action.Kind != lamp.ActionSet || action.Strength.Float64() != 0.9 {
		t.Fatalf("at-deadline wake => %+v, want the stashed CommandSet applied", action)
	}
	if _, ok := c.Shared().Schedulers.Get("evening"); ok {
		t.Error("a fire-once scheduler reporting Remove should be dropped from the map")
	}
}

func TestControllerCoreFinishWithoutTransitionBreaksImmediately(t *testing.T) {
	now := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)
	c := NewControllerCore(freshState(), now)
	action := c.Process(lamp.CommandFinish{}, now)
	if action.Kind != lamp.ActionBreak {
		t.Fatalf("Finish with nothing in flight => %+v, want ActionBreak", action)
	}
}

func TestControllerCoreFinishDrainsActiveTransition(t *testing.T) {
	now := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)
	c := NewControllerCore(freshState(), now)
	tr := lamp.Transition{
		From: lamp.NewStrengthClamped(0), To: lamp.NewStrengthClamped(1),
		Duration: 10 * time.Second, Interpolation: lamp.TransitionInterpolation{Kind: lamp.Linear},
	}
	c.Process(lamp.CommandSetTransition{Transition: tr}, now)

	action := c.Process(lamp.CommandFinish{}, now.Add(5*time.Second))
	if action.Kind != lamp.ActionSet {
		t.Fatalf("Finish with an in-flight transition => %+v, want one last ActionSet", action)
	}
}

func TestControllerCoreSetEffect(t *testing.T) {
	now := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)
	c := NewControllerCore(freshState(), now)
	action := c.Process(lamp.CommandSetEffect{Effect: lamp.Radar{Speed: 10}}, now)
	if action.Kind != lamp.ActionSet {
		t.Fatalf("CommandSetEffect => %+v, want ActionSet", action)
	}
	if !c.Busy() {
		t.Error("an installed effect should report Busy()")
	}
	if got := action.Strength.Float64(); got < 0 || got > 1 {
		t.Errorf("effect strength out of range: %v", got)
	}
}

func TestControllerCoreSetClearsEffect(t *testing.T) {
	now := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)
	c := NewControllerCore(freshState(), now)
	c.Process(lamp.CommandSetEffect{Effect: lamp.Radar{Speed: 10}}, now)
	c.Process(lamp.CommandSet{Strength: lamp.NewStrengthClamped(0.2)}, now)
	if c.Busy() {
		t.Error("CommandSet should clear any installed Effect")
	}
}

func TestControllerCoreWeekSchedulerWinsTies(t *testing.T) {
	now := time.Date(2026, 7, 27, 10, 0, 0, 0, time.UTC) // Monday
	deadline := now.Add(time.Hour)

	state := freshState()
	c := NewControllerCore(state, now)
	setCmd := lamp.CommandSet{Strength: lamp.NewStrengthClamped(0.4)}
	c.Process(lamp.CommandAddReplaceScheduler{Name: "named", Scheduler: &fireOnceScheduler{deadline: deadline, cmd: setCmd}}, now)

	// configure the WeekScheduler to fire exactly at the same deadline
	weekTr := lamp.Transition{Duration: 0}
	c.Process(lamp.CommandChangeDayTimerTransition{Transition: weekTr}, now)
	c.Process(lamp.CommandChangeDayTimer{Day: lamp.Monday, Time: &lamp.TimeOfDay{Hour: deadline.Hour(), Min: deadline.Minute(), Sec: deadline.Second()}}, now)

	action := c.Process(nil, now)
	if action.Kind != lamp.ActionWait || !action.Sleep.At.Equal(deadline) {
		t.Fatalf("tie arbitration => %+v, want Wait at %v", action, deadline)
	}
	// dispatch the wake and confirm the WeekScheduler's own transition fired
	// (not the named scheduler's CommandSet), per the tie-break rule.
	action = c.Process(nil, deadline)
	if action.Kind != lamp.ActionSet {
		t.Fatalf("dispatch at tie deadline => %+v, want ActionSet", action)
	}
	if _, ok := c.Shared().Schedulers.Get("named"); !ok {
		t.Error("the named scheduler should still be armed; the WeekScheduler should have won the tie")
	}
}

func TestControllerCoreFiredSchedulerNamedAndCleared(t *testing.T) {
	now := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)
	deadline := now.Add(time.Hour)
	setCmd := lamp.CommandSet{Strength: lamp.NewStrengthClamped(0.9)}

	c := NewControllerCore(freshState(), now)
	c.Process(lamp.CommandAddReplaceScheduler{Name: "evening", Scheduler: &fireOnceScheduler{deadline: deadline, cmd: setCmd}}, now)
	c.Process(nil, now) // arms the wake-up

	if _, ok := c.FiredScheduler(); ok {
		t.Error("FiredScheduler should report false before any wake-up fires")
	}

	c.Process(nil, deadline)
	name, ok := c.FiredScheduler()
	if !ok || name != "evening" {
		t.Fatalf("FiredScheduler() = (%q, %v), want (\"evening\", true)", name, ok)
	}
	if _, ok := c.FiredScheduler(); ok {
		t.Error("FiredScheduler should clear its record after being read once")
	}
}

func TestControllerCoreFiredSchedulerReportsWeek(t *testing.T) {
	now := time.Date(2026, 7, 27, 10, 0, 0, 0, time.UTC) // Monday
	deadline := now.Add(time.Hour)

	c := NewControllerCore(freshState(), now)
	weekTr := lamp.Transition{Duration: 0}
	c.Process(lamp.CommandChangeDayTimerTransition{Transition: weekTr}, now)
	c.Process(lamp.CommandChangeDayTimer{Day: lamp.Monday, Time: &lamp.TimeOfDay{Hour: deadline.Hour(), Min: deadline.Minute(), Sec: deadline.Second()}}, now)
	c.Process(nil, now) // arms the wake-up

	c.Process(nil, deadline)
	name, ok := c.FiredScheduler()
	if !ok || name != "week" {
		t.Fatalf("FiredScheduler() = (%q, %v), want (\"week\", true)", name, ok)
	}
}

func TestControllerCoreTransitionJustFinished(t *testing.T) {
	now := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)
	c := NewControllerCore(freshState(), now)
	tr := lamp.Transition{
		From: lamp.NewStrengthClamped(0), To: lamp.NewStrengthClamped(1),
		Duration: 10 * time.Second, Interpolation: lamp.TransitionInterpolation{Kind: lamp.Linear},
	}
	c.Process(lamp.CommandSetTransition{Transition: tr}, now)

	c.Process(nil, now.Add(5*time.Second))
	if c.TransitionJustFinished() {
		t.Error("TransitionJustFinished should be false mid-transition")
	}

	c.Process(nil, now.Add(10*time.Second))
	if !c.TransitionJustFinished() {
		t.Error("TransitionJustFinished should be true the tick a transition completes")
	}
	if c.TransitionJustFinished() {
		t.Error("TransitionJustFinished should clear its record after being read once")
	}
}

func TestControllerCoreTransitionJustFinishedOnFinish(t *testing.T) {
	now := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)
	c := NewControllerCore(freshState(), now)
	tr := lamp.Transition{
		From: lamp.NewStrengthClamped(0), To: lamp.NewStrengthClamped(1),
		Duration: 10 * time.Second, Interpolation: lamp.TransitionInterpolation{Kind: lamp.Linear},
	}
	c.Process(lamp.CommandSetTransition{Transition: tr}, now)
	c.Process(lamp.CommandFinish{}, now.Add(10*time.Second))
	if !c.TransitionJustFinished() {
		t.Error("a Finish that drains the last in-flight tick should also report TransitionJustFinished")
	}
}
