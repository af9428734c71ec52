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

// Package state holds ControllerCore, the single-threaded state machine
// that turns Commands into Actions. It owns no goroutines and does no I/O;
// package lamp/controller drives it from the owner loop.
package state

import (
	"time"

	"github.com/purpleidea/lampd/lamp"
)

// wakeUp is a stashed (deadline, Command) pair produced by replan and
// consumed once now reaches deadline.
type wakeUp struct {
	deadline time.Time
	cmd      lamp.Command
}

// ControllerCore is the Command-to-Action state machine: transitions,
// effects, and scheduler arbitration all flow through Process. It is not
// safe for concurrent use; the owning Controller worker is its only
// caller.
type ControllerCore struct {
	shared lamp.SharedState

	finish        bool
	wakeUp        *wakeUp
	transition    *lamp.TransitionState
	lastInstant   time.Time
	lastScheduler *string // nil means the WeekScheduler armed the current wake-up
	effect        lamp.Effect

	firedScheduler *string // set when a wake-up fires, cleared by FiredScheduler
	justFinished   bool    // set when a transition completes, cleared by TransitionJustFinished
}

// NewControllerCore builds a core around the given initial shared state.
func NewControllerCore(initial lamp.SharedState, now time.Time) *ControllerCore {
	return &ControllerCore{shared: initial, lastInstant: now}
}

// Shared returns the live working state. Callers publish this into a
// lamp.SharedStateBox after each Process call; ControllerCore itself never
// touches a mutex.
func (c *ControllerCore) Shared() lamp.SharedState {
	return c.shared
}

// Busy reports whether a transition or effect is currently being
// rendered. The owner loop uses this to decide whether to wake again
// after a short transition-tick interval rather than sleeping until the
// next scheduled deadline.
func (c *ControllerCore) Busy() bool {
	return c.transition != nil || c.effect != nil
}

// Process is the state machine's sole entry point. cmd may be nil,
// representing a wake with no incoming command (either the scheduled
// deadline arrived, or the owner loop is ticking an in-progress
// transition/effect).
func (c *ControllerCore) Process(cmd lamp.Command, now time.Time) lamp.Action {
	if cmd == nil {
		if c.wakeUp != nil && !now.Before(c.wakeUp.deadline) {
			stashed := c.wakeUp.cmd
			armedName := c.lastScheduler
			c.wakeUp = nil
			c.advanceArmedScheduler(armedName, now)
			if armedName != nil {
				name := *armedName
				c.firedScheduler = &name
			} else {
				week := "week"
				c.firedScheduler = &week
			}
			return c.Process(stashed, now)
		}
		return c.replan(now)
	}
	return c.handleCommand(cmd, now)
}

func (c *ControllerCore) handleCommand(cmd lamp.Command, now time.Time) lamp.Action {
	switch v := cmd.(type) {
	case lamp.CommandFinish:
		c.finish = true
		if c.transition != nil {
			s := c.tickInPlace(now)
			return lamp.Set(s)
		}
		return lamp.Break()

	case lamp.CommandSet:
		c.transition = nil
		c.effect = nil
		c.shared.Strength = v.Strength
		c.shared.Transition = nil
		return lamp.Set(v.Strength)

	case lamp.CommandSetTransition:
		t := v.Transition
		c.shared.Transition = &t
		c.transition = lamp.NewTransitionState(t)
		c.lastInstant = now
		s, _ := c.transition.Tick(0)
		c.shared.Strength = s
		return lamp.Set(s)

	case lamp.CommandChangeDayTimer:
		c.shared.WeekScheduler.Set(v.Day, v.Time)
		return c.replan(now)

	case lamp.CommandChangeDayTimerTransition:
		c.shared.WeekScheduler.Transition = v.Transition
		return c.replan(now)

	case lamp.CommandAddReplaceScheduler:
		c.shared.Schedulers.AddReplace(v.Name, v.Scheduler)
		return c.replan(now)

	case lamp.CommandRemoveScheduler:
		c.shared.Schedulers.Remove(v.Name)
		return c.replan(now)

	case lamp.CommandClearAllSchedulers:
		c.shared.Schedulers.Clear()
		return c.replan(now)

	case lamp.CommandSetEffect:
		c.effect = v.Effect
		s := v.Effect.Evaluate(unixSeconds(now))
		return lamp.Set(s)

	case lamp.CommandUpdateWake:
		return c.replan(now)

	default:
		return c.replan(now)
	}
}

// replan decides the next Action once no fresh Command is driving state: it
// is reached both directly from mutation commands and from a bare wake
// with no due wake-up.
func (c *ControllerCore) replan(now time.Time) lamp.Action {
	if c.transition != nil {
		delta := now.Sub(c.lastInstant)
		c.lastInstant = now
		s, finished := c.transition.Tick(delta)
		c.shared.Strength = s
		if !finished {
			t := c.transition.Transition()
			c.shared.Transition = &t
			return lamp.Set(s)
		}
		c.shared.Transition = nil
		c.transition = nil
		c.justFinished = true
		// fall through: finished transitions still let this tick decide
		// what's next (an installed effect, or scheduler arbitration).
	}

	if c.effect != nil {
		return lamp.Set(c.effect.Evaluate(unixSeconds(now)))
	}

	if c.finish {
		return lamp.Break()
	}

	return c.arbitrate(now)
}

// arbitrate picks the earliest-deadline Scheduler across the named map and
// the embedded WeekScheduler, breaking ties in favor of the WeekScheduler.
func (c *ControllerCore) arbitrate(now time.Time) lamp.Action {
	namedName, namedNext, namedOK := c.shared.Schedulers.Earliest(now)
	weekNext := c.shared.WeekScheduler.Next(now)
	weekOK := weekNext.Kind == lamp.At

	useWeek := weekOK && (!namedOK || !namedNext.Deadline.Before(weekNext.Deadline))

	switch {
	case useWeek:
		c.lastScheduler = nil
		c.wakeUp = &wakeUp{deadline: weekNext.Deadline, cmd: weekNext.Command}
		return lamp.Wait(lamp.SleepUntil(weekNext.Deadline))
	case namedOK:
		name := namedName
		c.lastScheduler = &name
		c.wakeUp = &wakeUp{deadline: namedNext.Deadline, cmd: namedNext.Command}
		return lamp.Wait(lamp.SleepUntil(namedNext.Deadline))
	default:
		return lamp.Wait(lamp.Forever())
	}
}

// advanceArmedScheduler advances whichever scheduler armed the just-fired
// wake-up: the named one if armedName is non-nil, else the WeekScheduler.
// A named scheduler reporting lamp.Remove is dropped from the map.
func (c *ControllerCore) advanceArmedScheduler(armedName *string, now time.Time) {
	if armedName == nil {
		c.shared.WeekScheduler.Advance(now)
		return
	}
	s, ok := c.shared.Schedulers.Get(*armedName)
	if !ok {
		return
	}
	if s.Advance(now) == lamp.Remove {
		c.shared.Schedulers.Remove(*armedName)
	}
}

// tickInPlace advances the active transition by the elapsed delta and
// commits the result, without deciding what happens after — used by the
// Finish handler, which only cares about the immediate value.
func (c *ControllerCore) tickInPlace(now time.Time) lamp.Strength {
	delta := now.Sub(c.lastInstant)
	c.lastInstant = now
	s, finished := c.transition.Tick(delta)
	c.shared.Strength = s
	if finished {
		c.shared.Transition = nil
		c.transition = nil
		c.justFinished = true
	} else {
		t := c.transition.Transition()
		c.shared.Transition = &t
	}
	return s
}

// FiredScheduler returns the name of the scheduler whose wake-up was just
// consumed by Process, clearing the record so a later call reports false
// until another wake-up fires. The WeekScheduler is reported as "week".
func (c *ControllerCore) FiredScheduler() (string, bool) {
	if c.firedScheduler == nil {
		return "", false
	}
	name := *c.firedScheduler
	c.firedScheduler = nil
	return name, true
}

// TransitionJustFinished reports whether the active transition completed
// during the most recent Process call, clearing the record so a later
// call reports false until another transition finishes.
func (c *ControllerCore) TransitionJustFinished() bool {
	v := c.justFinished
	c.justFinished = false
	return v
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}
