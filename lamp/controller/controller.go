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

// Package controller drives lamp/state.ControllerCore: it owns the single
// cooperative worker goroutine, the Output device, and the bounded Command
// FIFO, and is the sole writer of the SharedState it publishes.
package controller

import (
	"context"
	"time"

	"github.com/purpleidea/lampd/lamp"
	"github.com/purpleidea/lampd/lamp/output"
	"github.com/purpleidea/lampd/lamp/state"
)

// QueueCapacity is the bounded FIFO depth for the Command channel.
const QueueCapacity = 128

// TransitionTick is the nominal cadence the worker wakes at while a
// transition or effect is in progress.
const TransitionTick = 10 * time.Millisecond

// TestTransitionTick is the coarser cadence used under test, so polling
// tests don't have to race a 10ms wakeup.
const TestTransitionTick = 100 * time.Millisecond

// Metrics is the subset of metrics.Metrics a Controller reports into,
// kept as an interface so this package carries no hard dependency on the
// metrics package.
type Metrics interface {
	CommandProcessed(kind string)
	TransitionFinished()
	SchedulerFired(name string)
	SetStrength(v float64)
}

// Controller owns the Output and the ControllerCore exclusively; it is
// the only writer of SharedState, published into box after every Process
// call so readers never observe a torn update.
type Controller struct {
	core *state.ControllerCore
	out  output.Output
	box  *lamp.SharedStateBox
	cmds chan lamp.Command
	logf func(format string, v ...interface{})
	tick time.Duration

	// Metrics, if set, receives instrumentation for every Command
	// processed, scheduler fire, transition finish, and output Strength
	// change. Left nil, none of it is recorded.
	Metrics Metrics
}

// New builds a Controller. tick selects the transition-tick cadence; pass
// TransitionTick in production and TestTransitionTick under test.
func New(core *state.ControllerCore, out output.Output, box *lamp.SharedStateBox, tick time.Duration, logf func(string, ...interface{})) *Controller {
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}
	return &Controller{
		core: core,
		out:  out,
		box:  box,
		cmds: make(chan lamp.Command, QueueCapacity),
		logf: logf,
		tick: tick,
	}
}

// Enqueue pushes cmd onto the Command FIFO, blocking if it is full. Set
// commands share this channel and may block under load; that is
// acceptable, since Set arrives from a human at UI rate.
func (c *Controller) Enqueue(cmd lamp.Command) {
	c.cmds <- cmd
}

// Snapshot returns the current externally-visible state.
func (c *Controller) Snapshot() lamp.SharedState {
	return c.box.Snapshot()
}

// Run executes the owner loop until ControllerCore emits Break (via an
// enqueued CommandFinish or ctx cancellation), then returns the Output for
// the caller to dispose of.
func (c *Controller) Run(ctx context.Context) output.Output {
	if err := c.out.Prepare(); err != nil {
		c.logf("controller: output prepare: %v", err)
	}

	disabled := true
	lastStrength := lamp.NewStrengthClamped(0)
	sleeping := lamp.Forever()
	ctxDone := ctx.Done()

	for {
		cmd, shuttingDown := c.dequeue(ctxDone, sleeping)
		if shuttingDown {
			cmd = lamp.CommandFinish{}
			ctxDone = nil // Finish already queued; don't re-trigger every loop
		}

		now := time.Now()
		action := c.core.Process(cmd, now)
		c.box.Replace(c.core.Shared())

		if c.Metrics != nil {
			c.Metrics.CommandProcessed(commandKind(cmd))
			if name, ok := c.core.FiredScheduler(); ok {
				c.Metrics.SchedulerFired(name)
			}
			if c.core.TransitionJustFinished() {
				c.Metrics.TransitionFinished()
			}
		}

		switch action.Kind {
		case lamp.ActionWait:
			if lastStrength.Float64() == 0 && !c.core.Busy() && !disabled {
				if err := c.out.Disable(); err != nil {
					c.logf("controller: output disable: %v", err)
				}
				disabled = true
			}
			sleeping = action.Sleep

		case lamp.ActionSet:
			if disabled {
				if err := c.out.Enable(); err != nil {
					c.logf("controller: output enable: %v", err)
				}
				disabled = false
			}
			if err := c.out.Set(action.Strength); err != nil {
				c.logf("controller: output set: %v", err)
			}
			lastStrength = action.Strength
			if c.Metrics != nil {
				c.Metrics.SetStrength(action.Strength.Float64())
			}

		case lamp.ActionBreak:
			return c.out
		}
	}
}

// commandKind labels cmd for metrics, independent of its internal shape.
func commandKind(cmd lamp.Command) string {
	switch cmd.(type) {
	case nil:
		return "wake"
	case lamp.CommandSet:
		return "set"
	case lamp.CommandSetTransition:
		return "set_transition"
	case lamp.CommandChangeDayTimer:
		return "change_day_timer"
	case lamp.CommandChangeDayTimerTransition:
		return "change_day_timer_transition"
	case lamp.CommandAddReplaceScheduler:
		return "add_replace_scheduler"
	case lamp.CommandRemoveScheduler:
		return "remove_scheduler"
	case lamp.CommandClearAllSchedulers:
		return "clear_all_schedulers"
	case lamp.CommandSetEffect:
		return "set_effect"
	case lamp.CommandUpdateWake:
		return "update_wake"
	case lamp.CommandFinish:
		return "finish"
	default:
		return "unknown"
	}
}

// dequeue tries a non-blocking receive first, then falls back to a
// bounded wait on the scheduled deadline or the transition-tick cadence
// (whichever is sooner) if busy, else an unbounded wait.
func (c *Controller) dequeue(ctxDone <-chan struct{}, sleeping lamp.SleepTime) (lamp.Command, bool) {
	select {
	case cmd := <-c.cmds:
		return cmd, false
	default:
	}

	wait, forever := c.waitFor(sleeping)

	if forever {
		select {
		case cmd := <-c.cmds:
			return cmd, false
		case <-ctxDone:
			return nil, true
		}
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case cmd := <-c.cmds:
		return cmd, false
	case <-timer.C:
		return nil, false
	case <-ctxDone:
		return nil, true
	}
}

// waitFor computes how long the worker should block given the current
// sleeping deadline, shortened to the transition-tick cadence whenever a
// transition or effect is in progress.
func (c *Controller) waitFor(sleeping lamp.SleepTime) (time.Duration, bool) {
	forever := sleeping.Kind == lamp.SleepForever
	var wait time.Duration
	if !forever {
		wait = time.Until(sleeping.At)
		if wait < 0 {
			wait = 0
		}
	}

	if c.core.Busy() {
		if forever || c.tick < wait {
			wait = c.tick
		}
		forever = false
	}

	return wait, forever
}
