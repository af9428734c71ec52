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

import "fmt"

// Command is the message type mutating Controller state. It is a tagged
// sum of the concrete types below, dispatched by a type switch in
// ControllerCore.Process rather than by reflection.
type Command interface {
	// CanClone reports whether this Command may be stashed for deferred
	// execution (e.g. as a scheduler's wake-up payload). Only
	// CommandAddReplaceScheduler is non-cloneable, since it owns a
	// Scheduler value that a scheduler's own wake-up slot must not
	// also reference.
	CanClone() bool
	commandTag()
}

// cloneable is embedded by every Command that may be stashed.
type cloneable struct{}

func (cloneable) CanClone() bool { return true }

// CommandSet sets strength directly, clearing any active transition or
// effect.
type CommandSet struct {
	cloneable
	Strength Strength
}

func (CommandSet) commandTag() {}

// CommandSetTransition installs a new TransitionState immediately.
type CommandSetTransition struct {
	cloneable
	Transition Transition
}

func (CommandSetTransition) commandTag() {}

// CommandChangeDayTimer edits one day of the embedded WeekScheduler. Time
// may be nil to clear that day.
type CommandChangeDayTimer struct {
	cloneable
	Day  Weekday
	Time *TimeOfDay
}

func (CommandChangeDayTimer) commandTag() {}

// CommandChangeDayTimerTransition replaces the WeekScheduler's Transition.
type CommandChangeDayTimerTransition struct {
	cloneable
	Transition Transition
}

func (CommandChangeDayTimerTransition) commandTag() {}

// CommandAddReplaceScheduler inserts (or replaces) a named Scheduler. It is
// the one non-cloneable Command, since it owns a Scheduler value.
type CommandAddReplaceScheduler struct {
	Name      string
	Scheduler Scheduler
}

func (CommandAddReplaceScheduler) CanClone() bool { return false }
func (CommandAddReplaceScheduler) commandTag()    {}

// CommandRemoveScheduler removes a named Scheduler. Removing an absent
// name is a no-op, never an error.
type CommandRemoveScheduler struct {
	cloneable
	Name string
}

func (CommandRemoveScheduler) commandTag() {}

// CommandClearAllSchedulers empties the named-scheduler map. The embedded
// WeekScheduler is untouched.
type CommandClearAllSchedulers struct {
	cloneable
}

func (CommandClearAllSchedulers) commandTag() {}

// CommandSetEffect installs a continuous Effect override.
type CommandSetEffect struct {
	cloneable
	Effect Effect
}

func (CommandSetEffect) commandTag() {}

// CommandUpdateWake asks the core to re-plan without any other side
// effect; used after external state changes (e.g. persisted schedulers
// reloaded, or a clock/time-zone step) that the core must re-evaluate.
type CommandUpdateWake struct {
	cloneable
}

func (CommandUpdateWake) commandTag() {}

// CommandFinish requests graceful shutdown: any in-flight transition is
// allowed to complete before the worker breaks out of its loop.
type CommandFinish struct {
	cloneable
}

func (CommandFinish) commandTag() {}

// CloneableCommand wraps a Command known to be safe to stash for deferred
// execution (e.g. as a scheduler's fire payload). Its constructor is the
// only way to obtain one, and it rejects CommandAddReplaceScheduler.
type CloneableCommand struct {
	cmd Command
}

// NewCloneableCommand wraps cmd, failing if cmd is not cloneable.
func NewCloneableCommand(cmd Command) (CloneableCommand, error) {
	if !cmd.CanClone() {
		return CloneableCommand{}, fmt.Errorf("lamp: command %T cannot be cloned/stashed", cmd)
	}
	return CloneableCommand{cmd: cmd}, nil
}

// Command unwraps the underlying Command.
func (c CloneableCommand) Command() Command {
	return c.cmd
}
