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

// SleepTimeKind tags a SleepTime.
type SleepTimeKind int

const (
	// SleepForever means there is nothing to wake up for.
	SleepForever SleepTimeKind = iota
	// SleepTo means wake at the carried instant.
	SleepTo
)

// SleepTime is the Controller's next-wake instruction.
type SleepTime struct {
	Kind  SleepTimeKind
	At    time.Time // only meaningful when Kind == SleepTo
}

// Forever builds a SleepTime that never wakes on its own.
func Forever() SleepTime { return SleepTime{Kind: SleepForever} }

// SleepUntil builds a SleepTime waking at the given instant.
func SleepUntil(t time.Time) SleepTime { return SleepTime{Kind: SleepTo, At: t} }

// ActionKind tags an Action.
type ActionKind int

const (
	// ActionWait means the worker should sleep until SleepTime.
	ActionWait ActionKind = iota
	// ActionSet means the worker should push Strength to the output.
	ActionSet
	// ActionBreak means the worker should shut down.
	ActionBreak
)

// Action is ControllerCore.Process's per-call response.
type Action struct {
	Kind      ActionKind
	Sleep     SleepTime // only meaningful when Kind == ActionWait
	Strength  Strength  // only meaningful when Kind == ActionSet
}

// Wait builds an ActionWait.
func Wait(s SleepTime) Action { return Action{Kind: ActionWait, Sleep: s} }

// Set builds an ActionSet.
func Set(s Strength) Action { return Action{Kind: ActionSet, Strength: s} }

// Break builds an ActionBreak.
func Break() Action { return Action{Kind: ActionBreak} }
