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

package scheduler

import (
	"time"

	"github.com/purpleidea/lampd/lamp"
)

// EveryDay fires its Command at the same wall-clock time every day.
type EveryDay struct {
	common
	time lamp.TimeOfDay
}

var _ lamp.Scheduler = (*EveryDay)(nil)

// NewEveryDay builds a daily-repeating scheduler.
func NewEveryDay(description string, t lamp.TimeOfDay, payload lamp.CloneableCommand) *EveryDay {
	return &EveryDay{common: common{description: description, payload: payload}, time: t}
}

// Kind implements lamp.Scheduler.
func (e *EveryDay) Kind() string { return "every-day" }

// Next implements lamp.Scheduler: today-at-time if that is still ahead of
// now, otherwise tomorrow-at-time.
func (e *EveryDay) Next(now time.Time) lamp.NextFire {
	today := e.time.AtDate(now)
	if now.Before(today) {
		return lamp.NextAt(today, e.payload.Command())
	}
	tomorrow := e.time.AtDate(now.AddDate(0, 0, 1))
	return lamp.NextAt(tomorrow, e.payload.Command())
}

// Advance implements lamp.Scheduler: always kept.
func (e *EveryDay) Advance(now time.Time) lamp.AdvanceResult {
	return lamp.Keep
}
