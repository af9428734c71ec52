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

// EveryWeek fires its Command at the same wall-clock time on the same
// weekday every week.
type EveryWeek struct {
	common
	time    lamp.TimeOfDay
	weekday lamp.Weekday
}

var _ lamp.Scheduler = (*EveryWeek)(nil)

// NewEveryWeek builds a weekly-repeating scheduler locked to weekday.
func NewEveryWeek(description string, t lamp.TimeOfDay, weekday lamp.Weekday, payload lamp.CloneableCommand) *EveryWeek {
	return &EveryWeek{common: common{description: description, payload: payload}, time: t, weekday: weekday}
}

// Kind implements lamp.Scheduler.
func (e *EveryWeek) Kind() string { return "every-week" }

// Next implements lamp.Scheduler: scans forward up to 7 days for the next
// occurrence of e.weekday at e.time, treating today as eligible if the
// time of day hasn't passed yet.
func (e *EveryWeek) Next(now time.Time) lamp.NextFire {
	for i := 0; i < 8; i++ {
		day := now.AddDate(0, 0, i)
		if lamp.WeekdayFromTime(day) != e.weekday {
			continue
		}
		candidate := e.time.AtDate(day)
		if i == 0 && !now.Before(candidate) {
			continue // today's occurrence already passed; wait for next week
		}
		return lamp.NextAt(candidate, e.payload.Command())
	}
	return lamp.NextUnknown()
}

// Advance implements lamp.Scheduler: always kept.
func (e *EveryWeek) Advance(now time.Time) lamp.AdvanceResult {
	return lamp.Keep
}
