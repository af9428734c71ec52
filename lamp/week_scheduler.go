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

// WeekScheduler is the seven-per-week sunrise plan: up to one time of day
// per weekday, all sharing a single Transition. It is itself a Scheduler
// (the "special" one, always consulted alongside the named SchedulerMap),
// and is additionally embedded directly in SharedState.
type WeekScheduler struct {
	days       [7]*TimeOfDay
	Transition Transition
	last       *time.Time // most recent fire, used to suppress same-day re-fire
}

// NewWeekScheduler builds a WeekScheduler with no day times set, using the
// given Transition.
func NewWeekScheduler(transition Transition) *WeekScheduler {
	return &WeekScheduler{Transition: transition}
}

// Get returns the optional time set for day.
func (ws *WeekScheduler) Get(day Weekday) (TimeOfDay, bool) {
	p := ws.days[day]
	if p == nil {
		return TimeOfDay{}, false
	}
	return *p, true
}

// Set assigns (or clears, if t is nil) the time for day. Per the
// WeekScheduler invariant, editing any day's time clears `last`, so the
// edited day (or any day) may fire again even if it already fired today.
func (ws *WeekScheduler) Set(day Weekday, t *TimeOfDay) {
	if t == nil {
		ws.days[day] = nil
	} else {
		cp := *t
		ws.days[day] = &cp
	}
	ws.last = nil
}

// NextFrom scans up to 7 days starting at day (inclusive) for the first
// enabled time, returning it along with how many days after `day` it
// falls (0..6).
func (ws *WeekScheduler) NextFrom(day Weekday) (TimeOfDay, int, bool) {
	d := day
	for i := 0; i < 7; i++ {
		if t, ok := ws.Get(d); ok {
			return t, i, true
		}
		d = d.Succ()
	}
	return TimeOfDay{}, 0, false
}

// Description implements Scheduler.
func (ws *WeekScheduler) Description() string {
	return "week scheduler"
}

// Kind implements Scheduler.
func (ws *WeekScheduler) Kind() string {
	return "week"
}

// Advance implements Scheduler: it records the fire time and always keeps
// the scheduler armed for future weeks.
func (ws *WeekScheduler) Advance(now time.Time) AdvanceResult {
	t := now
	ws.last = &t
	return Keep
}

// Next implements Scheduler: today fires at today_at(time) - duration
// when now is still before that deadline and the scheduler has not
// already fired today; otherwise the next enabled day (scanning forward,
// possibly into next week) wins.
func (ws *WeekScheduler) Next(now time.Time) NextFire {
	anyEnabled := false
	for _, t := range ws.days {
		if t != nil {
			anyEnabled = true
			break
		}
	}
	if !anyEnabled {
		return NextUnknown()
	}

	duration := ws.Transition.Duration
	today := WeekdayFromTime(now)

	if todayTime, ok := ws.Get(today); ok {
		deadline := todayTime.AtDate(now).Add(-duration)
		firedToday := ws.last != nil && sameCalendarDate(*ws.last, now)
		if now.Before(deadline) && !firedToday {
			return ws.fireAt(deadline)
		}
	}

	t, offset, ok := ws.NextFrom(today.Succ())
	if !ok {
		return NextUnknown()
	}
	date := now.AddDate(0, 0, offset+1)
	deadline := t.AtDate(date).Add(-duration)
	return ws.fireAt(deadline)
}

func (ws *WeekScheduler) fireAt(deadline time.Time) NextFire {
	return NextAt(deadline, CommandSetTransition{Transition: ws.Transition})
}

func sameCalendarDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
