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
	"fmt"
	"time"
)

// Weekday is a day of the week, Monday first to match the original
// scheduler's week layout.
type Weekday int

// The seven weekdays.
const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// String implements fmt.Stringer.
func (d Weekday) String() string {
	switch d {
	case Monday:
		return "mon"
	case Tuesday:
		return "tue"
	case Wednesday:
		return "wed"
	case Thursday:
		return "thu"
	case Friday:
		return "fri"
	case Saturday:
		return "sat"
	case Sunday:
		return "sun"
	default:
		return "unknown"
	}
}

// Succ returns the next day, wrapping Sunday to Monday.
func (d Weekday) Succ() Weekday {
	return (d + 1) % 7
}

// Pred returns the previous day, wrapping Monday to Sunday.
func (d Weekday) Pred() Weekday {
	return (d + 6) % 7
}

// WeekdayFromTime converts a time.Time's Weekday (Sunday-first, stdlib
// convention) into our Monday-first Weekday.
func WeekdayFromTime(t time.Time) Weekday {
	switch t.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// ParseWeekday parses the three-letter lower-case forms used on the wire
// ("mon".."sun").
func ParseWeekday(s string) (Weekday, error) {
	switch s {
	case "mon":
		return Monday, nil
	case "tue":
		return Tuesday, nil
	case "wed":
		return Wednesday, nil
	case "thu":
		return Thursday, nil
	case "fri":
		return Friday, nil
	case "sat":
		return Saturday, nil
	case "sun":
		return Sunday, nil
	default:
		return 0, fmt.Errorf("lamp: unknown weekday %q", s)
	}
}

// TimeOfDay is a local wall-clock time of day, with second resolution.
type TimeOfDay struct {
	Hour, Min, Sec int
}

// NewTimeOfDay builds a TimeOfDay, validating the component ranges.
func NewTimeOfDay(hour, min, sec int) (TimeOfDay, error) {
	t := TimeOfDay{Hour: hour, Min: min, Sec: sec}
	if hour < 0 || hour > 23 || min < 0 || min > 59 || sec < 0 || sec > 59 {
		return TimeOfDay{}, fmt.Errorf("lamp: time of day %02d:%02d:%02d out of range", hour, min, sec)
	}
	return t, nil
}

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m, sec int
	n, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec)
	if err != nil || n < 2 {
		n, err = fmt.Sscanf(s, "%d:%d", &h, &m)
		if err != nil || n != 2 {
			return TimeOfDay{}, fmt.Errorf("lamp: cannot parse time of day %q", s)
		}
		sec = 0
	}
	return NewTimeOfDay(h, m, sec)
}

// String renders "HH:MM:SS".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Min, t.Sec)
}

// Duration returns the time of day as an offset from midnight.
func (t TimeOfDay) Duration() time.Duration {
	return time.Duration(t.Hour)*time.Hour + time.Duration(t.Min)*time.Minute + time.Duration(t.Sec)*time.Second
}

// Before reports whether t occurs earlier in the day than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.Duration() < other.Duration()
}

// AtDate returns the instant on the calendar date of ref (same year,
// month, day, and location) at time-of-day t.
func (t TimeOfDay) AtDate(ref time.Time) time.Time {
	return time.Date(ref.Year(), ref.Month(), ref.Day(), t.Hour, t.Min, t.Sec, 0, ref.Location())
}
