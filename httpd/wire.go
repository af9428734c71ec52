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

// Package httpd is the HTTP control surface: a thin gin.Engine wrapper
// translating requests into exactly one (or zero) lamp.Command pushed
// onto the Controller's ingress channel.
package httpd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/purpleidea/lampd/lamp"
)

// TransitionData is the wire shape of a lamp.Transition. The yaml tags
// let it double as the persisted-state shape for current_transition,
// which serialises the same fields.
type TransitionData struct {
	From          float64  `json:"from" yaml:"from"`
	To            float64  `json:"to" yaml:"to"`
	Time          float64  `json:"time" yaml:"time"` // seconds
	Interpolation string   `json:"interpolation" yaml:"interpolation"`
	Extras        []string `json:"extras" yaml:"extras"`
}

// FromTransition builds the wire shape from a lamp.Transition.
func FromTransition(t lamp.Transition) TransitionData {
	td := TransitionData{
		From:          t.From.Float64(),
		To:            t.To.Float64(),
		Time:          t.Duration.Seconds(),
		Interpolation: t.Interpolation.Kind.String(),
	}
	if t.Interpolation.IsAndBack() {
		td.Extras = []string{strconv.FormatFloat(t.Interpolation.K, 'g', -1, 64)}
	}
	return td
}

// Transition converts the wire shape into a lamp.Transition.
func (td TransitionData) Transition() (lamp.Transition, error) {
	kind, err := parseInterpolationKind(td.Interpolation)
	if err != nil {
		return lamp.Transition{}, err
	}
	ti := lamp.TransitionInterpolation{Kind: kind}
	if ti.IsAndBack() {
		if len(td.Extras) != 1 {
			return lamp.Transition{}, fmt.Errorf("httpd: %q interpolation needs exactly one extra", td.Interpolation)
		}
		k, err := strconv.ParseFloat(td.Extras[0], 64)
		if err != nil {
			return lamp.Transition{}, fmt.Errorf("httpd: extras[0] is not a number: %w", err)
		}
		ti.K = k
	}
	t := lamp.Transition{
		From:          lamp.NewStrengthClamped(td.From),
		To:            lamp.NewStrengthClamped(td.To),
		Duration:      time.Duration(td.Time * float64(time.Second)),
		Interpolation: ti,
	}
	if err := t.Validate(); err != nil {
		return lamp.Transition{}, err
	}
	return t, nil
}

func parseInterpolationKind(s string) (lamp.InterpolationKind, error) {
	switch s {
	case "linear":
		return lamp.Linear, nil
	case "sine":
		return lamp.Sine, nil
	case "linear-extra":
		return lamp.LinearAndBack, nil
	case "sine-extra":
		return lamp.SineAndBack, nil
	default:
		return 0, fmt.Errorf("httpd: unknown interpolation kind %q", s)
	}
}

// weekdaySlots pairs each Weekday with the WeekSchedulerData field that
// carries its optional "HH:MM:SS" string, in a fixed order.
func weekdaySlots(wsd *WeekSchedulerData) []struct {
	day Weekday
	ptr **string
} {
	return []struct {
		day Weekday
		ptr **string
	}{
		{lamp.Monday, &wsd.Mon},
		{lamp.Tuesday, &wsd.Tue},
		{lamp.Wednesday, &wsd.Wed},
		{lamp.Thursday, &wsd.Thu},
		{lamp.Friday, &wsd.Fri},
		{lamp.Saturday, &wsd.Sat},
		{lamp.Sunday, &wsd.Sun},
	}
}

// Weekday is a re-export convenience so this file reads naturally; the
// type itself lives in package lamp.
type Weekday = lamp.Weekday

// WeekSchedulerData is the wire shape of a lamp.WeekScheduler.
type WeekSchedulerData struct {
	Mon        *string        `json:"mon" yaml:"mon"`
	Tue        *string        `json:"tue" yaml:"tue"`
	Wed        *string        `json:"wed" yaml:"wed"`
	Thu        *string        `json:"thu" yaml:"thu"`
	Fri        *string        `json:"fri" yaml:"fri"`
	Sat        *string        `json:"sat" yaml:"sat"`
	Sun        *string        `json:"sun" yaml:"sun"`
	Transition TransitionData `json:"transition" yaml:"transition"`
}

// FromWeekScheduler builds the wire shape from a lamp.WeekScheduler.
func FromWeekScheduler(ws *lamp.WeekScheduler) WeekSchedulerData {
	wsd := WeekSchedulerData{Transition: FromTransition(ws.Transition)}
	for _, slot := range weekdaySlots(&wsd) {
		if t, ok := ws.Get(slot.day); ok {
			s := t.String()
			*slot.ptr = &s
		}
	}
	return wsd
}

// WeekScheduler converts the wire shape into a lamp.WeekScheduler.
func (wsd WeekSchedulerData) WeekScheduler() (*lamp.WeekScheduler, error) {
	transition, err := wsd.Transition.Transition()
	if err != nil {
		return nil, err
	}
	ws := lamp.NewWeekScheduler(transition)
	for _, slot := range weekdaySlots(&wsd) {
		if *slot.ptr == nil {
			continue
		}
		t, err := lamp.ParseTimeOfDay(**slot.ptr)
		if err != nil {
			return nil, err
		}
		ws.Set(slot.day, &t)
	}
	return ws, nil
}

// AddSchedulerData is the wire shape for PUT /add-scheduler. Kind is one
// of "at", "every-day", "every-week"; Extras holds a date (YYYY-MM-DD)
// for "at" and a weekday ("mon".."sun") for "every-week".
type AddSchedulerData struct {
	Kind        string         `json:"kind" yaml:"kind"`
	Time        string         `json:"time" yaml:"time"`
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	Extras      []string       `json:"extras" yaml:"extras"`
	Transition  TransitionData `json:"transition" yaml:"transition"`
}

// SchedulerSummary is one entry of GET /get-schedulers's JSON array.
type SchedulerSummary struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Kind           string `json:"kind"`
	NextOccurrence string `json:"next_occurrence"`
}

// StateSnapshot is the wire shape returned by GET /get-state.
type StateSnapshot struct {
	Strength   float64         `json:"strength"`
	Transition *TransitionData `json:"transition"`
}
