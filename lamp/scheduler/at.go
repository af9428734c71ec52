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
	"fmt"
	"time"

	"github.com/purpleidea/lampd/lamp"
)

// At is a one-shot scheduler: it fires its Command once at Instant and is
// then removed.
type At struct {
	common
	instant time.Time
}

var _ lamp.Scheduler = (*At)(nil)

// NewAt builds a one-shot scheduler. Creation rejects an instant in the
// past unless allowPast is set — allowPast exists only for replaying
// persisted schedulers at startup, so one that elapsed while the daemon
// was down still fires once instead of being rejected.
func NewAt(description string, instant time.Time, payload lamp.CloneableCommand, allowPast bool, now time.Time) (*At, error) {
	if !allowPast && instant.Before(now) {
		return nil, fmt.Errorf("lamp/scheduler: at-scheduler instant %s is in the past", instant)
	}
	return &At{
		common:  common{description: description, payload: payload},
		instant: instant,
	}, nil
}

// Kind implements lamp.Scheduler.
func (a *At) Kind() string { return "at" }

// Next implements lamp.Scheduler: always fires at the fixed instant, until
// it is removed after firing.
func (a *At) Next(now time.Time) lamp.NextFire {
	return lamp.NextAt(a.instant, a.payload.Command())
}

// Advance implements lamp.Scheduler: one-shot schedulers are always
// removed after firing.
func (a *At) Advance(now time.Time) lamp.AdvanceResult {
	return lamp.Remove
}
