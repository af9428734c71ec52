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

// Package scheduler holds the concrete, named lamp.Scheduler variants: a
// one-shot At, and the repeating EveryDay/EveryWeek. The WeekScheduler
// variant lives in package lamp itself since it is embedded directly in
// lamp.SharedState rather than stored in a lamp.SchedulerMap.
package scheduler

import "github.com/purpleidea/lampd/lamp"

// common carries the description and the Command payload shared by every
// named scheduler variant. The payload is a lamp.CloneableCommand: its
// constructor already rejected the one non-cloneable Command
// (AddReplaceScheduler), so every variant here can stash and re-run it
// indefinitely without worrying about double ownership.
type common struct {
	description string
	payload     lamp.CloneableCommand
}

func (c common) Description() string {
	return c.description
}
