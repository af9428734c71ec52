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

// Package output holds the Output capability interface the Controller
// drives, and a couple of concrete adapters. The shape is narrowed from
// engine.Res's Init/Close/CheckApply capability interface to the four
// calls a PWM lamp actually needs.
package output

import "github.com/purpleidea/lampd/lamp"

// Output is the capability set a lamp driver exposes to the Controller.
// Contract:
//   - Prepare is called once before the first Set.
//   - Enable is called before the first Set in a run of non-zero values.
//   - Disable is called when the controller decides to idle, after a run
//     ending in zero.
//   - Set must be safe to call at 10ms cadence; it may block briefly.
//
// The Controller treats Set as infallible from its perspective: device
// failures are the adapter's problem to log, retry, or panic on.
type Output interface {
	Prepare() error
	Enable() error
	Disable() error
	Set(s lamp.Strength) error
}
