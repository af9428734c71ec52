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

package output

import "github.com/purpleidea/lampd/lamp"

// Null discards every write. Used by tests and by the daemon when no
// hardware adapter is configured.
type Null struct {
	Last lamp.Strength
}

var _ Output = (*Null)(nil)

// Prepare implements Output.
func (n *Null) Prepare() error { return nil }

// Enable implements Output.
func (n *Null) Enable() error { return nil }

// Disable implements Output.
func (n *Null) Disable() error { return nil }

// Set implements Output.
func (n *Null) Set(s lamp.Strength) error {
	n.Last = s
	return nil
}
