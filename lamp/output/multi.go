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

import (
	"github.com/hashicorp/go-multierror"

	"github.com/purpleidea/lampd/lamp"
)

// Multi fans every call out to each of Outputs in order, the way
// io.MultiWriter fans a Write out to several io.Writers. It is how the
// daemon mirrors the real device onto an optional lampviz terminal
// display without the Controller knowing more than one Output exists.
type Multi struct {
	Outputs []Output
}

var _ Output = (*Multi)(nil)

func (m *Multi) Prepare() error {
	var result error
	for _, o := range m.Outputs {
		if err := o.Prepare(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result
}

func (m *Multi) Enable() error {
	var result error
	for _, o := range m.Outputs {
		if err := o.Enable(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result
}

func (m *Multi) Disable() error {
	var result error
	for _, o := range m.Outputs {
		if err := o.Disable(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result
}

func (m *Multi) Set(s lamp.Strength) error {
	var result error
	for _, o := range m.Outputs {
		if err := o.Set(s); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result
}
