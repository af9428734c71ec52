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

// Logging logs every call through an injected Logf closure, grounded in
// the original demo adapter's behaviour (print the strength on every
// write) and in this codebase's ambient Logf-closure logging convention.
type Logging struct {
	Logf func(format string, v ...interface{})
}

var _ Output = (*Logging)(nil)

// Prepare implements Output.
func (l *Logging) Prepare() error {
	l.logf("prepare")
	return nil
}

// Enable implements Output.
func (l *Logging) Enable() error {
	l.logf("enable")
	return nil
}

// Disable implements Output.
func (l *Logging) Disable() error {
	l.logf("disable")
	return nil
}

// Set implements Output.
func (l *Logging) Set(s lamp.Strength) error {
	l.logf("set: %s", s)
	return nil
}

func (l *Logging) logf(format string, v ...interface{}) {
	if l.Logf != nil {
		l.Logf(format, v...)
	}
}
