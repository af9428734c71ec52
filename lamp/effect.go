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

import "math"

// Effect is a continuously-evaluated override of Strength, installed by
// SetEffect and cleared by any Set command.
type Effect interface {
	// Evaluate computes the Strength at unix-epoch-seconds t.
	Evaluate(t float64) Strength
	// Kind names the effect for logging/serialisation.
	Kind() string
}

// Radar is a periodic cubic-falling pulse of period Speed seconds,
// phase-shifted by Offset.
type Radar struct {
	Offset float64
	Speed  float64
}

// Kind implements Effect.
func (r Radar) Kind() string { return "radar" }

// Evaluate implements Effect. u = 1 - frac((t-offset)/speed); output is
// clamp(u^3). The source sometimes skips the clamp here; this
// implementation always clamps per the design notes.
func (r Radar) Evaluate(t float64) Strength {
	speed := r.Speed
	if speed == 0 {
		speed = 1
	}
	x := (t - r.Offset) / speed
	u := 1 - frac(x)
	return NewStrengthClamped(u * u * u)
}

// frac returns the fractional part of x, always in [0, 1) even for
// negative x (unlike math.Mod, which can return a negative remainder).
func frac(x float64) float64 {
	f := x - math.Floor(x)
	return f
}
