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

// Package lamp contains the core data model for the scheduled PWM lamp
// controller: the Strength and Transition types, the Command protocol that
// crosses into the Controller, and the Effect overrides.
package lamp

import "fmt"

// Strength is a clamped intensity value. It must always satisfy 0 <= v <= 1.
type Strength struct {
	value float64
}

// NewStrength builds a Strength from a float. It errors if the value is
// outside of [0, 1].
func NewStrength(v float64) (Strength, error) {
	if v < 0 || v > 1 {
		return Strength{}, fmt.Errorf("lamp: strength %v is out of the [0, 1] range", v)
	}
	return Strength{value: v}, nil
}

// NewStrengthClamped builds a Strength, saturating any out-of-range input
// into [0, 1] instead of erroring.
func NewStrengthClamped(v float64) Strength {
	return Strength{value: clamp01(v)}
}

// Float64 returns the underlying value.
func (s Strength) Float64() float64 {
	return s.value
}

// String implements fmt.Stringer.
func (s Strength) String() string {
	return fmt.Sprintf("%.4f", s.value)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// remap maps a zero-to-one progress value onto the [from, to] range. from may
// be greater than to; this does not require monotonicity.
func remap(u float64, from, to Strength) float64 {
	return u*(to.value-from.value) + from.value
}
