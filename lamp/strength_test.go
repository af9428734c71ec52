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

import "testing"

func TestNewStrength(t *testing.T) {
	tests := []struct {
		name    string
		v       float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"one", 1, false},
		{"mid", 0.5, false},
		{"below", -0.01, true},
		{"above", 1.01, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewStrength(tt.v)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewStrength(%v) error = %v, wantErr %v", tt.v, err, tt.wantErr)
			}
			if !tt.wantErr && s.Float64() != tt.v {
				t.Fatalf("NewStrength(%v).Float64() = %v", tt.v, s.Float64())
			}
		})
	}
}

func TestNewStrengthClamped(t *testing.T) {
	tests := []struct {
		v    float64
		want float64
	}{
		{-5, 0},
		{0, 0},
		{0.3, 0.3},
		{1, 1},
		{5, 1},
	}
	for _, tt := range tests {
		if got := NewStrengthClamped(tt.v).Float64(); got != tt.want {
			t.Errorf("NewStrengthClamped(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestStrengthString(t *testing.T) {
	s := NewStrengthClamped(0.5)
	if got := s.String(); got != "0.5000" {
		t.Errorf("String() = %q, want %q", got, "0.5000")
	}
}

func TestRemap(t *testing.T) {
	from := NewStrengthClamped(0)
	to := NewStrengthClamped(1)
	if got := remap(0.5, from, to); got != 0.5 {
		t.Errorf("remap(0.5, 0, 1) = %v, want 0.5", got)
	}
	// reversed range is allowed
	if got := remap(0.5, to, from); got != 0.5 {
		t.Errorf("remap(0.5, 1, 0) = %v, want 0.5", got)
	}
	if got := remap(0, from, to); got != 0 {
		t.Errorf("remap(0, 0, 1) = %v, want 0", got)
	}
	if got := remap(1, from, to); got != 1 {
		t.Errorf("remap(1, 0, 1) = %v, want 1", got)
	}
}
