// Mgmt
// Copyright (C) 2013-2024+ James Shubin and the project contributors
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
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package util

import (
	"fmt"
	"strings"
	"testing"
)

func TestErrorImplementsError(t *testing.T) {
	var err error = MissingEquals
	if err.Error() != string(MissingEquals) {
		t.Errorf("Error() = %q, want %q", err.Error(), string(MissingEquals))
	}
}

func TestCliParseError(t *testing.T) {
	wrapped := CliParseError(fmt.Errorf("bad flag"))
	if wrapped == nil {
		t.Fatal("CliParseError should never return nil for a non-nil input")
	}
	if !strings.Contains(wrapped.Error(), "cli parse error") {
		t.Errorf("error = %v, want it to mention \"cli parse error\"", wrapped)
	}
	if !strings.Contains(wrapped.Error(), "bad flag") {
		t.Errorf("error = %v, want the original error preserved", wrapped)
	}
}

func TestCliParseErrorNil(t *testing.T) {
	if err := CliParseError(nil); err != nil {
		t.Errorf("CliParseError(nil) = %v, want nil", err)
	}
}

func TestSafeProgram(t *testing.T) {
	cases := []struct{ in, want string }{
		{"lampd", "lampd"},
		{"lampd sub", "lampd"},
		{"", ""},
	}
	for _, c := range cases {
		if got := SafeProgram(c.in); got != c.want {
			t.Errorf("SafeProgram(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
