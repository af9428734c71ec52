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

package persist

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/purpleidea/lampd/httpd"
	"github.com/purpleidea/lampd/lamp"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.yaml")

	strength := 0.66
	snap := Snapshot{
		Strength:      &strength,
		WeekScheduler: Default().WeekScheduler,
		Schedulers: []httpd.AddSchedulerData{
			{Kind: "every-day", Name: "morning", Time: "07:00:00",
				Transition: httpd.TransitionData{Interpolation: "linear"}},
		},
	}

	if err := Save(path, snap); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Strength == nil || *got.Strength != 0.66 {
		t.Errorf("Strength = %v, want 0.66", got.Strength)
	}
	if len(got.Schedulers) != 1 || got.Schedulers[0].Name != "morning" {
		t.Errorf("Schedulers = %+v", got.Schedulers)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.yaml")
	got, err := Load(path)
	if err == nil {
		t.Error("expected an error describing the missing file")
	}
	want := Default()
	if got.Strength != nil {
		t.Errorf("Strength = %v, want nil default", got.Strength)
	}
	if got.WeekScheduler.Transition.Interpolation != want.WeekScheduler.Transition.Interpolation {
		t.Errorf("WeekScheduler defaults not applied: %+v", got.WeekScheduler)
	}
}

func TestLoadCorruptFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corrupt.yaml")
	if err := os.WriteFile(path, []byte("not: [valid: yaml"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Error("expected a parse error for corrupt yaml")
	}
}

func TestLoadEmptyWeekSchedulerFillsDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.yaml")
	if err := Save(path, Snapshot{}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default().WeekScheduler.Transition.Interpolation
	if got.WeekScheduler.Transition.Interpolation != want {
		t.Errorf("expected an all-empty week_scheduler to be replaced with defaults, got %+v", got.WeekScheduler)
	}
}

func TestFromSharedStateCapturesRegistry(t *testing.T) {
	registry := NewSchedulerRegistry()
	registry.AddReplace("morning", httpd.AddSchedulerData{Name: "morning", Kind: "every-day"})

	state := lamp.SharedState{Strength: lamp.NewStrengthClamped(0.3)}
	snap := FromSharedState(state, registry)
	if snap.Strength == nil || *snap.Strength != 0.3 {
		t.Errorf("Strength = %v, want 0.3", snap.Strength)
	}
	if len(snap.Schedulers) != 1 || snap.Schedulers[0].Name != "morning" {
		t.Errorf("Schedulers = %+v", snap.Schedulers)
	}
}

func TestReplayBuildsAddReplaceCommands(t *testing.T) {
	now := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Schedulers: []httpd.AddSchedulerData{
			{Kind: "every-day", Name: "morning", Time: "07:00:00",
				Transition: httpd.TransitionData{Interpolation: "linear"}},
			{Kind: "at", Name: "once", Time: "07:00:00", Extras: []string{"2020-01-01"},
				Transition: httpd.TransitionData{Interpolation: "linear"}},
		},
	}
	cmds, err := Replay(snap, now)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if len(cmds) != 2 {
		t.Fatalf("got %d commands, want 2", len(cmds))
	}
	for i, c := range cmds {
		add, ok := c.(lamp.CommandAddReplaceScheduler)
		if !ok {
			t.Fatalf("cmds[%d] = %+v, want CommandAddReplaceScheduler", i, c)
		}
		if add.Name != snap.Schedulers[i].Name {
			t.Errorf("cmds[%d].Name = %q, want %q", i, add.Name, snap.Schedulers[i].Name)
		}
	}
}

func TestReplayAllowsPastAtInstant(t *testing.T) {
	now := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Schedulers: []httpd.AddSchedulerData{
			{Kind: "at", Name: "stale", Time: "07:00:00", Extras: []string{"2020-01-01"},
				Transition: httpd.TransitionData{Interpolation: "linear"}},
		},
	}
	if _, err := Replay(snap, now); err != nil {
		t.Errorf("Replay should allow a past \"at\" instant, got: %v", err)
	}
}
