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

// Package persist reads and writes the daemon's snapshot file and watches
// it for out-of-band changes, grounded in root config.go's yaml.Unmarshal
// parsing and util/recwatch's Logf-configured fsnotify watcher idiom.
package persist

import (
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/purpleidea/lampd/httpd"
	"github.com/purpleidea/lampd/lamp"
)

// Snapshot is the text-serialised record of the daemon's persisted state:
// the current strength, the week scheduler, any named schedulers, and an
// in-flight transition.
type Snapshot struct {
	Strength          *float64                  `yaml:"strength"`
	Schedulers        []httpd.AddSchedulerData  `yaml:"schedulers"`
	WeekScheduler     httpd.WeekSchedulerData   `yaml:"week_scheduler"`
	CurrentTransition *httpd.TransitionData     `yaml:"current_transition"`
}

// Default returns the zero-value defaults used when no snapshot file
// exists yet, or when one fails to parse.
func Default() Snapshot {
	return Snapshot{
		WeekScheduler: httpd.FromWeekScheduler(lamp.NewWeekScheduler(lamp.DefaultTransition())),
	}
}

// Save marshals snap to path via yaml.Marshal.
func Save(path string, snap Snapshot) error {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads and parses path. This is best-effort: a missing file or a
// parse failure yields the defaults (plus a descriptive error the caller
// may log), never a hard failure.
func Load(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), err
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return Default(), err
	}
	if snap.WeekScheduler.Mon == nil && snap.WeekScheduler.Tue == nil && snap.WeekScheduler.Wed == nil &&
		snap.WeekScheduler.Thu == nil && snap.WeekScheduler.Fri == nil && snap.WeekScheduler.Sat == nil &&
		snap.WeekScheduler.Sun == nil && snap.WeekScheduler.Transition.Interpolation == "" {
		snap.WeekScheduler = Default().WeekScheduler
	}
	return snap, nil
}

// FromSharedState captures the parts of a live lamp.SharedState that are
// persisted. registry supplies the wire (AddSchedulerData) form of the
// named schedulers, since lamp.Scheduler itself exposes no wire
// representation — see SchedulerRegistry.
func FromSharedState(s lamp.SharedState, registry *SchedulerRegistry) Snapshot {
	snap := Snapshot{}
	strength := s.Strength.Float64()
	snap.Strength = &strength
	if s.WeekScheduler != nil {
		snap.WeekScheduler = httpd.FromWeekScheduler(s.WeekScheduler)
	}
	if s.Transition != nil {
		td := httpd.FromTransition(*s.Transition)
		snap.CurrentTransition = &td
	}
	if registry != nil {
		snap.Schedulers = registry.Snapshot()
	}
	return snap
}

// Replay reconstructs Commands to re-arm persisted schedulers at startup,
// passing allowPast=true so an "at" scheduler whose instant already
// elapsed while the daemon was down still fires once on restart.
func Replay(snap Snapshot, now time.Time) ([]lamp.Command, error) {
	var cmds []lamp.Command
	for _, data := range snap.Schedulers {
		sched, err := httpd.BuildScheduler(data, now, true)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, lamp.CommandAddReplaceScheduler{Name: data.Name, Scheduler: sched})
	}
	return cmds, nil
}
