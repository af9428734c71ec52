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
	"context"
	"time"

	"github.com/purpleidea/lampd/lamp"
)

// DefaultSaveInterval is how often the background saver writes a snapshot.
const DefaultSaveInterval = 10 * time.Second

// RunSaver persists a Snapshot of box/registry to path every interval
// until ctx is cancelled, and once more on the way out so the last state
// before shutdown is captured. Read access goes through the same mutex
// HTTP readers use (box.Snapshot). Save failures are logged and never
// treated as fatal; the saver just retries on the next tick.
func RunSaver(ctx context.Context, path string, box *lamp.SharedStateBox, registry *SchedulerRegistry, interval time.Duration, logf func(string, ...interface{})) {
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}
	if interval <= 0 {
		interval = DefaultSaveInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	save := func() {
		snap := FromSharedState(box.Snapshot(), registry)
		if err := Save(path, snap); err != nil {
			logf("persist: save failed: %v", err)
		}
	}

	for {
		select {
		case <-ticker.C:
			save()
		case <-ctx.Done():
			save()
			return
		}
	}
}
