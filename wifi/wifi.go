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

// Package wifi brings up a network connection before the rest of the
// daemon starts: try each known SSID in turn, backing off exponentially
// between full passes, blinking an output so a human nearby can tell it's
// still trying.
package wifi

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/purpleidea/lampd/lamp"
	"github.com/purpleidea/lampd/lamp/output"
)

// Connect attempts one connection to an SSID/password pair. Callers
// supply the platform-specific implementation (wpa_supplicant,
// NetworkManager, or similar); wifi itself knows nothing about how a
// connection is actually made.
type Connect func(ctx context.Context, ssid, pass string) error

// BlinkPeriod is how often Bringup toggles the status output while
// waiting between attempts.
const BlinkPeriod = 500 * time.Millisecond

// Bringup tries every entry in known, in sorted SSID order, calling
// connect for each. On success it returns nil immediately. If every
// SSID in a pass fails, it waits on an ExponentialBackOff (with no
// elapsed-time cap, since there is nothing better to do than keep
// trying) before the next pass, blinking out a status on out while it
// waits. Bringup gives up only when ctx is cancelled.
func Bringup(ctx context.Context, known map[string]string, connect Connect, out output.Output) error {
	if len(known) == 0 {
		return fmt.Errorf("wifi: no known networks configured")
	}
	ssids := make([]string, 0, len(known))
	for ssid := range known {
		ssids = append(ssids, ssid)
	}
	sort.Strings(ssids)

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 0

	for {
		for _, ssid := range ssids {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := connect(ctx, ssid, known[ssid]); err == nil {
				bo.Reset()
				return nil
			}
		}

		wait := bo.NextBackOff()
		if err := blinkWait(ctx, wait, out); err != nil {
			return err
		}
	}
}

// blinkWait switches out to full strength at once, then toggles it
// between zero and full strength every BlinkPeriod until wait has elapsed
// or ctx is cancelled.
func blinkWait(ctx context.Context, wait time.Duration, out output.Output) error {
	deadline := time.After(wait)
	ticker := time.NewTicker(BlinkPeriod)
	defer ticker.Stop()

	on := false
	if out != nil {
		on = true
		_ = out.Set(lamp.NewStrengthClamped(1))
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			return nil
		case <-ticker.C:
			if out == nil {
				continue
			}
			on = !on
			if on {
				_ = out.Set(lamp.NewStrengthClamped(1))
			} else {
				_ = out.Set(lamp.NewStrengthClamped(0))
			}
		}
	}
}
