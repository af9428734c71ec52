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

import "time"

// TransitionState is a live, ticking rendering of a Transition. Progress is
// monotonically non-decreasing and is driven off measured wall-time deltas
// rather than tick counts, so tick jitter never accumulates drift in the
// rendered curve.
type TransitionState struct {
	transition Transition
	progress   float64
}

// NewTransitionState starts a fresh rendering of a Transition at progress 0.
func NewTransitionState(t Transition) *TransitionState {
	return &TransitionState{transition: t}
}

// Transition returns the underlying Transition being rendered.
func (ts *TransitionState) Transition() Transition {
	return ts.transition
}

// Progress returns the current progress value.
func (ts *TransitionState) Progress() float64 {
	return ts.progress
}

// Finished reports whether this TransitionState has rendered through its
// full curve, including any and-back return leg.
func (ts *TransitionState) Finished() bool {
	return ts.progress >= ts.transition.Interpolation.maxProgress()
}

// Tick advances progress by delta and returns the resulting Strength and
// whether the transition finished on this tick. A zero-duration transition
// always finishes on the first tick, landing exactly on To.
func (ts *TransitionState) Tick(delta time.Duration) (Strength, bool) {
	if ts.transition.Duration <= 0 {
		ts.progress = ts.transition.Interpolation.maxProgress()
		return ts.transition.To, true
	}

	ts.progress += delta.Seconds() / ts.transition.Duration.Seconds()

	max := ts.transition.Interpolation.maxProgress()
	if ts.progress >= max {
		ts.progress = max
		final := remap(ts.transition.Interpolation.evaluate(max), ts.transition.From, ts.transition.To)
		return NewStrengthClamped(final), true
	}

	u := ts.transition.Interpolation.evaluate(ts.progress)
	return NewStrengthClamped(remap(u, ts.transition.From, ts.transition.To)), false
}
