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

// Command lampviz is a standalone demo binary: it builds a real lamp
// Controller, wires it to a terminal Output, and feeds it a looping
// sine-style Transition, so the bubbletea display is continuously
// updating with no daemon or HTTP edge required.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/purpleidea/lampd/lamp"
	"github.com/purpleidea/lampd/lamp/controller"
	"github.com/purpleidea/lampd/lamp/state"
	"github.com/purpleidea/lampd/lampviz"
)

func main() {
	out := lampviz.New()
	if err := out.Prepare(); err != nil {
		fmt.Fprintln(os.Stderr, "lampviz:", err)
		os.Exit(1)
	}

	now := time.Now()
	initial := lamp.SharedState{
		Strength:      lamp.NewStrengthClamped(0),
		WeekScheduler: lamp.NewWeekScheduler(lamp.DefaultTransition()),
		Schedulers:    lamp.NewSchedulerMap(),
	}
	core := state.NewControllerCore(initial, now)

	box := lamp.NewSharedStateBox(initial)
	logf := func(format string, v ...interface{}) {
		log.Printf("lampviz: "+format, v...)
	}
	ctrl := controller.New(core, out, box, controller.TransitionTick, logf)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		cancel()
	}()

	go demo(ctrl)

	ctrl.Run(ctx)
	out.Wait()
}

// demo repeatedly sets an and-back sine Transition so the display never
// stops moving, restarting it as soon as the previous one finishes.
func demo(ctrl *controller.Controller) {
	transition := lamp.Transition{
		From:     lamp.NewStrengthClamped(0),
		To:       lamp.NewStrengthClamped(1),
		Duration: 6 * time.Second,
		Interpolation: lamp.TransitionInterpolation{
			Kind: lamp.SineAndBack,
			K:    1,
		},
	}
	if err := transition.Validate(); err != nil {
		log.Printf("lampviz: demo: %v", err)
		return
	}
	for {
		ctrl.Enqueue(lamp.CommandSetTransition{Transition: transition})
		time.Sleep(12 * time.Second)
	}
}
