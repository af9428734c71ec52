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
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	cliUtil "github.com/purpleidea/lampd/cli/util"
	"github.com/purpleidea/lampd/httpd"
	"github.com/purpleidea/lampd/lamp"
	"github.com/purpleidea/lampd/lamp/controller"
	"github.com/purpleidea/lampd/lamp/output"
	"github.com/purpleidea/lampd/lamp/state"
	"github.com/purpleidea/lampd/lampviz"
	"github.com/purpleidea/lampd/metrics"
	"github.com/purpleidea/lampd/persist"
	"github.com/purpleidea/lampd/util"
	"github.com/purpleidea/lampd/util/errwrap"
	"github.com/purpleidea/lampd/wifi"
)

// Run wires up and runs the daemon: it builds the initial SharedState, the
// ControllerCore and Controller, the chosen Output adapter, the httpd
// control surface, persistence, metrics, and (optionally) wifi bring-up and
// the terminal visualizer mirror, the way RunArgs.Run used to build and run
// a lib.Main.
func Run(ctx context.Context, args *Args, data *cliUtil.Data) error {
	cliUtil.Hello(data.Program, data.Version, cliUtil.Flags{Debug: args.Debug, Verbose: args.Verbose})
	Logf := func(format string, v ...interface{}) {
		log.Printf("main: "+format, v...)
	}
	defer Logf("goodbye!")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if args.Wifi {
		if err := bringUpWifi(ctx, args, Logf); err != nil {
			return errwrap.Wrapf(err, "wifi bring-up failed")
		}
	}

	now := time.Now()
	if err := os.MkdirAll(filepath.Dir(args.StateFile), 0o755); err != nil {
		Logf("could not create state directory: %v", err)
	}
	snap, err := persist.Load(args.StateFile)
	if err != nil {
		Logf("persist: load: %v (using defaults)", err)
	}

	initial, registry, err := buildInitialState(snap, now)
	if err != nil {
		return errwrap.Wrapf(err, "could not build initial state")
	}

	box := lamp.NewSharedStateBox(initial)
	core := state.NewControllerCore(initial, now)

	out, err := buildOutput(args, Logf)
	if err != nil {
		return errwrap.Wrapf(err, "could not build output adapter")
	}
	if args.Viz {
		// lampviz.Output.Prepare starts the bubbletea program; folding it
		// into out means the Controller's own Prepare call is what
		// starts it, instead of racing a second start here.
		viz := lampviz.New()
		out = &output.Multi{Outputs: []output.Output{out, viz}}
		// quitting the visualizer ('q') shuts the whole daemon down too
		ctx, cancel = util.ContextWithCloser(ctx, viz.Done())
		defer cancel()
	}

	ctrl := controller.New(core, out, box, controller.TransitionTick, func(format string, v ...interface{}) {
		Logf("controller: "+format, v...)
	})

	replay, err := persist.Replay(snap, now)
	if err != nil {
		Logf("persist: replay: %v", err)
	}
	for _, cmd := range replay {
		ctrl.Enqueue(cmd)
	}

	var m *metrics.Metrics
	if args.Prometheus {
		m = &metrics.Metrics{Listen: args.PrometheusListen}
		if err := m.Init(); err != nil {
			return errwrap.Wrapf(err, "metrics init failed")
		}
		if err := m.Start(); err != nil {
			return errwrap.Wrapf(err, "metrics start failed")
		}
		defer m.Stop()
		ctrl.Metrics = m
	}

	srv := httpd.New(portAddr(args.Port), ctrl, func(format string, v ...interface{}) {
		Logf("httpd: "+format, v...)
	})
	srv.OnSchedulerChange = func(name string, data *httpd.AddSchedulerData) {
		if data == nil {
			registry.Remove(name)
			return
		}
		registry.AddReplace(name, *data)
	}
	srv.OnClearSchedulers = registry.Clear

	watcher, err := persist.NewWatcher(args.StateFile, func(format string, v ...interface{}) {
		Logf("persist: "+format, v...)
	})
	if err != nil {
		Logf("persist: watcher: %v", err)
	} else {
		defer watcher.Close()
		go watchForExternalChanges(ctx, watcher, ctrl)
	}

	go persist.RunSaver(ctx, args.StateFile, box, registry, persist.DefaultSaveInterval, func(format string, v ...interface{}) {
		Logf("persist: "+format, v...)
	})

	installSignalHandler(cancel)

	wg := &sync.WaitGroup{}
	ctx = util.CtxWithWg(ctx, wg)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.ListenAndServe(ctx); err != nil {
			Logf("httpd: %v", err)
		}
	}()

	ctrl.Run(ctx) // blocks until ctx is cancelled and the core drains out
	util.WgFromCtx(ctx).Wait()

	return nil
}

// buildInitialState reconstructs a SharedState and its matching
// persist.SchedulerRegistry from a loaded Snapshot.
func buildInitialState(snap persist.Snapshot, now time.Time) (lamp.SharedState, *persist.SchedulerRegistry, error) {
	ws, err := snap.WeekScheduler.WeekScheduler()
	if err != nil {
		return lamp.SharedState{}, nil, err
	}

	schedulers := lamp.NewSchedulerMap()
	registry := persist.NewSchedulerRegistry()
	for _, data := range snap.Schedulers {
		sched, err := httpd.BuildScheduler(data, now, true)
		if err != nil {
			return lamp.SharedState{}, nil, err
		}
		schedulers.AddReplace(data.Name, sched)
		registry.AddReplace(data.Name, data)
	}

	strength := lamp.NewStrengthClamped(0)
	if snap.Strength != nil {
		strength = lamp.NewStrengthClamped(*snap.Strength)
	}

	state := lamp.SharedState{
		Strength:      strength,
		WeekScheduler: ws,
		Schedulers:    schedulers,
	}
	if snap.CurrentTransition != nil {
		t, err := snap.CurrentTransition.Transition()
		if err != nil {
			return lamp.SharedState{}, nil, err
		}
		state.Transition = &t
	}
	return state, registry, nil
}

// buildOutput selects the concrete Output adapter named by --output.
func buildOutput(args *Args, logf func(string, ...interface{})) (output.Output, error) {
	switch args.Output {
	case "", "logging":
		return &output.Logging{Logf: func(format string, v ...interface{}) {
			logf("output: "+format, v...)
		}}, nil
	case "null":
		return &output.Null{}, nil
	default:
		return nil, fmt.Errorf("unknown output adapter %q", args.Output)
	}
}

func bringUpWifi(ctx context.Context, args *Args, logf func(string, ...interface{})) error {
	known, err := readWifiFile(args.WifiFile)
	if err != nil {
		return err
	}
	blink := &output.Logging{Logf: func(format string, v ...interface{}) {
		logf("wifi: "+format, v...)
	}}
	return wifi.Bringup(ctx, known, func(ctx context.Context, ssid, pass string) error {
		// the real connection mechanism is platform-specific and out of
		// scope; this is a best-effort stand-in.
		return nil
	}, blink)
}

func readWifiFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	known := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		ssid, pass, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		known[ssid] = pass
	}
	return known, nil
}

func portAddr(port int) string {
	if port <= 0 {
		port = 8080
	}
	return ":" + strconv.Itoa(port)
}

// watchForExternalChanges re-plans the Controller whenever the snapshot
// file is rewritten out-of-band, e.g. after a time-zone change, by
// enqueuing an UpdateWake so the core re-plans.
func watchForExternalChanges(ctx context.Context, w *persist.Watcher, ctrl *controller.Controller) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-w.Events:
			if !ok {
				return
			}
			ctrl.Enqueue(lamp.CommandUpdateWake{})
		}
	}
}

// installSignalHandler implements the staged ^C escalation of cli/run.go:
// the first ^C (or SIGTERM) asks for a graceful shutdown by cancelling ctx;
// a second ^C (or SIGTERM) gives up waiting and force-exits the process.
func installSignalHandler(cancel context.CancelFunc) {
	signals := make(chan os.Signal, 3+1) // 3 * ^C + 1 * SIGTERM
	signal.Notify(signals, os.Interrupt)
	signal.Notify(signals, syscall.SIGTERM)
	go func() {
		var count uint8
		for sig := range signals {
			name := "^C"
			if sig != os.Interrupt {
				name = "signal"
			}
			switch count {
			case 0:
				log.Printf("interrupted by %s", name)
				cancel()
			default:
				log.Printf("interrupted by %s (hard interrupt)", name)
				os.Exit(1)
			}
			count++
		}
	}()
}
