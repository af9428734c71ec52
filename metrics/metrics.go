// Mgmt
// Copyright (C) James Shubin and the project contributors
// Written by James Shubin <james@shubin.ca> and the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package metrics provides the daemon's Prometheus instrumentation. It is
// adapted from the engine's standalone prometheus.Prometheus struct,
// narrowed to the counters and gauges a single lamp Controller can
// usefully emit, since there is no managed-resource graph here to report
// on.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultListen is registered in
// https://github.com/prometheus/prometheus/wiki/Default-port-allocations
const DefaultListen = "127.0.0.1:9233"

// Metrics holds the daemon's Prometheus collectors. Run Init() before use.
type Metrics struct {
	Listen string // the listen specification for the metrics http server

	commandsTotal        *prometheus.CounterVec // lampd_commands_total{kind}
	transitionsFinished  prometheus.Counter     // lampd_transitions_finished_total
	schedulerFiresTotal  *prometheus.CounterVec // lampd_scheduler_fires_total{name}
	strengthCurrent      prometheus.Gauge       // lampd_strength_current

	srv *http.Server
}

// Init registers the collectors. Panics via prometheus.MustRegister on a
// duplicate registration, matching the engine's own Init().
func (m *Metrics) Init() error {
	if m.Listen == "" {
		m.Listen = DefaultListen
	}

	m.commandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lampd_commands_total",
			Help: "Number of Commands processed, by kind.",
		},
		[]string{"kind"},
	)
	prometheus.MustRegister(m.commandsTotal)

	m.transitionsFinished = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lampd_transitions_finished_total",
			Help: "Number of TransitionStates that reached Finished.",
		},
	)
	prometheus.MustRegister(m.transitionsFinished)

	m.schedulerFiresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lampd_scheduler_fires_total",
			Help: "Number of times a named Scheduler has fired.",
		},
		[]string{"name"},
	)
	prometheus.MustRegister(m.schedulerFiresTotal)

	m.strengthCurrent = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "lampd_strength_current",
			Help: "The last Strength value pushed to the output.",
		},
	)
	prometheus.MustRegister(m.strengthCurrent)

	return nil
}

// Start runs the metrics http server in a goroutine.
func (m *Metrics) Start() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	m.srv = &http.Server{Addr: m.Listen, Handler: mux}
	go m.srv.ListenAndServe()
	return nil
}

// Stop shuts the metrics http server down gracefully.
func (m *Metrics) Stop() error {
	if m.srv == nil {
		return nil
	}
	return m.srv.Shutdown(context.Background())
}

// CommandProcessed increments the per-kind command counter.
func (m *Metrics) CommandProcessed(kind string) {
	m.commandsTotal.With(prometheus.Labels{"kind": kind}).Inc()
}

// TransitionFinished increments the finished-transition counter.
func (m *Metrics) TransitionFinished() {
	m.transitionsFinished.Inc()
}

// SchedulerFired increments the per-name scheduler fire counter.
func (m *Metrics) SchedulerFired(name string) {
	m.schedulerFiresTotal.With(prometheus.Labels{"name": name}).Inc()
}

// SetStrength records the last Strength value pushed to the output.
func (m *Metrics) SetStrength(v float64) {
	m.strengthCurrent.Set(v)
}
