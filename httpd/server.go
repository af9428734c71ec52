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

package httpd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/purpleidea/lampd/lamp"
	"github.com/purpleidea/lampd/lamp/scheduler"
	"github.com/purpleidea/lampd/util"
)

// Enqueuer is the subset of lamp/controller.Controller the HTTP edge
// needs: push a Command, and read back a snapshot.
type Enqueuer interface {
	Enqueue(cmd lamp.Command)
	Snapshot() lamp.SharedState
}

// Server wraps a gin.Engine in gin.ReleaseMode (grounded in
// http_server_ui.go's gin.SetMode(gin.ReleaseMode)), exposing the daemon's
// HTTP control surface.
type Server struct {
	ctrl   Enqueuer
	logf   func(format string, v ...interface{})
	engine *gin.Engine
	srv    *http.Server

	// OnSchedulerChange, if set, is called whenever a scheduler is
	// added/replaced (data non-nil) or removed (data nil), so a caller can
	// keep a wire-form registry (persist.SchedulerRegistry) in sync
	// without this package knowing persistence exists.
	OnSchedulerChange func(name string, data *AddSchedulerData)

	// OnClearSchedulers, if set, is called whenever /clear-schedulers
	// runs, for the same reason as OnSchedulerChange.
	OnClearSchedulers func()
}

// New builds a Server listening on addr (e.g. ":8080").
func New(addr string, ctrl Enqueuer, logf func(string, ...interface{})) *Server {
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}
	gin.SetMode(gin.ReleaseMode)
	s := &Server{ctrl: ctrl, logf: logf}
	router := gin.New()
	router.Use(s.ginLogger(), gin.Recovery())
	s.registerRoutes(router)
	s.engine = router
	errLog := log.New(&util.LogWriter{Prefix: "httpd: ", Logf: logf}, "", 0)
	s.srv = &http.Server{Addr: addr, Handler: router, ErrorLog: errLog}
	return s
}

// ginLogger mirrors http_server_ui.go's ginLogger: one line per request
// through the injected Logf closure.
func (s *Server) ginLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		s.logf("httpd: %s %s %s (%d)", c.ClientIP(), c.Request.Method, c.Request.URL.Path, c.Writer.Status())
	}
}

// ListenAndServe blocks serving HTTP until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	case err := <-errCh:
		return err
	}
}

func (s *Server) registerRoutes(router *gin.Engine) {
	router.GET("/clear-schedulers", s.handleClearSchedulers)
	router.GET("/set-strength", s.handleSetStrength)
	router.PUT("/set-day-time", s.handleSetDayTime)
	router.PUT("/transition", s.handleTransition)
	router.PUT("/add-scheduler", s.handleAddScheduler)
	router.GET("/remove-scheduler", s.handleRemoveScheduler)
	router.PUT("/set-effect", s.handleSetEffect)
	router.GET("/get-state", s.handleGetState)
	router.GET("/get-schedulers", s.handleGetSchedulers)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func internalError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// bindJSON reads the request body into v. A failure to read the body
// itself (e.g. the client hung up mid-upload) answers 500, since that is
// a problem with the connection rather than with what the client sent;
// a failure to unmarshal the bytes that were read answers 400.
func bindJSON(c *gin.Context, v interface{}) bool {
	raw, err := c.GetRawData()
	if err != nil {
		internalError(c, err)
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		badRequest(c, err)
		return false
	}
	return true
}

func (s *Server) handleClearSchedulers(c *gin.Context) {
	s.ctrl.Enqueue(lamp.CommandClearAllSchedulers{})
	if s.OnClearSchedulers != nil {
		s.OnClearSchedulers()
	}
	c.Status(http.StatusOK)
}

func (s *Server) handleSetStrength(c *gin.Context) {
	raw, ok := c.GetQuery("strength")
	if !ok {
		badRequest(c, fmt.Errorf("missing strength query parameter"))
		return
	}
	var v float64
	if _, err := fmt.Sscanf(raw, "%g", &v); err != nil {
		badRequest(c, fmt.Errorf("strength is not a number: %w", err))
		return
	}
	s.ctrl.Enqueue(lamp.CommandSet{Strength: lamp.NewStrengthClamped(v)})
	c.Status(http.StatusOK)
}

func (s *Server) handleSetDayTime(c *gin.Context) {
	var body struct {
		Day  string  `json:"day"`
		Time *string `json:"time"`
	}
	if !bindJSON(c, &body) {
		return
	}
	day, err := lamp.ParseWeekday(body.Day)
	if err != nil {
		badRequest(c, err)
		return
	}
	var t *lamp.TimeOfDay
	if body.Time != nil {
		parsed, err := lamp.ParseTimeOfDay(*body.Time)
		if err != nil {
			badRequest(c, err)
			return
		}
		t = &parsed
	}
	s.ctrl.Enqueue(lamp.CommandChangeDayTimer{Day: day, Time: t})
	c.Status(http.StatusOK)
}

func (s *Server) handleTransition(c *gin.Context) {
	action := c.DefaultQuery("action", "preview")
	if action != "set" && action != "preview" {
		badRequest(c, fmt.Errorf("action must be \"set\" or \"preview\", got %q", action))
		return
	}
	var td TransitionData
	if !bindJSON(c, &td) {
		return
	}
	t, err := td.Transition()
	if err != nil {
		badRequest(c, err)
		return
	}
	if action == "set" {
		s.ctrl.Enqueue(lamp.CommandChangeDayTimerTransition{Transition: t})
	} else {
		s.ctrl.Enqueue(lamp.CommandSetTransition{Transition: t})
	}
	c.Status(http.StatusOK)
}

func (s *Server) handleAddScheduler(c *gin.Context) {
	var data AddSchedulerData
	if !bindJSON(c, &data) {
		return
	}
	sched, err := BuildScheduler(data, time.Now(), false)
	if err != nil {
		badRequest(c, err)
		return
	}
	s.ctrl.Enqueue(lamp.CommandAddReplaceScheduler{Name: data.Name, Scheduler: sched})
	if s.OnSchedulerChange != nil {
		s.OnSchedulerChange(data.Name, &data)
	}
	c.Status(http.StatusOK)
}

// BuildScheduler constructs the named Scheduler variant from its wire
// representation. allowPast permits a past "at" instant, reserved for
// replaying persisted schedulers at startup; the HTTP edge always passes
// false.
func BuildScheduler(data AddSchedulerData, now time.Time, allowPast bool) (lamp.Scheduler, error) {
	transition, err := data.Transition.Transition()
	if err != nil {
		return nil, err
	}
	cmd, err := lamp.NewCloneableCommand(lamp.CommandSetTransition{Transition: transition})
	if err != nil {
		return nil, err
	}

	switch data.Kind {
	case "at":
		if len(data.Extras) != 1 {
			return nil, fmt.Errorf("httpd: \"at\" scheduler needs a date extra (YYYY-MM-DD)")
		}
		tod, err := lamp.ParseTimeOfDay(data.Time)
		if err != nil {
			return nil, err
		}
		date, err := time.ParseInLocation("2006-01-02", data.Extras[0], now.Location())
		if err != nil {
			return nil, fmt.Errorf("httpd: bad date %q: %w", data.Extras[0], err)
		}
		instant := tod.AtDate(date)
		return scheduler.NewAt(data.Description, instant, cmd, allowPast, now)

	case "every-day":
		tod, err := lamp.ParseTimeOfDay(data.Time)
		if err != nil {
			return nil, err
		}
		return scheduler.NewEveryDay(data.Description, tod, cmd), nil

	case "every-week":
		if len(data.Extras) != 1 {
			return nil, fmt.Errorf("httpd: \"every-week\" scheduler needs a weekday extra")
		}
		tod, err := lamp.ParseTimeOfDay(data.Time)
		if err != nil {
			return nil, err
		}
		weekday, err := lamp.ParseWeekday(data.Extras[0])
		if err != nil {
			return nil, err
		}
		return scheduler.NewEveryWeek(data.Description, tod, weekday, cmd), nil

	default:
		return nil, fmt.Errorf("httpd: unknown scheduler kind %q", data.Kind)
	}
}

func (s *Server) handleRemoveScheduler(c *gin.Context) {
	name, ok := c.GetQuery("name")
	if !ok {
		badRequest(c, fmt.Errorf("missing name query parameter"))
		return
	}
	s.ctrl.Enqueue(lamp.CommandRemoveScheduler{Name: name})
	if s.OnSchedulerChange != nil {
		s.OnSchedulerChange(name, nil)
	}
	c.Status(http.StatusOK)
}

func (s *Server) handleSetEffect(c *gin.Context) {
	var body struct {
		Kind string    `json:"kind"`
		Nums []float64 `json:"nums"`
	}
	if !bindJSON(c, &body) {
		return
	}
	if body.Kind != "radar" {
		badRequest(c, fmt.Errorf("httpd: unknown effect kind %q", body.Kind))
		return
	}
	if len(body.Nums) != 2 {
		badRequest(c, fmt.Errorf("httpd: radar effect needs exactly two nums: [offset, speed]"))
		return
	}
	s.ctrl.Enqueue(lamp.CommandSetEffect{Effect: lamp.Radar{Offset: body.Nums[0], Speed: body.Nums[1]}})
	c.Status(http.StatusOK)
}

func (s *Server) handleGetState(c *gin.Context) {
	snap := s.ctrl.Snapshot()
	out := StateSnapshot{Strength: snap.Strength.Float64()}
	if snap.Transition != nil {
		td := FromTransition(*snap.Transition)
		out.Transition = &td
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetSchedulers(c *gin.Context) {
	snap := s.ctrl.Snapshot()
	now := time.Now()
	out := []SchedulerSummary{}

	if snap.WeekScheduler != nil {
		out = append(out, summarize("week", snap.WeekScheduler, now))
	}
	if snap.Schedulers != nil {
		snap.Schedulers.Range(func(name string, sch lamp.Scheduler) {
			out = append(out, summarize(name, sch, now))
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	c.JSON(http.StatusOK, out)
}

func summarize(name string, sch lamp.Scheduler, now time.Time) SchedulerSummary {
	sum := SchedulerSummary{
		Name:        name,
		Description: sch.Description(),
		Kind:        sch.Kind(),
	}
	next := sch.Next(now)
	if next.Kind != lamp.At {
		sum.NextOccurrence = "unknown"
		return sum
	}
	sum.NextOccurrence = formatOccurrence(now, next.Deadline)
	return sum
}

// formatOccurrence renders an absolute timestamp if the deadline is at
// least a day out, otherwise a coarse relative string.
func formatOccurrence(now, deadline time.Time) string {
	d := deadline.Sub(now)
	if d >= 24*time.Hour {
		return deadline.Format(time.RFC3339)
	}
	if d < 0 {
		d = 0
	}
	switch {
	case d >= time.Hour:
		return fmt.Sprintf("In %d hours", int(d/time.Hour))
	case d >= time.Minute:
		return fmt.Sprintf("In %d minutes", int(d/time.Minute))
	default:
		return fmt.Sprintf("In %d seconds", int(d/time.Second))
	}
}
