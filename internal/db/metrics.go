package db

//
// metrics.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"runtime"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gitlab.com/kabes/go-pariwisata/internal/config"
)

type engineMetrics struct {
	sessionsOpened  prometheus.Counter
	sessionsActive  prometheus.Gauge
	sessionDuration prometheus.Histogram
	commits         prometheus.Counter
	rollbacks       prometheus.Counter
	queryDuration   *prometheus.HistogramVec
}

func newEngineMetrics(reg prometheus.Registerer, queryTime bool) *engineMetrics {
	factory := promauto.With(reg)

	metrics := &engineMetrics{
		sessionsOpened: factory.NewCounter(prometheus.CounterOpts{
			Name: "database_sessions_opened_total",
			Help: "Total number of database sessions created.",
		}),
		sessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "database_sessions_active",
			Help: "Number of database sessions not closed yet.",
		}),
		sessionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "database_session_duration_seconds",
			Help:    "Duration of database sessions from creation to close.",
			Buckets: prometheus.DefBuckets,
		}),
		commits: factory.NewCounter(prometheus.CounterOpts{
			Name: "database_commits_total",
			Help: "Total number of committed transactions.",
		}),
		rollbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "database_rollbacks_total",
			Help: "Total number of rolled back transactions.",
		}),
	}

	if queryTime {
		metrics.queryDuration = factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "database_query_duration_seconds",
				Help:    "Duration of database scopes by caller.",
				Buckets: []float64{0.1, 0.2, 0.5, 1, 2, 5},
			},
			[]string{"caller"},
		)
	}

	return metrics
}

func (m *engineMetrics) sessionOpened() {
	if m != nil {
		m.sessionsOpened.Inc()
		m.sessionsActive.Inc()
	}
}

func (m *engineMetrics) sessionClosed(started time.Time) {
	if m != nil {
		m.sessionsActive.Dec()
		m.sessionDuration.Observe(time.Since(started).Seconds())
	}
}

func (m *engineMetrics) committed() {
	if m != nil {
		m.commits.Inc()
	}
}

func (m *engineMetrics) rolledBack() {
	if m != nil {
		m.rollbacks.Inc()
	}
}

// RegisterMetrics register engine and connection pool metrics in `reg`.
// When `queryTime` is set, duration of each InSession/InTransaction call is
// recorded with caller name as label.
func (e *Engine) RegisterMetrics(reg prometheus.Registerer, queryTime bool) error {
	db := e.DB()
	if db == nil {
		return ErrEngineClosed
	}

	if err := reg.Register(collectors.NewDBStatsCollector(db.DB, config.AppName)); err != nil {
		return err //nolint:wrapcheck
	}

	e.metrics.Store(newEngineMetrics(reg, queryTime))

	return nil
}

// queryTimer start measuring duration of InSession/InTransaction call; returned
// function record it. Caller name is resolved when timer is started, so the
// label is the same when scope is left by panic.
func (e *Engine) queryTimer() func() {
	metrics := e.metrics.Load()
	if metrics == nil || metrics.queryDuration == nil {
		return func() {}
	}

	start := time.Now()
	// skip runtime.Callers, queryTimer and the scope function
	caller := callerName(3) //nolint:mnd

	return func() {
		metrics.queryDuration.WithLabelValues(caller).Observe(time.Since(start).Seconds())
	}
}

func callerName(skip int) string {
	pc := make([]uintptr, 1)
	if runtime.Callers(skip, pc) < 1 {
		return "unknown"
	}

	frame, _ := runtime.CallersFrames(pc).Next()

	caller := frame.Function
	if idx := strings.LastIndex(caller, "/"); idx >= 0 {
		caller = caller[idx+1:]
	}

	return caller
}
