package server

//
// instrumentation.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/do/v2"
)

//nolint:gochecknoglobals
var defaultBuckets = []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5}

type promMiddleware struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	responseSize    *prometheus.SummaryVec
	inFlight        prometheus.Gauge
}

func (m *promMiddleware) handler(next http.Handler) http.Handler {
	base := promhttp.InstrumentHandlerInFlight(m.inFlight, next)
	base = promhttp.InstrumentHandlerResponseSize(m.responseSize, base)
	base = promhttp.InstrumentHandlerDuration(m.requestDuration, base)
	base = promhttp.InstrumentHandlerCounter(m.requestsTotal, base)

	return base
}

// newPromMiddleware create middleware that collect http metrics labeled with `handler`=name.
func newPromMiddleware(reg prometheus.Registerer, name string) func(http.Handler) http.Handler {
	reg = prometheus.WrapRegistererWith(prometheus.Labels{"handler": name}, reg)
	factory := promauto.With(reg)

	mw := promMiddleware{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Tracks the number of HTTP requests.",
			}, []string{"method", "code"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Tracks the latencies for HTTP requests.",
				Buckets: defaultBuckets,
			},
			[]string{"method", "code"},
		),
		responseSize: factory.NewSummaryVec(
			prometheus.SummaryOpts{
				Name: "http_response_size_bytes",
				Help: "Tracks the size of HTTP responses.",
			},
			[]string{"method", "code"},
		),
		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "A gauge of requests currently being served by the wrapped handler.",
		}),
	}

	return mw.handler
}

func newMetricsHandler(reg prometheus.Registerer, gatherer prometheus.Gatherer) http.Handler {
	return promhttp.InstrumentMetricHandler(
		reg,
		promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{DisableCompression: true}),
	)
}

// metricsRegistry return registry provided in injector or default prometheus registry.
func metricsRegistry(i do.Injector) (prometheus.Registerer, prometheus.Gatherer) {
	if reg, err := do.Invoke[*prometheus.Registry](i); err == nil {
		return reg, reg
	}

	return prometheus.DefaultRegisterer, prometheus.DefaultGatherer
}
