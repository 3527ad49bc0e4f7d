/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "sadari"

// Metrics holds every collector the server reports. Each server gets its own
// registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests       *prometheus.CounterVec
	laddersGenerated   prometheus.Counter
	ladderParticipants prometheus.Histogram
	draws              prometheus.Counter
	sessionsActive     prometheus.Gauge
	websocketClients   prometheus.Gauge
}

func newMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route, method and status code",
		},
		[]string{"route", "method", "code"},
	)

	m.laddersGenerated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "ladders_generated_total",
		Help:      "Total number of ladders generated",
	})

	m.ladderParticipants = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "ladder_participants",
		Help:      "Number of participants per generated ladder",
		Buckets:   []float64{2, 4, 8, 16, 32, 64, 100},
	})

	m.draws = auto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "draws_total",
		Help:      "Total number of random number draws",
	})

	m.sessionsActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "sessions_active",
		Help:      "Number of ladder sessions currently held in memory",
	})

	m.websocketClients = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "websocket_clients",
		Help:      "Number of connected websocket clients",
	})

	return m
}

func (m *Metrics) ladderGenerated(participants int) {
	if m == nil {
		return
	}
	m.laddersGenerated.Inc()
	m.ladderParticipants.Observe(float64(participants))
}

func (m *Metrics) drawn() {
	if m == nil {
		return
	}
	m.draws.Inc()
}

func (m *Metrics) sessionOpened() {
	if m == nil {
		return
	}
	m.sessionsActive.Inc()
}

func (m *Metrics) sessionClosed() {
	if m == nil {
		return
	}
	m.sessionsActive.Dec()
}

func (m *Metrics) clientConnected() {
	if m == nil {
		return
	}
	m.websocketClients.Inc()
}

func (m *Metrics) clientDisconnected() {
	if m == nil {
		return
	}
	m.websocketClients.Dec()
}

// instrument counts requests to route by method and status code.
func (m *Metrics) instrument(route string, next httprouter.Handle) httprouter.Handle {
	if m == nil {
		return next
	}

	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		wrapped := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next(wrapped, r, p)

		m.httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(wrapped.statusCode)).Inc()
	}
}

func (m *Metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func registerMetrics(cfg *Config, m *Metrics, mux *httprouter.Router) {
	mux.Handler("GET", cfg.prefix+"/metrics", m.handler())
}

// statusWriter captures the status code written by a handler.
type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack lets websocket upgrades pass through the wrapper.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	w.statusCode = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
