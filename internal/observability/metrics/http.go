// Package metrics holds the private prometheus registries for the api and
// worker processes.
package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	extractionTotal      *prometheus.CounterVec
	extractionConfidence *prometheus.HistogramVec
	loadStrategyTotal    *prometheus.CounterVec
	exportRowsTotal      *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cex",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cex",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "cex",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	extractionTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cex",
			Subsystem: "extraction",
			Name:      "requests_total",
			Help:      "Total synchronous extraction requests by outcome.",
		},
		[]string{"service", "endpoint", "outcome"},
	)
	extractionConfidence := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cex",
			Subsystem: "extraction",
			Name:      "confidence",
			Help:      "Distribution of overall extraction confidence.",
			Buckets:   []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		},
		[]string{"service", "endpoint"},
	)
	loadStrategyTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cex",
			Subsystem: "loader",
			Name:      "strategy_total",
			Help:      "Total successful document loads by format/strategy pair.",
		},
		[]string{"service", "strategy"},
	)
	exportRowsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cex",
			Subsystem: "export",
			Name:      "rows_total",
			Help:      "Total contract rows written to XLSX exports.",
		},
		[]string{"service"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		extractionTotal,
		extractionConfidence,
		loadStrategyTotal,
		exportRowsTotal,
	)

	return &HTTPServerMetrics{
		registry:             registry,
		requestTotal:         requestTotal,
		requestDuration:      requestDuration,
		requestInFlight:      requestInFlight,
		extractionTotal:      extractionTotal,
		extractionConfidence: extractionConfidence,
		loadStrategyTotal:    loadStrategyTotal,
		exportRowsTotal:      exportRowsTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/contracts/"):
		rest := strings.TrimPrefix(path, "/v1/contracts/")
		if strings.HasSuffix(rest, "/parse") {
			return "/v1/contracts/{contract_id}/parse"
		}
		if rest == "export" {
			return path
		}
		return "/v1/contracts/{contract_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordExtraction(service, endpoint string, confidence float64, success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	m.extractionTotal.WithLabelValues(service, endpoint, outcome).Inc()
	if success {
		m.extractionConfidence.WithLabelValues(service, endpoint).Observe(confidence)
	}
}

func (m *HTTPServerMetrics) RecordLoadStrategy(service, strategy string) {
	if strategy == "" {
		strategy = "unknown"
	}
	m.loadStrategyTotal.WithLabelValues(service, strategy).Inc()
}

func (m *HTTPServerMetrics) RecordExportRows(service string, rows int) {
	if rows <= 0 {
		return
	}
	m.exportRowsTotal.WithLabelValues(service).Add(float64(rows))
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
