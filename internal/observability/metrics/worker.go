package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	processTotal       *prometheus.CounterVec
	processDuration    *prometheus.HistogramVec
	processInFlight    prometheus.Gauge
	queueLag           *prometheus.HistogramVec
	resultConfidence   *prometheus.HistogramVec
	fieldsExtractedPct *prometheus.HistogramVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	processTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cex",
			Subsystem: "worker",
			Name:      "contract_process_total",
			Help:      "Total processed contracts by status.",
		},
		[]string{"service", "status"},
	)
	processDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cex",
			Subsystem: "worker",
			Name:      "contract_process_duration_seconds",
			Help:      "Contract processing duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	processInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "cex",
			Subsystem: "worker",
			Name:      "contract_process_in_flight",
			Help:      "Number of in-flight contract processing tasks.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cex",
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between contract upload and processing start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)
	resultConfidence := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cex",
			Subsystem: "worker",
			Name:      "extraction_confidence",
			Help:      "Distribution of overall extraction confidence for processed contracts.",
			Buckets:   []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		},
		[]string{"service"},
	)
	fieldsExtractedPct := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cex",
			Subsystem: "worker",
			Name:      "fields_extracted_ratio",
			Help:      "Share of leaf fields populated per processed contract.",
			Buckets:   []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		},
		[]string{"service"},
	)

	registry.MustRegister(processTotal, processDuration, processInFlight, queueLag, resultConfidence, fieldsExtractedPct)

	return &WorkerMetrics{
		registry:           registry,
		processTotal:       processTotal,
		processDuration:    processDuration,
		processInFlight:    processInFlight,
		queueLag:           queueLag,
		resultConfidence:   resultConfidence,
		fieldsExtractedPct: fieldsExtractedPct,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartContract() {
	m.processInFlight.Inc()
}

func (m *WorkerMetrics) FinishContract(service string, duration time.Duration, err error) {
	m.processInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.processTotal.WithLabelValues(service, status).Inc()
	m.processDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveQueueLag(service string, lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(service).Observe(lag.Seconds())
}

func (m *WorkerMetrics) ObserveExtraction(service string, confidence float64, fieldsExtracted, totalFields int) {
	m.resultConfidence.WithLabelValues(service).Observe(confidence)
	if totalFields > 0 {
		m.fieldsExtractedPct.WithLabelValues(service).Observe(float64(fieldsExtracted) / float64(totalFields))
	}
}
