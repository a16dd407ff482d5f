// Package metrics holds the Prometheus collectors for the image pipeline.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "image_processing"

const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

type Metrics struct {
	registry *prometheus.Registry

	uploads        *prometheus.CounterVec
	uploadBytes    prometheus.Histogram
	filters        *prometheus.CounterVec
	filterDuration *prometheus.HistogramVec
	historyClears  prometheus.Counter
	feedClients    prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Upload attempts by outcome.",
		}, []string{"outcome"}),
		uploadBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upload_size_bytes",
			Help:      "Size of accepted uploads.",
			Buckets:   prometheus.ExponentialBuckets(16*1024, 4, 7),
		}),
		filters: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filters_applied_total",
			Help:      "Filter applications by kind and outcome.",
		}, []string{"filter", "outcome"}),
		filterDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "filter_duration_seconds",
			Help:      "Decode, filter and encode time per request.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"filter"}),
		historyClears: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_clears_total",
			Help:      "Number of times the history was cleared.",
		}),
		feedClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "feed_clients",
			Help:      "Connected history feed websocket clients.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.uploads,
		m.uploadBytes,
		m.filters,
		m.filterDuration,
		m.historyClears,
		m.feedClients,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}

func (m *Metrics) ObserveUpload(outcome string, size int64) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSuccess {
		m.uploadBytes.Observe(float64(size))
	}
}

func (m *Metrics) ObserveFilter(filter, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.filters.WithLabelValues(filter, outcome).Inc()
	if outcome == OutcomeSuccess {
		m.filterDuration.WithLabelValues(filter).Observe(elapsed.Seconds())
	}
}

func (m *Metrics) HistoryCleared() {
	if m == nil {
		return
	}
	m.historyClears.Inc()
}

func (m *Metrics) FeedClients(n int) {
	if m == nil {
		return
	}
	m.feedClients.Set(float64(n))
}
