// Package metrics holds the Prometheus collectors for the service.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Upstream service labels.
const (
	ServiceClassifier = "classifier"
	ServiceNutrition  = "nutrition"
	ServiceNarrative  = "narrative"
)

var (
	once sync.Once

	// PredictionsTotal counts finished predictions by outcome.
	PredictionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "foodninja",
		Name:      "predictions_total",
		Help:      "Total number of image predictions, labeled by outcome (no_food, low_confidence, confident, rejected, failed).",
	}, []string{"outcome"})

	// UpstreamRequestsTotal counts calls to third-party services.
	UpstreamRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "foodninja",
		Name:      "upstream_requests_total",
		Help:      "Total number of upstream calls, labeled by service and result.",
	}, []string{"service", "result"})

	// UpstreamDurationSeconds is wall time per upstream call.
	UpstreamDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "foodninja",
		Name:      "upstream_duration_seconds",
		Help:      "Duration of upstream calls in seconds.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
	}, []string{"service"})

	// HTTPRequestsTotal counts inbound requests by route and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "foodninja",
		Name:      "http_requests_total",
		Help:      "Total number of inbound HTTP requests, labeled by route and status code.",
	}, []string{"route", "status"})
)

// Register registers the collectors with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			PredictionsTotal,
			UpstreamRequestsTotal,
			UpstreamDurationSeconds,
			HTTPRequestsTotal,
		)
	})
}

// ObserveUpstream records one upstream call that started at start.
func ObserveUpstream(service string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	UpstreamRequestsTotal.WithLabelValues(service, result).Inc()
	UpstreamDurationSeconds.WithLabelValues(service).Observe(time.Since(start).Seconds())
}
