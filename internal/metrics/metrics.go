// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

// Package metrics holds the Prometheus collectors for PriceWatch.
//
// Collectors are registered on the default registry at package init via
// promauto and exposed by the /metrics endpoint.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pricewatch_db_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricewatch_db_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// Recommendation Pipeline Metrics
	RecommendGenerateDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pricewatch_recommend_generate_duration_seconds",
			Help:    "End-to-end duration of recommendation generation",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"outcome"}, // "ok", "empty", "error"
	)

	RecommendScorerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pricewatch_recommend_scorer_duration_seconds",
			Help:    "Duration of a single scorer run",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"algorithm"},
	)

	RecommendScorerCandidates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricewatch_recommend_scorer_candidates_total",
			Help: "Candidates produced per scorer",
		},
		[]string{"algorithm"},
	)

	RecommendScorerFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricewatch_recommend_scorer_failures_total",
			Help: "Scorer runs that returned an error and contributed nothing",
		},
		[]string{"algorithm"},
	)

	RecommendFallbackTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pricewatch_recommend_fallback_total",
			Help: "Generations where every scorer came back empty and popularity fallback ran",
		},
	)

	RecommendationsPersisted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricewatch_recommendations_persisted_total",
			Help: "Recommendation rows upserted, by final algorithm tag",
		},
		[]string{"algorithm"},
	)

	PreferenceRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricewatch_preference_refreshes_total",
			Help: "User preference recomputations",
		},
		[]string{"trigger", "status"}, // trigger: "api", "event", "schedule"
	)

	// Behavior and Event Metrics
	BehaviorEventsTracked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricewatch_behavior_events_total",
			Help: "Behavior events appended to the log",
		},
		[]string{"type"},
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricewatch_events_published_total",
			Help: "Messages published to the event bus",
		},
		[]string{"topic", "status"},
	)

	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricewatch_events_consumed_total",
			Help: "Messages handled by the event router",
		},
		[]string{"handler", "status"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pricewatch_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricewatch_cache_hits_total",
			Help: "Cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricewatch_cache_misses_total",
			Help: "Cache misses",
		},
		[]string{"cache"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricewatch_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pricewatch_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pricewatch_api_active_requests",
			Help: "Current number of active API requests",
		},
	)
)

// RecordDBQuery records a database query metric.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordScorerRun records the outcome of one scorer invocation.
func RecordScorerRun(algorithm string, duration time.Duration, candidates int, err error) {
	RecommendScorerDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
	if err != nil {
		RecommendScorerFailures.WithLabelValues(algorithm).Inc()
		return
	}
	RecommendScorerCandidates.WithLabelValues(algorithm).Add(float64(candidates))
}

// RecordGeneration records an end-to-end pipeline run.
func RecordGeneration(outcome string, duration time.Duration) {
	RecommendGenerateDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordPreferenceRefresh records a preference recomputation.
func RecordPreferenceRefresh(trigger string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	PreferenceRefreshes.WithLabelValues(trigger, status).Inc()
}

// RecordPublish records a publish attempt on topic.
func RecordPublish(topic string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	EventsPublished.WithLabelValues(topic, status).Inc()
}

// RecordConsume records a message handled by a router handler.
func RecordConsume(handler string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	EventsConsumed.WithLabelValues(handler, status).Inc()
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(cache string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cache).Inc()
		return
	}
	CacheMisses.WithLabelValues(cache).Inc()
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-flight API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
