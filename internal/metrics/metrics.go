// Package metrics declares the Prometheus collectors used across the
// storefront data layer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StoreCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_store_call_duration_seconds",
			Help:    "Duration of remote store calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"collection", "op"},
	)

	StoreCallErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_store_call_errors_total",
			Help: "Total number of failed remote store calls",
		},
		[]string{"collection", "op"},
	)

	Notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_subject_notifications_total",
			Help: "Total number of subscriber invocations per subject",
		},
		[]string{"subject"},
	)

	NotificationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_subject_notification_failures_total",
			Help: "Total number of subscriber invocations that returned an error or panicked",
		},
		[]string{"subject"},
	)

	RealtimeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storefront_realtime_sessions",
			Help: "Number of connected websocket sessions",
		},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "Total number of HTTP requests by route and status code",
		},
		[]string{"method", "route", "status"},
	)
)
