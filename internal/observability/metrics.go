// Package observability provides metrics and tracing for the application.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "azaunur_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// FeedBuilds counts assembled feeds by feed kind (home, tag, saved).
	FeedBuilds = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "azaunur_feed_builds_total",
		Help: "Total number of feed assemblies by kind",
	}, []string{"kind"})

	// FeedItemsReturned records how many items each feed build surfaced.
	FeedItemsReturned = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "azaunur_feed_items_returned",
		Help:    "Number of items returned per feed build",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})

	// EngagementToggles counts engagement toggles by fact type and resulting state.
	EngagementToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "azaunur_engagement_toggles_total",
		Help: "Total number of engagement toggles by fact and resulting state",
	}, []string{"fact", "state"})

	// NotificationsEmitted counts fanned-out notifications by kind.
	NotificationsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "azaunur_notifications_emitted_total",
		Help: "Total number of notifications created by kind",
	}, []string{"kind"})

	// NotificationsSuppressed counts self-notifications dropped by the fan-out.
	NotificationsSuppressed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "azaunur_notifications_suppressed_total",
		Help: "Total number of self-notifications suppressed",
	})

	// MediaFailures counts image decode/encode failures that degraded to a
	// text-only save.
	MediaFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "azaunur_media_failures_total",
		Help: "Total number of media processing failures by stage",
	}, []string{"stage"})
)
