// Package metrics defines all custom Prometheus metrics for the storefront
// client core. It is the single source of truth for metric names, labels,
// and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// CacheLookupsTotal counts catalog cache lookups.
// Labels:
//   - result: "fresh", "stale", or "miss"
var CacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_cache_lookups_total",
		Help:      "Total number of catalog cache lookups, by freshness result.",
	},
	[]string{"result"},
)

// FetchesTotal counts catalog fetches against the external API.
// Labels:
//   - kind: "sync" (miss or manual reload) or "background" (revalidation)
//   - outcome: "ok" or "error"
var FetchesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_fetches_total",
		Help:      "Total number of catalog fetches against the external API.",
	},
	[]string{"kind", "outcome"},
)

// FetchDuration measures how long a single catalog fetch takes end-to-end.
var FetchDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "catalog_fetch_duration_seconds",
		Help:      "Duration of catalog fetches from request to cache fill.",
		Buckets:   prometheus.DefBuckets,
	},
)

// SupersededResponsesTotal counts fetch responses dropped because a newer
// request for the same query key was issued while they were in flight.
var SupersededResponsesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_superseded_responses_total",
		Help:      "Total number of catalog fetch responses dropped as superseded.",
	},
)

// RefreshQueueDepth tracks the number of revalidation jobs waiting in each
// refresher worker channel.
// Label:
//   - worker_id: numeric worker index ("0", "1", …)
var RefreshQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "catalog_refresh_queue_depth",
		Help:      "Current number of revalidation jobs pending per refresher worker.",
	},
	[]string{"worker_id"},
)

// LoginsTotal counts login attempts by outcome.
// Label:
//   - outcome: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)
