// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foodgram_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "foodgram_api_active_requests",
			Help: "Number of requests currently being served",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_api_rate_limit_hits_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"scope"},
	)

	// RecipeMutations counts create/update/delete outcomes.
	RecipeMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_recipe_mutations_total",
			Help: "Recipe create, update and delete operations",
		},
		[]string{"operation", "outcome"},
	)

	// MembershipChanges counts add/remove calls per relation (favorites, shopping_cart, subscriptions).
	MembershipChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_membership_changes_total",
			Help: "Membership set add and remove operations",
		},
		[]string{"relation", "operation", "outcome"},
	)

	ShoppingListLines = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "foodgram_shopping_list_lines",
			Help:    "Number of aggregated lines per generated shopping list",
			Buckets: []float64{1, 5, 10, 20, 50, 100},
		},
	)
)

