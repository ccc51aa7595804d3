package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	searchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deals_searches_total",
			Help: "Searches executed, by sort mode and whether anything matched",
		},
		[]string{"sort", "outcome"},
	)

	favoriteTogglesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deals_favorite_toggles_total",
			Help: "Favorite toggles by resulting action",
		},
		[]string{"action"},
	)

	couponTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deals_coupon_transitions_total",
			Help: "Coupon lifecycle events by target status",
		},
		[]string{"status"},
	)

	dealMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deals_mutations_total",
			Help: "Catalog mutations by operation",
		},
		[]string{"operation"},
	)
)
