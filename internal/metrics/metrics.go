// Package metrics defines Prometheus collectors for the API server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WaitlistAdmissions counts admission attempts by outcome
	WaitlistAdmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waitlist_admissions_total",
			Help: "Total number of waitlist admission attempts",
		},
		[]string{"status"},
	)

	// WaitlistCardNumber tracks the most recently assigned card number
	WaitlistCardNumber = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "waitlist_card_number",
			Help: "Most recently assigned waitlist card number",
		},
	)

	// CoinComparisons counts coin comparison requests by outcome
	CoinComparisons = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coin_comparisons_total",
			Help: "Total number of coin market-cap comparisons",
		},
		[]string{"status"},
	)

	// CoinComparisonDuration tracks comparison end-to-end latency
	CoinComparisonDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "coin_comparison_duration_seconds",
			Help:    "Coin comparison duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// ProviderRequests counts upstream coin-data provider calls
	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coin_provider_requests_total",
			Help: "Total number of coin data provider requests",
		},
		[]string{"endpoint", "status"},
	)
)
