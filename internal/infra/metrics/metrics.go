package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Deliveries — исходы доставок push-уведомлений.
	Deliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulse_push_deliveries_total",
		Help: "Push delivery attempts by outcome.",
	}, []string{"result"}) // sent | transient | pruned | deduplicated

	Matches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulse_reminder_matches_total",
		Help: "Obligations matched to a reminder horizon, by kind.",
	}, []string{"kind"})

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pulse_reminder_run_seconds",
		Help:    "Duration of a full reminder dispatch run.",
		Buckets: prometheus.DefBuckets,
	})
)

const (
	ResultSent         = "sent"
	ResultTransient    = "transient"
	ResultPruned       = "pruned"
	ResultDeduplicated = "deduplicated"
)
