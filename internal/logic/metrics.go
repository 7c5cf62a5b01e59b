package logic

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	staleResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mymatch_stale_results_discarded_total",
		Help: "Completions discarded because a newer submission was issued",
	}, []string{"stage"})

	settleReads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mymatch_history_settle_reads_total",
		Help: "History reads issued while waiting for a new prediction to become visible",
	})

	settleMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mymatch_history_settle_misses_total",
		Help: "Reconciliations that gave up before the new prediction became visible",
	})

	validationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mymatch_form_validation_failures_total",
		Help: "Form submissions rejected before reaching the scoring service",
	})
)
