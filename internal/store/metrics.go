package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mymatch_sessions_created_total",
		Help: "Dashboard sessions created, by store backend",
	}, []string{"backend"})

	sessionsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mymatch_sessions_expired_total",
		Help: "In-memory sessions removed by the janitor",
	})

	updateConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mymatch_session_update_conflicts_total",
		Help: "Redis session updates retried after a concurrent write",
	})
)
