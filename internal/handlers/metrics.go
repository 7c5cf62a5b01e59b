package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mymatch_predict_rate_limited_total",
		Help: "Prediction requests refused by the rate limiter",
	})

	renderErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mymatch_render_errors_total",
		Help: "Pages, charts and exports that failed to render",
	}, []string{"kind"})
)
