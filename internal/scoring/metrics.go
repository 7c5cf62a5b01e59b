package scoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mymatch_scoring_requests_total",
		Help: "Requests sent to the scoring service by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mymatch_scoring_request_duration_seconds",
		Help:    "Duration of scoring service round trips",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
)

const (
	outcomeOK        = "ok"
	outcomeHTTPError = "http_error"
	outcomeTransport = "transport_error"
	outcomeDecode    = "decode_error"
)
