package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters for the mock origin. Registered on the default registry and
// exposed on /metrics.
var (
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "racedata",
		Subsystem: "mockapi",
		Name:      "requests_total",
		Help:      "HTTP requests served by the mock origin.",
	}, []string{"path", "status"})

	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "racedata",
		Subsystem: "mockapi",
		Name:      "logins_total",
		Help:      "Login exchanges, by outcome.",
	}, []string{"outcome"})

	ChunksServedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "racedata",
		Subsystem: "mockapi",
		Name:      "chunks_served_total",
		Help:      "Chunk files served.",
	})
)
