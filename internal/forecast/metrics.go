package forecast

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forecaster_runs_total",
		Help: "Simulation runs by final stage reached.",
	}, []string{"stage"})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "forecaster_run_duration_seconds",
		Help:    "Wall time of successful simulation runs, including price fetching.",
		Buckets: prometheus.DefBuckets,
	})
)
