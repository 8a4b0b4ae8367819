package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "descent_runs_total",
		Help: "Optimization runs by algorithm and terminal status.",
	}, []string{"optimizer", "status"})

	runIterations = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "descent_run_iterations",
		Help:    "Iterations per optimization run.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	}, []string{"optimizer"})

	runDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "descent_run_duration_seconds",
		Help:    "Wall-clock duration per optimization run.",
		Buckets: prometheus.DefBuckets,
	}, []string{"optimizer"})
)
