package cpu

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	candidatesScanned = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "seedfinder_candidates_scanned_total",
		Help: "Candidate seeds tested, by search stage",
	}, []string{"stage"})

	candidatesMatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "seedfinder_candidates_matched_total",
		Help: "Candidate seeds that satisfied every observation, by search stage",
	}, []string{"stage"})

	stageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "seedfinder_stage_duration_seconds",
		Help:    "Wall time of a search stage",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 12), // 1ms to ~1.2h
	}, []string{"stage"})

	searchesRunning = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "seedfinder_searches_running",
		Help: "Searches currently in progress",
	})
)
