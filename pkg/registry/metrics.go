// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package registry

import (
	m "github.com/credtree/credtree/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	// all metrics fields must be exported
	// to be able to return them by Metrics()
	// using reflection
	RecordsAddedCount    prometheus.Counter
	RebuildCount         prometheus.Counter
	RebuildDuration      prometheus.Histogram
	LeafCount            prometheus.Gauge
	ProofsGeneratedCount prometheus.Counter
	ProofCacheHitCount   prometheus.Counter
	VerificationCount    *prometheus.CounterVec
}

func newMetrics() metrics {
	subsystem := "registry"

	return metrics{
		RecordsAddedCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "records_added_count",
			Help:      "Number of records added to the registry.",
		}),
		RebuildCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "rebuild_count",
			Help:      "Number of tree rebuilds.",
		}),
		RebuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "rebuild_duration_seconds",
			Help:      "Duration of tree rebuilds.",
			Buckets:   []float64{0.0001, 0.001, 0.01, 0.1, 0.5, 1, 5},
		}),
		LeafCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "leaf_count",
			Help:      "Number of leaves in the last built tree.",
		}),
		ProofsGeneratedCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "proofs_generated_count",
			Help:      "Number of inclusion proofs generated.",
		}),
		ProofCacheHitCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "proof_cache_hit_count",
			Help:      "Number of inclusion proofs served from the cache.",
		}),
		VerificationCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "verification_count",
			Help:      "Number of verifications by outcome.",
		}, []string{"status"}),
	}
}

// Metrics returns the registry collectors.
func (r *Registry) Metrics() []prometheus.Collector {
	return m.PrometheusCollectorsFromFields(r.metrics)
}
