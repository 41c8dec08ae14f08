// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package registry

import (
	"time"

	"github.com/credtree/credtree/pkg/merkle"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func (r *Registry) SetNow(f func() time.Time) { r.now = f }

func (r *Registry) ProofCacheHits() float64 {
	return testutil.ToFloat64(r.metrics.ProofCacheHitCount)
}

func (r *Registry) ProofsGenerated() float64 {
	return testutil.ToFloat64(r.metrics.ProofsGeneratedCount)
}

func (r *Registry) Verifications(s Status) float64 {
	return testutil.ToFloat64(r.metrics.VerificationCount.WithLabelValues(s.String()))
}

func (r *Registry) Install(seq uint64, t *merkle.Tree) merkle.Digest { return r.install(seq, t) }

func (r *Registry) LeafCount() float64 {
	return testutil.ToFloat64(r.metrics.LeafCount)
}
