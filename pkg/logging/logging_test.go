// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logging_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/credtree/credtree/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, logrus.InfoLevel)

	logger.Debug("hidden")
	logger.Info("tree rebuilt")
	logger.WithField("reference", "REF-1").Warning("record not found")
	logger.Errorf("verification of %s failed", "REF-2")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message logged at info level: %s", out)
	}
	for _, want := range []string{"tree rebuilt", "reference=REF-1", "verification of REF-2 failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}
}

func TestLoggerMetrics(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, logrus.DebugLevel)

	logger.Trace("not logged")
	logger.Debug("one")
	logger.Info("two")
	logger.Info("three")
	logger.Warning("four")
	logger.Error("five")

	want := map[string]float64{
		"credtree_log_error_count": 1,
		"credtree_log_warn_count":  1,
		"credtree_log_info_count":  2,
		"credtree_log_debug_count": 1,
		"credtree_log_trace_count": 0,
	}

	collectors := logger.Metrics()
	if l := len(collectors); l != len(want) {
		t.Fatalf("got %d collectors, want %d", l, len(want))
	}
	for _, c := range collectors {
		name := metricName(t, c)
		if got := testutil.ToFloat64(c); got != want[name] {
			t.Errorf("%s: got %v, want %v", name, got, want[name])
		}
	}
}

func metricName(t *testing.T, c prometheus.Collector) string {
	t.Helper()

	desc := c.(prometheus.Metric).Desc().String()
	i := strings.Index(desc, `fqName: "`)
	if i < 0 {
		t.Fatalf("no name in %s", desc)
	}
	rest := desc[i+len(`fqName: "`):]
	return rest[:strings.Index(rest, `"`)]
}
