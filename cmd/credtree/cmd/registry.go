// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/credtree/credtree/pkg/credential"
	"github.com/credtree/credtree/pkg/logging"
	"github.com/credtree/credtree/pkg/metrics"
	"github.com/credtree/credtree/pkg/registry"
	"github.com/credtree/credtree/pkg/statestore/leveldb"
	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

// withRegistry creates a registry on an in-memory state store, adds the
// configured records, builds the tree and calls f with it. The collected
// metrics are written to the configured metrics file once f returns, even
// if it fails.
func (c *command) withRegistry(cmd *cobra.Command, f func(r *registry.Registry, logger logging.Logger) error) (err error) {
	v := strings.ToLower(c.config.GetString(optionNameVerbosity))
	logger, err := newLogger(cmd, v)
	if err != nil {
		return fmt.Errorf("new logger: %w", err)
	}

	records, err := c.records()
	if err != nil {
		return err
	}

	metricsRegistry := prometheus.NewRegistry()
	metrics.MustRegister(metricsRegistry, logger)

	stateStore, err := leveldb.NewInMemoryStateStore(logger)
	if err != nil {
		return fmt.Errorf("state store: %w", err)
	}
	defer func() {
		var result *multierror.Error
		if path := c.config.GetString(optionNameMetricsFile); path != "" {
			if err := c.writeMetrics(path, metricsRegistry); err != nil {
				result = multierror.Append(result, fmt.Errorf("write metrics: %w", err))
			}
		}
		if err := stateStore.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close state store: %w", err))
		}
		if closeErr := result.ErrorOrNil(); closeErr != nil {
			if err == nil {
				err = closeErr
				return
			}
			logger.Error(closeErr)
		}
	}()

	r, err := registry.New(stateStore, logger, registry.Options{
		Workers:        c.config.GetInt(optionNameWorkers),
		ProofCacheSize: c.config.GetInt(optionNameProofCacheSize),
	})
	if err != nil {
		return fmt.Errorf("registry: %w", err)
	}
	metrics.MustRegister(metricsRegistry, r)

	if _, err := r.AddMultiple(records); err != nil {
		return fmt.Errorf("add records: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := r.Rebuild(ctx); err != nil {
		return fmt.Errorf("build tree: %w", err)
	}

	return f(r, logger)
}

// writeMetrics writes the gathered metrics in the Prometheus text format.
func (c *command) writeMetrics(path string, g prometheus.Gatherer) error {
	var buf bytes.Buffer
	if err := metrics.WriteText(&buf, g); err != nil {
		return err
	}
	return afero.WriteFile(c.fs, path, buf.Bytes(), 0644)
}

// records returns the sample records, if enabled, followed by the records
// of the configured file.
func (c *command) records() (records []credential.Record, err error) {
	if c.config.GetBool(optionNameSample) {
		records = append(records, credential.Samples()...)
	}
	if path := c.config.GetString(optionNameRecords); path != "" {
		rs, err := readRecords(c.fs, path)
		if err != nil {
			return nil, err
		}
		records = append(records, rs...)
	}
	return records, nil
}

// readRecords decodes a list of records from a YAML file. JSON files are
// accepted as they are valid YAML.
func readRecords(fs afero.Fs, path string) ([]credential.Record, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	var records []credential.Record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode records %s: %w", path, err)
	}
	return records, nil
}
