// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"

	// truncateLength is the number of digest characters kept on each side
	// in text output.
	truncateLength = 8
)

// print writes v in the configured output format. Text output is produced
// by the text function.
func (c *command) print(cmd *cobra.Command, v interface{}, text func()) error {
	switch o := c.config.GetString(optionNameOutput); o {
	case outputText, "":
		text()
	case outputJSON:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
	case outputYAML:
		b, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(b))
	default:
		return fmt.Errorf("unknown output format %q", o)
	}
	return nil
}
