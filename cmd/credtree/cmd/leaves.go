// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"

	"github.com/credtree/credtree/pkg/logging"
	"github.com/credtree/credtree/pkg/merkle"
	"github.com/credtree/credtree/pkg/registry"
	"github.com/spf13/cobra"
)

type leafOutput struct {
	Index     int           `json:"index" yaml:"index"`
	Digest    merkle.Digest `json:"hash" yaml:"hash"`
	Reference string        `json:"reference" yaml:"reference"`
}

func (c *command) initLeavesCmd() {
	cmd := &cobra.Command{
		Use:   "leaves",
		Short: "List the leaf digests in record order",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return cmd.Help()
			}

			return c.withRegistry(cmd, func(r *registry.Registry, _ logging.Logger) error {
				leaves := r.Tree().Leaves()
				out := make([]leafOutput, 0, len(leaves))
				for i, l := range leaves {
					out = append(out, leafOutput{
						Index:     i,
						Digest:    l.Digest(),
						Reference: l.Record().Reference,
					})
				}
				return c.print(cmd, out, func() {
					for _, l := range out {
						fmt.Fprintf(cmd.OutOrStdout(), "%d %s %s\n", l.Index, merkle.Truncate(l.Digest, truncateLength), l.Reference)
					}
				})
			})
		},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return c.config.BindPFlags(cmd.Flags())
		},
	}

	c.setAllFlags(cmd)
	c.root.AddCommand(cmd)
}
