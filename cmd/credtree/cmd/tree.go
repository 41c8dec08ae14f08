// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"strings"

	"github.com/credtree/credtree/pkg/logging"
	"github.com/credtree/credtree/pkg/merkle"
	"github.com/credtree/credtree/pkg/registry"
	"github.com/spf13/cobra"
)

type nodeOutput struct {
	Digest    merkle.Digest `json:"hash" yaml:"hash"`
	Leaf      bool          `json:"leaf,omitempty" yaml:"leaf,omitempty"`
	Padded    bool          `json:"padded,omitempty" yaml:"padded,omitempty"`
	Reference string        `json:"reference,omitempty" yaml:"reference,omitempty"`
}

func newNodeOutput(n merkle.Node) nodeOutput {
	o := nodeOutput{Digest: n.Digest()}
	switch n := n.(type) {
	case *merkle.Leaf:
		o.Leaf = true
		o.Reference = n.Record().Reference
	case *merkle.Internal:
		o.Padded = n.Right() == nil
	}
	return o
}

func (o nodeOutput) String() string {
	s := merkle.Truncate(o.Digest, truncateLength)
	switch {
	case o.Leaf:
		s += " (" + o.Reference + ")"
	case o.Padded:
		s += " (padded)"
	}
	return s
}

func (c *command) initTreeCmd() {
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the tree level by level from the root",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return cmd.Help()
			}

			return c.withRegistry(cmd, func(r *registry.Registry, _ logging.Logger) error {
				levels := r.Tree().Levels()
				out := make([][]nodeOutput, 0, len(levels))
				for _, level := range levels {
					nodes := make([]nodeOutput, 0, len(level))
					for _, n := range level {
						nodes = append(nodes, newNodeOutput(n))
					}
					out = append(out, nodes)
				}
				return c.print(cmd, out, func() {
					for i, nodes := range out {
						s := make([]string, 0, len(nodes))
						for _, n := range nodes {
							s = append(s, n.String())
						}
						fmt.Fprintf(cmd.OutOrStdout(), "%d: %s\n", i, strings.Join(s, "  "))
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
