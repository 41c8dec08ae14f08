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

func (c *command) initRootCmd() {
	cmd := &cobra.Command{
		Use:   "root",
		Short: "Print the root digest of the records",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return cmd.Help()
			}

			return c.withRegistry(cmd, func(r *registry.Registry, _ logging.Logger) error {
				root := r.Root()
				return c.print(cmd, struct {
					Root   merkle.Digest `json:"root" yaml:"root"`
					Leaves int           `json:"leaves" yaml:"leaves"`
				}{
					Root:   root,
					Leaves: r.Tree().Len(),
				}, func() {
					fmt.Fprintln(cmd.OutOrStdout(), root)
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
