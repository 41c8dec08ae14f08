// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"

	"github.com/credtree/credtree/pkg/credential"
	"github.com/credtree/credtree/pkg/merkle"
	"github.com/spf13/cobra"
)

type hashOutput struct {
	Reference string        `json:"reference" yaml:"reference"`
	Canonical string        `json:"canonical" yaml:"canonical"`
	Digest    merkle.Digest `json:"hash" yaml:"hash"`
}

func (c *command) initHashCmd() {
	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Print the canonical form and leaf digest of each record",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if len(args) > 0 {
				return cmd.Help()
			}

			records, err := c.records()
			if err != nil {
				return err
			}

			out := make([]hashOutput, 0, len(records))
			for _, r := range records {
				out = append(out, hashOutput{
					Reference: r.Reference,
					Canonical: string(credential.Canonicalize(r)),
					Digest:    merkle.LeafDigest(r),
				})
			}
			return c.print(cmd, out, func() {
				for _, h := range out {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", h.Digest, h.Canonical)
				}
			})
		},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return c.config.BindPFlags(cmd.Flags())
		},
	}

	c.setAllFlags(cmd)
	c.root.AddCommand(cmd)
}
