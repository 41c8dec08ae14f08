// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"errors"
	"fmt"

	"github.com/credtree/credtree/pkg/logging"
	"github.com/credtree/credtree/pkg/merkle"
	"github.com/credtree/credtree/pkg/registry"
	"github.com/spf13/cobra"
)

var errReferenceNotFound = errors.New("reference not found")

func (c *command) initProofCmd() {
	cmd := &cobra.Command{
		Use:   "proof",
		Short: "Print the inclusion proof of a record",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return cmd.Help()
			}
			ref := c.config.GetString(optionNameReference)
			if ref == "" {
				return fmt.Errorf("--%s is required", optionNameReference)
			}

			return c.withRegistry(cmd, func(r *registry.Registry, _ logging.Logger) error {
				res, err := r.VerifyReference(ref)
				if err != nil {
					return err
				}
				if res.Status == registry.StatusNotFound {
					return fmt.Errorf("%s: %w", ref, errReferenceNotFound)
				}

				return c.print(cmd, struct {
					Reference string        `json:"reference" yaml:"reference"`
					Digest    merkle.Digest `json:"hash" yaml:"hash"`
					Root      merkle.Digest `json:"root" yaml:"root"`
					Proof     merkle.Proof  `json:"proof" yaml:"proof"`
				}{
					Reference: res.Record.Reference,
					Digest:    res.Digest,
					Root:      res.Root,
					Proof:     res.Proof,
				}, func() {
					fmt.Fprintf(cmd.OutOrStdout(), "leaf %s\n", res.Digest)
					for i, s := range res.Proof {
						fmt.Fprintf(cmd.OutOrStdout(), "%d %-5s %s\n", i, s.Position, s.Sibling)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "root %s\n", res.Root)
				})
			})
		},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return c.config.BindPFlags(cmd.Flags())
		},
	}

	c.setAllFlags(cmd)
	cmd.Flags().String(optionNameReference, "", "reference code of the record")
	c.root.AddCommand(cmd)
}
