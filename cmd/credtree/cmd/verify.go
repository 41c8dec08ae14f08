// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/credtree/credtree/pkg/logging"
	"github.com/credtree/credtree/pkg/merkle"
	"github.com/credtree/credtree/pkg/registry"
	"github.com/spf13/cobra"
)

var errVerificationFailed = errors.New("verification failed")

func (c *command) initVerifyCmd() {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a record against the root digest",
		Long: `Verify a record against the root digest.

The record is looked up by its reference code. Its inclusion proof is checked
against the root of the records, or against the digest given with --root.
The command fails if the record is invalid or not found.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return cmd.Help()
			}
			ref := c.config.GetString(optionNameReference)
			if ref == "" {
				return fmt.Errorf("--%s is required", optionNameReference)
			}

			return c.withRegistry(cmd, func(r *registry.Registry, logger logging.Logger) error {
				res, err := r.VerifyReference(ref)
				if err != nil {
					return err
				}

				if root := merkle.Digest(strings.ToLower(c.config.GetString(optionNameRoot))); root != "" && res.Status != registry.StatusNotFound {
					logger.Debugf("verifying against root %s", root)
					res.Root = root
					res.Status = registry.StatusInvalid
					if merkle.Verify(res.Digest, res.Proof, root) {
						res.Status = registry.StatusValid
					}
				}

				err = c.print(cmd, res, func() {
					fmt.Fprintf(cmd.OutOrStdout(), "status: %s\n", res.Status)
					if res.Status != registry.StatusNotFound {
						fmt.Fprintf(cmd.OutOrStdout(), "reference: %s\n", res.Record.Reference)
						fmt.Fprintf(cmd.OutOrStdout(), "hash: %s\n", res.Digest)
						fmt.Fprintf(cmd.OutOrStdout(), "proof: %d steps\n", len(res.Proof))
					}
					fmt.Fprintf(cmd.OutOrStdout(), "root: %s\n", res.Root)
				})
				if err != nil {
					return err
				}
				if res.Status != registry.StatusValid {
					return fmt.Errorf("%s: %w: %s", ref, errVerificationFailed, res.Status)
				}
				return nil
			})
		},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return c.config.BindPFlags(cmd.Flags())
		},
	}

	c.setAllFlags(cmd)
	cmd.Flags().String(optionNameReference, "", "reference code of the record")
	cmd.Flags().String(optionNameRoot, "", "expected root digest, defaults to the root of the records")
	c.root.AddCommand(cmd)
}
