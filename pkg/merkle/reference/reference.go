// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package reference is a simple, non-optimized implementation of the
// credential tree root and proof computation. It works on flat digest levels
// instead of linked nodes and serves as the oracle for testing package merkle.
package reference

import (
	"github.com/credtree/credtree/pkg/credential"
	"github.com/credtree/credtree/pkg/merkle"
)

// Levels returns all digest levels of the tree, leaves first, root last.
func Levels(records []credential.Record) [][]merkle.Digest {
	if len(records) == 0 {
		return nil
	}
	level := make([]merkle.Digest, len(records))
	for i, r := range records {
		level[i] = merkle.LeafDigest(r)
	}
	levels := [][]merkle.Digest{level}
	for len(level) > 1 {
		var next []merkle.Digest
		for i := 0; i < len(level); i += 2 {
			right := level[i]
			if i+1 < len(level) {
				right = level[i+1]
			}
			next = append(next, merkle.HashPair(level[i], right))
		}
		levels = append(levels, next)
		level = next
	}
	return levels
}

// Root returns the root digest of the records, empty if there are none.
func Root(records []credential.Record) merkle.Digest {
	levels := Levels(records)
	if levels == nil {
		return ""
	}
	return levels[len(levels)-1][0]
}

// Proof returns the inclusion proof of the i-th record by walking the
// digest levels by index.
func Proof(records []credential.Record, i int) merkle.Proof {
	if i < 0 || i >= len(records) {
		return nil
	}
	levels := Levels(records)
	var p merkle.Proof
	for _, level := range levels[:len(levels)-1] {
		if i%2 == 0 {
			sibling := level[i]
			if i+1 < len(level) {
				sibling = level[i+1]
			}
			p = append(p, merkle.ProofStep{Sibling: sibling, Position: merkle.Right})
		} else {
			p = append(p, merkle.ProofStep{Sibling: level[i-1], Position: merkle.Left})
		}
		i /= 2
	}
	return p
}
