// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package merkle implements the binary hash tree that commits a sequence of
// credential records to a single published root digest.
//
// Leaves are the digests of the canonical form of each record, in input
// order. Every level is combined pairwise left to right, the parent digest
// being the hash of the concatenated hex digests of its children. When a level
// has an odd number of nodes, the last node is combined with itself:
// its parent digest is H(d|d) while the structural right child of the parent
// stays empty. Leaf order is significant; reordering the records changes the
// root.
//
// An inclusion proof is the sequence of sibling digests from the leaf up to
// the level just below the root, each tagged with the side the sibling
// occupies. Verification folds the proof over the leaf digest and compares
// the result with the claimed root.
//
// None of the operations in this package fail: building from no records
// yields a nil tree, asking for the proof of an unknown digest yields an
// empty proof and a proof that does not reproduce the root verifies as false.
package merkle
