// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package merkle

import "github.com/credtree/credtree/pkg/credential"

// Node is a node of the tree, either a *Leaf or an *Internal node.
type Node interface {
	// Digest returns the digest committed by the node.
	Digest() Digest
	// IsLeaf reports whether the node holds a record.
	IsLeaf() bool
}

var (
	_ Node = (*Leaf)(nil)
	_ Node = (*Internal)(nil)
)

// Leaf holds a record and the digest of its canonical form.
type Leaf struct {
	digest Digest
	record credential.Record
}

func newLeaf(r credential.Record) *Leaf {
	return &Leaf{digest: LeafDigest(r), record: r}
}

// Digest implements Node.
func (l *Leaf) Digest() Digest { return l.digest }

// IsLeaf implements Node.
func (l *Leaf) IsLeaf() bool { return true }

// Record returns the record committed by the leaf.
func (l *Leaf) Record() credential.Record { return l.record }

// Internal is a node with a mandatory left child and an optional right
// child. A missing right child marks the padding of an odd level: the digest
// is still computed as if the left child was repeated.
type Internal struct {
	digest Digest
	left   Node
	right  Node
}

// newInternal combines left and right. A nil right pads the odd level.
func newInternal(left, right Node) *Internal {
	n := &Internal{left: left}
	if right == nil {
		n.digest = HashPair(left.Digest(), left.Digest())
		return n
	}
	n.right = right
	n.digest = HashPair(left.Digest(), right.Digest())
	return n
}

// Digest implements Node.
func (n *Internal) Digest() Digest { return n.digest }

// IsLeaf implements Node.
func (n *Internal) IsLeaf() bool { return false }

// Left returns the left child.
func (n *Internal) Left() Node { return n.left }

// Right returns the right child or nil for an odd level padding node.
func (n *Internal) Right() Node { return n.right }
