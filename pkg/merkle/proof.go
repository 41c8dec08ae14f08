// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package merkle

import "fmt"

// Position is the side a proof sibling occupies relative to the path.
type Position uint8

const (
	// Left siblings are hashed before the running digest.
	Left Position = iota + 1
	// Right siblings are hashed after the running digest.
	Right
)

// String implements the fmt.Stringer interface.
func (p Position) String() string {
	switch p {
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("position(%d)", uint8(p))
}

// MarshalText implements encoding.TextMarshaler.
func (p Position) MarshalText() ([]byte, error) {
	switch p {
	case Left, Right:
		return []byte(p.String()), nil
	}
	return nil, fmt.Errorf("invalid position %d", uint8(p))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Position) UnmarshalText(text []byte) error {
	switch string(text) {
	case "left":
		*p = Left
	case "right":
		*p = Right
	default:
		return fmt.Errorf("invalid position %q", text)
	}
	return nil
}

// ProofStep is a sibling digest on the path from a leaf to the root.
type ProofStep struct {
	Sibling  Digest   `json:"hash" yaml:"hash"`
	Position Position `json:"position" yaml:"position"`
}

// Proof is the inclusion proof of a leaf, ordered from the leaf's sibling up
// to the step just below the root.
type Proof []ProofStep

// GenerateProof returns the inclusion proof of the leaf with the target
// digest. The proof is empty if the tree is nil, the target is not a leaf
// of the tree, or the tree consists of the target leaf only.
//
// Padding nodes of odd levels contribute a right step carrying the digest
// of their only child, mirroring how their digest was computed.
func GenerateProof(t *Tree, target Digest) Proof {
	if t == nil {
		return nil
	}
	var p Proof
	if !findPath(t.root, target, &p) {
		return nil
	}
	return p
}

// findPath searches depth first, left subtree first, and appends the sibling
// of every node on the path while the recursion unwinds.
func findPath(n Node, target Digest, p *Proof) bool {
	switch n := n.(type) {
	case *Leaf:
		return n.digest == target
	case *Internal:
		if findPath(n.left, target, p) {
			sibling := n.left.Digest()
			if n.right != nil {
				sibling = n.right.Digest()
			}
			*p = append(*p, ProofStep{Sibling: sibling, Position: Right})
			return true
		}
		if n.right != nil && findPath(n.right, target, p) {
			*p = append(*p, ProofStep{Sibling: n.left.Digest(), Position: Left})
			return true
		}
	}
	return false
}

// RootFromProof folds the proof over the leaf digest and returns the
// resulting root digest. ok is false if a step has an invalid position.
func RootFromProof(leaf Digest, p Proof) (root Digest, ok bool) {
	root = leaf
	for _, s := range p {
		switch s.Position {
		case Left:
			root = HashPair(s.Sibling, root)
		case Right:
			root = HashPair(root, s.Sibling)
		default:
			return "", false
		}
	}
	return root, true
}

// Verify reports whether the proof leads from the leaf digest to the
// claimed root. An empty proof verifies only if the leaf is the root.
func Verify(leaf Digest, p Proof, root Digest) bool {
	r, ok := RootFromProof(leaf, p)
	return ok && r == root
}
