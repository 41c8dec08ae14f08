// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package merkle

import (
	"runtime"

	"github.com/credtree/credtree/pkg/credential"
	"golang.org/x/sync/errgroup"
)

// Tree is an immutable binary hash tree over a sequence of records.
// A nil *Tree is the valid "no records committed" state.
type Tree struct {
	root   Node
	size   int
	height int
}

// Root returns the root digest, or the empty digest for a nil tree.
func (t *Tree) Root() Digest {
	if t == nil {
		return ""
	}
	return t.root.Digest()
}

// RootNode returns the root node, or nil for a nil tree.
func (t *Tree) RootNode() Node {
	if t == nil {
		return nil
	}
	return t.root
}

// Len returns the number of leaves.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return t.size
}

// Height returns the number of levels above the leaves, ceil(log2(Len())).
func (t *Tree) Height() int {
	if t == nil {
		return 0
	}
	return t.height
}

// Leaves returns the leaves from left to right.
func (t *Tree) Leaves() []*Leaf {
	if t == nil {
		return nil
	}
	leaves := make([]*Leaf, 0, t.size)
	var walk func(Node)
	walk = func(n Node) {
		switch n := n.(type) {
		case *Leaf:
			leaves = append(leaves, n)
		case *Internal:
			walk(n.left)
			if n.right != nil {
				walk(n.right)
			}
		}
	}
	walk(t.root)
	return leaves
}

// Levels returns the nodes level by level, starting with the root.
// Padding positions of odd levels are not included.
func (t *Tree) Levels() [][]Node {
	if t == nil {
		return nil
	}
	var levels [][]Node
	for level := []Node{t.root}; len(level) > 0; {
		levels = append(levels, level)
		var next []Node
		for _, n := range level {
			if in, ok := n.(*Internal); ok {
				next = append(next, in.left)
				if in.right != nil {
					next = append(next, in.right)
				}
			}
		}
		level = next
	}
	return levels
}

// Contains reports whether a leaf with the given digest is in the tree.
func (t *Tree) Contains(d Digest) bool {
	for _, l := range t.Leaves() {
		if l.digest == d {
			return true
		}
	}
	return false
}

// Builder constructs trees. Leaf hashing and the combination of nodes
// within a level are spread over a bounded number of goroutines.
type Builder struct {
	workers int
}

// Option configures a Builder.
type Option func(*Builder)

// WithWorkers bounds the number of concurrent hashing goroutines.
// Values lower than 2 make the builder synchronous.
func WithWorkers(n int) Option {
	return func(b *Builder) { b.workers = n }
}

// NewBuilder returns a Builder which by default uses GOMAXPROCS workers.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{workers: runtime.GOMAXPROCS(0)}
	for _, o := range opts {
		o(b)
	}
	return b
}

var defaultBuilder = NewBuilder()

// Build constructs the tree of the records with the default Builder.
func Build(records []credential.Record) *Tree {
	return defaultBuilder.Build(records)
}

// Build constructs the tree of the records, keeping their order.
// It returns nil when there are no records.
func (b *Builder) Build(records []credential.Record) *Tree {
	if len(records) == 0 {
		return nil
	}

	level := make([]Node, len(records))
	b.each(len(records), func(i int) {
		level[i] = newLeaf(records[i])
	})

	height := 0
	for len(level) > 1 {
		next := make([]Node, (len(level)+1)/2)
		b.each(len(next), func(i int) {
			left := level[2*i]
			var right Node
			if 2*i+1 < len(level) {
				right = level[2*i+1]
			}
			next[i] = newInternal(left, right)
		})
		level = next
		height++
	}

	return &Tree{
		root:   level[0],
		size:   len(records),
		height: height,
	}
}

// each calls fn for every index in [0, n) and returns once all calls are done.
func (b *Builder) each(n int, fn func(i int)) {
	if b.workers < 2 || n < 2 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	sem := make(chan struct{}, b.workers)
	var eg errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		sem <- struct{}{}
		eg.Go(func() error {
			defer func() { <-sem }()
			fn(i)
			return nil
		})
	}
	_ = eg.Wait()
}
