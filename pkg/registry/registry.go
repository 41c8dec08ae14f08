// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package registry keeps the ordered set of issued credential records in a
// state store, commits them into a hash tree and verifies records against
// the published root.
//
// The tree is never updated incrementally: records added after the last
// Rebuild are not committed and do not verify until the next Rebuild.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/credtree/credtree/pkg/credential"
	"github.com/credtree/credtree/pkg/logging"
	"github.com/credtree/credtree/pkg/merkle"
	"github.com/credtree/credtree/pkg/storage"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/atomic"
	"resenje.org/singleflight"
)

const (
	recordKeyPrefix    = "record_"
	referenceKeyPrefix = "reference_"

	// DefaultProofCacheSize is the number of proofs kept for the current tree.
	DefaultProofCacheSize = 1024
)

var (
	// ErrNoCommitment is returned when verification is requested
	// before a tree has been built from at least one record.
	ErrNoCommitment = errors.New("registry: no tree has been built")
	// ErrInvalidRecord is matched by errors of records that fail validation.
	ErrInvalidRecord = errors.New("registry: invalid record")
)

// InvalidRecordError is the validation failure of a record passed to Add or
// AddMultiple.
type InvalidRecordError struct {
	Index int
	Err   error
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("record %d: invalid record: %v", e.Index, e.Err)
}

func (e *InvalidRecordError) Unwrap() error { return e.Err }

func (e *InvalidRecordError) Is(target error) bool { return target == ErrInvalidRecord }

// Options configure the Registry.
type Options struct {
	// Workers bounds the goroutines used for hashing, see merkle.WithWorkers.
	// Zero uses the builder default.
	Workers int
	// ProofCacheSize is the number of proofs cached for the current tree.
	// Zero or negative values use DefaultProofCacheSize.
	ProofCacheSize int
}

// Registry owns the credential records kept in a state store and the tree
// committing them.
type Registry struct {
	store   storage.StateStorer
	logger  logging.Logger
	builder *merkle.Builder
	metrics metrics
	now     func() time.Time

	mu       sync.RWMutex
	seq      uint64 // sequence number of the last stored record
	tree     *merkle.Tree
	treeSeq  uint64 // sequence number the current tree was built at
	building *atomic.Int32

	rebuildSF singleflight.Group
	proofs    *lru.Cache
}

// New returns a Registry over the records already present in the store.
func New(store storage.StateStorer, logger logging.Logger, o Options) (*Registry, error) {
	var opts []merkle.Option
	if o.Workers != 0 {
		opts = append(opts, merkle.WithWorkers(o.Workers))
	}
	size := o.ProofCacheSize
	if size <= 0 {
		size = DefaultProofCacheSize
	}
	proofs, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("proof cache: %w", err)
	}

	r := &Registry{
		store:    store,
		logger:   logger,
		builder:  merkle.NewBuilder(opts...),
		metrics:  newMetrics(),
		now:      time.Now,
		building: atomic.NewInt32(0),
		proofs:   proofs,
	}

	records, seq, err := r.records()
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	r.seq = seq
	if len(records) > 0 {
		r.logger.Debugf("registry: found %d stored records", len(records))
	}
	return r, nil
}

func recordKey(seq uint64) string {
	return fmt.Sprintf("%s%016d", recordKeyPrefix, seq)
}

func referenceKey(ref string) string {
	return referenceKeyPrefix + strings.ToLower(strings.TrimSpace(ref))
}

// records reads the stored records in insertion order together with the
// sequence number of the last one.
func (r *Registry) records() ([]credential.Record, uint64, error) {
	type entry struct {
		seq    uint64
		record credential.Record
	}
	var entries []entry
	err := r.store.Iterate(recordKeyPrefix, func(key, value []byte) (bool, error) {
		seq, err := strconv.ParseUint(strings.TrimPrefix(string(key), recordKeyPrefix), 10, 64)
		if err != nil {
			return true, fmt.Errorf("parse key %q: %w", key, err)
		}
		var rec credential.Record
		if err := rec.UnmarshalBinary(value); err != nil {
			return true, fmt.Errorf("decode record %q: %w", key, err)
		}
		entries = append(entries, entry{seq: seq, record: rec})
		return false, nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	var seq uint64
	records := make([]credential.Record, 0, len(entries))
	for _, e := range entries {
		records = append(records, e.record)
		seq = e.seq
	}
	return records, seq, nil
}

// Add validates and appends a record. A missing identifier is assigned a
// UUID and a missing reference code is generated from the clock.
// The tree is not rebuilt.
func (r *Registry) Add(rec credential.Record) (credential.Record, error) {
	added, err := r.AddMultiple([]credential.Record{rec})
	if err != nil {
		return credential.Record{}, err
	}
	return added[0], nil
}

// AddMultiple validates and appends records in the given order. Either all
// records are added or none; the error reports every invalid record.
func (r *Registry) AddMultiple(recs []credential.Record) (added []credential.Record, err error) {
	var result *multierror.Error
	added = make([]credential.Record, len(recs))
	for i, rec := range recs {
		if err := rec.Validate(); err != nil {
			result = multierror.Append(result, &InvalidRecordError{Index: i, Err: err})
			continue
		}
		added[i] = r.complete(rec)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var written []string
	defer func() {
		if err == nil {
			return
		}
		for i := len(written) - 1; i >= 0; i-- {
			if err := r.store.Delete(written[i]); err != nil {
				r.logger.Errorf("registry: roll back %s: %v", written[i], err)
			}
		}
	}()

	// the first record with a reference code owns its index entry
	indexed := make(map[string]bool)
	for i, rec := range added {
		seq := r.seq + uint64(i) + 1

		key := recordKey(seq)
		if err := r.store.Put(key, rec); err != nil {
			return nil, fmt.Errorf("store record %s: %w", rec.Reference, err)
		}
		written = append(written, key)

		refKey := referenceKey(rec.Reference)
		if indexed[refKey] {
			continue
		}
		var owner uint64
		switch err := r.store.Get(refKey, &owner); {
		case err == nil:
			continue
		case !errors.Is(err, storage.ErrNotFound):
			return nil, fmt.Errorf("reference index %s: %w", rec.Reference, err)
		}
		if err := r.store.Put(refKey, seq); err != nil {
			return nil, fmt.Errorf("index record %s: %w", rec.Reference, err)
		}
		written = append(written, refKey)
		indexed[refKey] = true
	}
	r.seq += uint64(len(added))

	r.metrics.RecordsAddedCount.Add(float64(len(added)))
	for _, rec := range added {
		r.logger.WithField("reference", rec.Reference).Debug("registry: record added")
	}
	return added, nil
}

func (r *Registry) complete(rec credential.Record) credential.Record {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Reference == "" {
		ms := strconv.FormatInt(r.now().UnixMilli(), 10)
		if len(ms) > 8 {
			ms = ms[len(ms)-8:]
		}
		rec.Reference = "REF-" + ms
	}
	return rec
}

// Records returns all stored records in insertion order.
func (r *Registry) Records() ([]credential.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records, _, err := r.records()
	return records, err
}

// FindByReference returns the first record added with the reference code,
// ignoring case and surrounding whitespace.
func (r *Registry) FindByReference(ref string) (rec credential.Record, found bool, err error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var seq uint64
	if err := r.store.Get(referenceKey(ref), &seq); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return credential.Record{}, false, nil
		}
		return credential.Record{}, false, fmt.Errorf("reference index: %w", err)
	}
	if err := r.store.Get(recordKey(seq), &rec); err != nil {
		return credential.Record{}, false, fmt.Errorf("get record %d: %w", seq, err)
	}
	return rec, true, nil
}

// Tree returns the current tree, nil if none has been built or the
// registry held no records at the last rebuild.
func (r *Registry) Tree() *merkle.Tree {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.tree
}

// Root returns the current root digest, empty when there is no tree.
func (r *Registry) Root() merkle.Digest {
	return r.Tree().Root()
}

// IsBuilding reports whether a rebuild is in progress.
func (r *Registry) IsBuilding() bool {
	return r.building.Load() > 0
}

// Rebuild builds a new tree from all stored records and replaces the
// previous one. Concurrent calls that observe the same set of records share
// a single build.
func (r *Registry) Rebuild(ctx context.Context) (merkle.Digest, error) {
	r.mu.RLock()
	key := strconv.FormatUint(r.seq, 10)
	r.mu.RUnlock()

	v, shared, err := r.rebuildSF.Do(ctx, key, func(ctx context.Context) (interface{}, error) {
		return r.rebuild()
	})
	if err != nil {
		return "", err
	}
	if shared {
		r.logger.Tracef("registry: rebuild %s shared", key)
	}
	return v.(merkle.Digest), nil
}

func (r *Registry) rebuild() (merkle.Digest, error) {
	r.building.Inc()
	defer r.building.Dec()

	start := time.Now()

	r.mu.RLock()
	records, _, err := r.records()
	seq := r.seq
	r.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("read records: %w", err)
	}

	tree := r.builder.Build(records)

	r.metrics.RebuildCount.Inc()
	r.metrics.RebuildDuration.Observe(time.Since(start).Seconds())

	return r.install(seq, tree), nil
}

// install replaces the current tree with one built from the records up to
// seq and returns the root of the tree in use afterwards. A tree of an older
// record set than the current one is discarded.
func (r *Registry) install(seq uint64, tree *merkle.Tree) merkle.Digest {
	r.mu.Lock()
	if seq < r.treeSeq {
		current, currentSeq := r.tree, r.treeSeq
		r.mu.Unlock()
		r.logger.Debugf("registry: discarded tree of %d records, current tree has %d", seq, currentSeq)
		return current.Root()
	}
	r.tree = tree
	r.treeSeq = seq
	r.mu.Unlock()

	r.proofs.Purge()

	r.metrics.LeafCount.Set(float64(tree.Len()))
	r.logger.WithField("root", tree.Root()).Infof("registry: tree rebuilt with %d records", tree.Len())

	return tree.Root()
}

// proof returns the inclusion proof of the digest in the tree. Proofs are
// cached per tree root.
func (r *Registry) proof(tree *merkle.Tree, digest merkle.Digest) merkle.Proof {
	key := string(tree.Root()) + string(digest)
	if v, ok := r.proofs.Get(key); ok {
		r.metrics.ProofCacheHitCount.Inc()
		return append(merkle.Proof(nil), v.(merkle.Proof)...)
	}

	p := merkle.GenerateProof(tree, digest)
	r.metrics.ProofsGeneratedCount.Inc()
	r.proofs.Add(key, p)
	return append(merkle.Proof(nil), p...)
}
