// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package registry

import (
	"fmt"

	"github.com/credtree/credtree/pkg/credential"
	"github.com/credtree/credtree/pkg/merkle"
	"github.com/sirupsen/logrus"
)

// Status is the outcome of a verification.
type Status uint8

const (
	// StatusValid means the record is committed under the current root.
	StatusValid Status = iota + 1
	// StatusInvalid means the record does not verify against the current
	// root: it was altered, or added after the last rebuild.
	StatusInvalid
	// StatusNotFound means no record has the requested reference code.
	StatusNotFound
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	case StatusNotFound:
		return "not found"
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	switch s {
	case StatusValid, StatusInvalid, StatusNotFound:
		return []byte(s.String()), nil
	}
	return nil, fmt.Errorf("invalid status %d", uint8(s))
}

// Result is the report of a verification. Record, Digest and Proof are
// empty for StatusNotFound.
type Result struct {
	Status Status            `json:"status" yaml:"status"`
	Record credential.Record `json:"record" yaml:"record"`
	Digest merkle.Digest     `json:"hash,omitempty" yaml:"hash,omitempty"`
	Proof  merkle.Proof      `json:"proof" yaml:"proof"`
	Root   merkle.Digest     `json:"root" yaml:"root"`
}

// VerifyRecord checks the record against the current root. ErrNoCommitment
// is returned if no tree has been built.
func (r *Registry) VerifyRecord(rec credential.Record) (Result, error) {
	tree := r.Tree()
	if tree == nil {
		return Result{}, ErrNoCommitment
	}

	res := Result{
		Status: StatusInvalid,
		Record: rec,
		Digest: merkle.LeafDigest(rec),
		Root:   tree.Root(),
	}
	res.Proof = r.proof(tree, res.Digest)
	if merkle.Verify(res.Digest, res.Proof, res.Root) {
		res.Status = StatusValid
	}

	r.metrics.VerificationCount.WithLabelValues(res.Status.String()).Inc()
	r.logger.WithFields(logrus.Fields{
		"reference": rec.Reference,
		"status":    res.Status,
	}).Debugf("registry: verified record with %d proof steps", len(res.Proof))
	return res, nil
}

// VerifyReference looks the record up by its reference code and verifies it.
func (r *Registry) VerifyReference(ref string) (Result, error) {
	tree := r.Tree()
	if tree == nil {
		return Result{}, ErrNoCommitment
	}

	rec, ok, err := r.FindByReference(ref)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		r.metrics.VerificationCount.WithLabelValues(StatusNotFound.String()).Inc()
		r.logger.WithField("reference", ref).Debug("registry: reference not found")
		return Result{Status: StatusNotFound, Root: tree.Root()}, nil
	}
	return r.VerifyRecord(rec)
}
