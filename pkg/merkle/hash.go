// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package merkle

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/credtree/credtree/pkg/credential"
)

// DigestLength is the length of a hex encoded digest.
const DigestLength = 2 * sha256.Size

// Digest is a lowercase hex encoded SHA-256 hash.
type Digest string

// String implements the fmt.Stringer interface.
func (d Digest) String() string {
	return string(d)
}

// Hash returns the digest of b. It is an unkeyed integrity hash.
func Hash(b []byte) Digest {
	h := sha256.Sum256(b)
	return Digest(hex.EncodeToString(h[:]))
}

// HashPair returns the digest of the concatenation of the two hex digests.
func HashPair(left, right Digest) Digest {
	b := make([]byte, 0, len(left)+len(right))
	b = append(b, left...)
	b = append(b, right...)
	return Hash(b)
}

// LeafDigest returns the leaf digest of the record, the hash of its
// canonical form.
func LeafDigest(r credential.Record) Digest {
	return Hash(credential.Canonicalize(r))
}

// Truncate shortens a digest for display to its first and last n characters.
// Digests not longer than 2n are returned unchanged.
func Truncate(d Digest, n int) string {
	if n < 0 || len(d) <= 2*n {
		return string(d)
	}
	return string(d[:n]) + "..." + string(d[len(d)-n:])
}
