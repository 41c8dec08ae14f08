// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package merkle_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/credtree/credtree/pkg/credential"
	"github.com/credtree/credtree/pkg/merkle"
)

var testRecordCounts = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 15, 16, 17, 31, 32, 33, 64, 65}

// newRecords returns n distinct records.
func newRecords(n int) []credential.Record {
	records := make([]credential.Record, n)
	for i := range records {
		records[i] = credential.Record{
			ID:             fmt.Sprint(i),
			Surname:        fmt.Sprintf("SURNAME-%d", i),
			GivenName:      "Given",
			BirthDate:      "2000-01-01",
			CredentialType: "Licence",
			Institution:    "Institution",
			AwardYear:      "2024",
			Reference:      fmt.Sprintf("REF-%04d", i),
		}
	}
	return records
}

func TestHash(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want merkle.Digest
	}{
		{
			in:   "",
			want: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			in:   "abc",
			want: "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		},
	} {
		if got := merkle.Hash([]byte(tc.in)); got != tc.want {
			t.Errorf("hash %q: got %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestHashFormat(t *testing.T) {
	d := merkle.Hash([]byte("credtree"))
	if len(d) != merkle.DigestLength {
		t.Fatalf("got digest length %d, want %d", len(d), merkle.DigestLength)
	}
	if strings.ToLower(string(d)) != string(d) {
		t.Fatalf("digest %s is not lowercase", d)
	}
	if merkle.Hash([]byte("credtreE")) == d {
		t.Fatal("single character change did not change the digest")
	}
}

func TestHashPair(t *testing.T) {
	a := merkle.Hash([]byte("a"))
	b := merkle.Hash([]byte("b"))

	if got, want := merkle.HashPair(a, b), merkle.Hash([]byte(string(a)+string(b))); got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
	if merkle.HashPair(a, b) == merkle.HashPair(b, a) {
		t.Fatal("pair hash does not depend on order")
	}
}

func TestLeafDigest(t *testing.T) {
	r := credential.Samples()[0]
	if got, want := merkle.LeafDigest(r), merkle.Hash(credential.Canonicalize(r)); got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestTruncate(t *testing.T) {
	d := merkle.Hash([]byte("abc"))
	for _, tc := range []struct {
		d    merkle.Digest
		n    int
		want string
	}{
		{d: d, n: 8, want: "ba7816bf...f20015ad"},
		{d: d, n: 6, want: "ba7816...0015ad"},
		{d: d, n: 32, want: string(d)},
		{d: "abcd", n: 2, want: "abcd"},
		{d: "", n: 8, want: ""},
	} {
		if got := merkle.Truncate(tc.d, tc.n); got != tc.want {
			t.Errorf("truncate %q to %d: got %q, want %q", tc.d, tc.n, got, tc.want)
		}
	}
}
