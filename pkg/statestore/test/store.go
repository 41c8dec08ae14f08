// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package test provides the conformance tests every state store
// implementation is expected to pass.
package test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/credtree/credtree/pkg/credential"
	"github.com/credtree/credtree/pkg/storage"
	"github.com/google/go-cmp/cmp"
)

const (
	key1 = "key1" // stores the serialized type
	key2 = "key2" // stores a json array
)

var (
	value1 = &Serializing{value: "value1"}
	value2 = []string{"a", "b", "c"}
)

type Serializing struct {
	value           string
	marshalCalled   bool
	unmarshalCalled bool
}

func (st *Serializing) MarshalBinary() (data []byte, err error) {
	d := []byte(st.value)
	st.marshalCalled = true

	return d, nil
}

func (st *Serializing) UnmarshalBinary(data []byte) (err error) {
	st.value = string(data)
	st.unmarshalCalled = true
	return nil
}

// Run executes all conformance tests against stores created by f.
func Run(t *testing.T, f func(t *testing.T) storage.StateStorer) {
	t.Helper()

	t.Run("put get", func(t *testing.T) { testPutGet(t, f(t)) })
	t.Run("iterator", func(t *testing.T) { testStoreIterator(t, f(t)) })
	t.Run("iterator stop", func(t *testing.T) { testStoreIteratorStop(t, f(t)) })
	t.Run("delete", func(t *testing.T) { testDelete(t, f(t)) })
	t.Run("records", func(t *testing.T) { testRecords(t, f(t)) })
}

func testPutGet(t *testing.T, store storage.StateStorer) {
	if err := store.Put(key1, value1); err != nil {
		t.Fatal(err)
	}
	if !value1.marshalCalled {
		t.Fatal("binaryMarshaller not called on serialized type")
	}
	if err := store.Put(key2, value2); err != nil {
		t.Fatal(err)
	}

	v := &Serializing{}
	if err := store.Get(key1, v); err != nil {
		t.Fatal(err)
	}
	if !v.unmarshalCalled {
		t.Fatal("unmarshaler not called")
	}
	if v.value != value1.value {
		t.Fatalf("expected persisted to be %s but got %s", value1.value, v.value)
	}

	s := []string{}
	if err := store.Get(key2, &s); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(value2, s); diff != "" {
		t.Fatalf("deserialized data mismatch (-want +got):\n%s", diff)
	}

	if err := store.Get("missing", &s); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("got error %v, want %v", err, storage.ErrNotFound)
	}
}

func testStoreIterator(t *testing.T, store storage.StateStorer) {
	storePrefix := "test_"
	for k, v := range map[string]string{
		storePrefix + "key1": "value1",
		// do not include prefix in one of the entries
		"key2":              "value2",
		storePrefix + "key3": "value3",
	} {
		if err := store.Put(k, v); err != nil {
			t.Fatal(err)
		}
	}

	entries := make(map[string]string)
	err := store.Iterate(storePrefix, func(key []byte, value []byte) (stop bool, err error) {
		var entry string
		if err := json.Unmarshal(value, &entry); err != nil {
			return true, err
		}
		entries[string(key)] = entry
		return false, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	expectedEntries := map[string]string{"test_key1": "value1", "test_key3": "value3"}
	if diff := cmp.Diff(expectedEntries, entries); diff != "" {
		t.Fatalf("store entries mismatch (-want +got):\n%s", diff)
	}
}

func testStoreIteratorStop(t *testing.T, store storage.StateStorer) {
	for _, k := range []string{"stop_a", "stop_b", "stop_c"} {
		if err := store.Put(k, k); err != nil {
			t.Fatal(err)
		}
	}

	count := 0
	err := store.Iterate("stop_", func(_, _ []byte) (bool, error) {
		count++
		return true, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("iterated over %d entries after stop, want 1", count)
	}

	errTest := errors.New("test error")
	err = store.Iterate("stop_", func(_, _ []byte) (bool, error) {
		return false, errTest
	})
	if !errors.Is(err, errTest) {
		t.Fatalf("got error %v, want %v", err, errTest)
	}
}

func testDelete(t *testing.T, store storage.StateStorer) {
	if err := store.Put(key1, "value"); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(key1); err != nil {
		t.Fatal(err)
	}
	var v string
	if err := store.Get(key1, &v); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("got error %v, want %v", err, storage.ErrNotFound)
	}
}

func testRecords(t *testing.T, store storage.StateStorer) {
	want := credential.Samples()[3]
	if err := store.Put("record", want); err != nil {
		t.Fatal(err)
	}

	var got credential.Record
	if err := store.Get("record", &got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}
