// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package credential defines the academic credential record and its
// canonical byte representation used as the input of leaf hashing.
package credential

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/vmihailenco/msgpack/v5"
)

// Separator joins the record fields in the canonical form.
const Separator = "|"

var (
	// ErrMissingField is returned by Validate for each required field that is empty.
	ErrMissingField = errors.New("missing required field")
	// ErrSeparatorInField is returned by Validate for each field of the
	// canonical form that contains Separator.
	ErrSeparatorInField = errors.New("field contains separator " + Separator)
)

// Record is an academic credential. Records are values and are never
// modified once they are part of a tree.
type Record struct {
	ID             string `json:"id" yaml:"id" msgpack:"id"`
	Surname        string `json:"surname" yaml:"surname" msgpack:"surname"`
	GivenName      string `json:"givenName" yaml:"givenName" msgpack:"givenName"`
	BirthDate      string `json:"birthDate" yaml:"birthDate" msgpack:"birthDate"`
	CredentialType string `json:"credentialType" yaml:"credentialType" msgpack:"credentialType"`
	Institution    string `json:"institution" yaml:"institution" msgpack:"institution"`
	AwardYear      string `json:"awardYear" yaml:"awardYear" msgpack:"awardYear"`
	Reference      string `json:"reference" yaml:"reference" msgpack:"reference"`
}

// Canonicalize returns the deterministic byte string of the record that is
// hashed into a tree leaf. Fields are joined with Separator in the order:
// surname, given name, birth date, credential type, institution, award year,
// reference code. The identifier is not part of the canonical form.
// Fields are used as-is, empty values included.
func Canonicalize(r Record) []byte {
	return []byte(strings.Join([]string{
		r.Surname,
		r.GivenName,
		r.BirthDate,
		r.CredentialType,
		r.Institution,
		r.AwardYear,
		r.Reference,
	}, Separator))
}

// Validate checks that the fields required for issuing a credential are
// present and that no field of the canonical form contains Separator, so
// that two different records can not share a canonical form. All failing
// fields are reported in a single error.
func (r Record) Validate() error {
	var result *multierror.Error
	for _, f := range []struct {
		name     string
		value    string
		required bool
	}{
		{"surname", r.Surname, true},
		{"givenName", r.GivenName, true},
		{"birthDate", r.BirthDate, false},
		{"credentialType", r.CredentialType, true},
		{"institution", r.Institution, true},
		{"awardYear", r.AwardYear, true},
		{"reference", r.Reference, false},
	} {
		if f.required && strings.TrimSpace(f.value) == "" {
			result = multierror.Append(result, fmt.Errorf("%s: %w", f.name, ErrMissingField))
		}
		if strings.Contains(f.value, Separator) {
			result = multierror.Append(result, fmt.Errorf("%s: %w", f.name, ErrSeparatorInField))
		}
	}
	return result.ErrorOrNil()
}

// record has the fields of Record without its methods, so that msgpack
// encodes the struct instead of calling MarshalBinary again.
type record Record

// MarshalBinary implements encoding.BinaryMarshaler.
func (r Record) MarshalBinary() ([]byte, error) {
	return msgpack.Marshal(record(r))
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (r *Record) UnmarshalBinary(data []byte) error {
	return msgpack.Unmarshal(data, (*record)(r))
}

// String returns a short human readable description of the record.
func (r Record) String() string {
	return fmt.Sprintf("%s %s, %s (%s, %s) [%s]", r.GivenName, r.Surname, r.CredentialType, r.Institution, r.AwardYear, r.Reference)
}
