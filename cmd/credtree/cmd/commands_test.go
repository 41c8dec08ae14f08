// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/credtree/credtree/cmd/credtree/cmd"
	"github.com/credtree/credtree/pkg/credential"
	"github.com/credtree/credtree/pkg/merkle"
	"github.com/credtree/credtree/pkg/registry"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

const recordsYAML = `- surname: DIALLO
  givenName: Fatou
  birthDate: "1999-04-02"
  credentialType: Master
  institution: UFHB
  awardYear: 2024
  reference: UFHB-2024-MAS-007
- surname: OUATTARA
  givenName: Ibrahim
  birthDate: "2000-11-23"
  credentialType: Licence
  institution: UAO
  awardYear: "2023"
  reference: UAO-2023-LIC-311
- surname: YAO
  givenName: Akissi
  birthDate: "1998-01-30"
  credentialType: BTS
  institution: INPHB
  awardYear: "2021"
  reference: INPHB-2021-BTS-020
`

var fileRecords = []credential.Record{
	{Surname: "DIALLO", GivenName: "Fatou", BirthDate: "1999-04-02", CredentialType: "Master", Institution: "UFHB", AwardYear: "2024", Reference: "UFHB-2024-MAS-007"},
	{Surname: "OUATTARA", GivenName: "Ibrahim", BirthDate: "2000-11-23", CredentialType: "Licence", Institution: "UAO", AwardYear: "2023", Reference: "UAO-2023-LIC-311"},
	{Surname: "YAO", GivenName: "Akissi", BirthDate: "1998-01-30", CredentialType: "BTS", Institution: "INPHB", AwardYear: "2021", Reference: "INPHB-2021-BTS-020"},
}

func TestRootCmd(t *testing.T) {
	fs := afero.NewMemMapFs()

	got, err := run(t, fs, "root", "--sample", "--verbosity", "0")
	if err != nil {
		t.Fatal(err)
	}
	want := merkle.Build(credential.Samples()).Root().String() + "\n"
	if got != want {
		t.Errorf("got output %q, want %q", got, want)
	}
}

func TestRootCmdNoRecords(t *testing.T) {
	got, err := run(t, afero.NewMemMapFs(), "root", "--verbosity", "silent")
	if err != nil {
		t.Fatal(err)
	}
	if got != "\n" {
		t.Errorf("got output %q, want empty line", got)
	}
}

func TestRootCmdRecordsFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/records.yaml", recordsYAML)

	b, err := json.Marshal(fileRecords)
	if err != nil {
		t.Fatal(err)
	}
	writeFile(t, fs, "/records.json", string(b))

	for _, path := range []string{"/records.yaml", "/records.json"} {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			got, err := run(t, fs, "root", "--records", path, "--verbosity", "0", "--output", "json")
			if err != nil {
				t.Fatal(err)
			}

			var out struct {
				Root   merkle.Digest `json:"root"`
				Leaves int           `json:"leaves"`
			}
			if err := json.Unmarshal([]byte(got), &out); err != nil {
				t.Fatal(err)
			}
			if want := merkle.Build(fileRecords).Root(); out.Root != want {
				t.Errorf("got root %s, want %s", out.Root, want)
			}
			if out.Leaves != len(fileRecords) {
				t.Errorf("got %d leaves, want %d", out.Leaves, len(fileRecords))
			}
		})
	}
}

func TestRootCmdSampleAndRecordsFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/records.yaml", recordsYAML)

	got, err := run(t, fs, "root", "--sample", "--records", "/records.yaml", "--verbosity", "0")
	if err != nil {
		t.Fatal(err)
	}
	want := merkle.Build(append(credential.Samples(), fileRecords...)).Root().String() + "\n"
	if got != want {
		t.Errorf("got output %q, want %q", got, want)
	}
}

func TestRootCmdInvalidRecordsFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/records.yaml", "- surname: DIALLO\n  reference: X\n")

	_, err := run(t, fs, "root", "--records", "/records.yaml", "--verbosity", "0")
	if !errors.Is(err, registry.ErrInvalidRecord) {
		t.Fatalf("got error %v, want %v", err, registry.ErrInvalidRecord)
	}
}

func TestMetricsFile(t *testing.T) {
	fs := afero.NewMemMapFs()

	if _, err := run(t, fs, "root", "--sample", "--verbosity", "info", "--metrics-file", "/metrics.txt"); err != nil {
		t.Fatal(err)
	}

	b, err := afero.ReadFile(fs, "/metrics.txt")
	if err != nil {
		t.Fatal(err)
	}
	got := string(b)
	n := len(credential.Samples())
	for _, want := range []string{
		"credtree_registry_rebuild_count 1\n",
		fmt.Sprintf("credtree_registry_records_added_count %d\n", n),
		fmt.Sprintf("credtree_registry_leaf_count %d\n", n),
		"# TYPE credtree_log_info_count counter\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("metrics file does not contain %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "credtree_log_info_count 0\n") {
		t.Errorf("info log lines are not counted:\n%s", got)
	}
}

func TestMetricsFileInvalidRecords(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/records.yaml", "- surname: DIALLO\n  reference: X\n")

	_, err := run(t, fs, "root", "--records", "/records.yaml", "--verbosity", "0", "--metrics-file", "/metrics.txt")
	if !errors.Is(err, registry.ErrInvalidRecord) {
		t.Fatalf("got error %v, want %v", err, registry.ErrInvalidRecord)
	}

	b, err := afero.ReadFile(fs, "/metrics.txt")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"credtree_registry_records_added_count 0\n",
		"credtree_registry_rebuild_count 0\n",
	} {
		if !strings.Contains(string(b), want) {
			t.Errorf("metrics file does not contain %q:\n%s", want, b)
		}
	}
}

func TestRootCmdMissingRecordsFile(t *testing.T) {
	_, err := run(t, afero.NewMemMapFs(), "root", "--records", "/missing.yaml", "--verbosity", "0")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestLeavesCmd(t *testing.T) {
	got, err := run(t, afero.NewMemMapFs(), "leaves", "--sample", "--verbosity", "0")
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	if len(lines) != len(credential.Samples()) {
		t.Fatalf("got %d lines, want %d", len(lines), len(credential.Samples()))
	}
	for i, rec := range credential.Samples() {
		want := strings.Join([]string{
			string(rune('0' + i)),
			merkle.Truncate(merkle.LeafDigest(rec), 8),
			rec.Reference,
		}, " ")
		if lines[i] != want {
			t.Errorf("line %d: got %q, want %q", i, lines[i], want)
		}
	}
}

func TestTreeCmd(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/records.yaml", recordsYAML)

	got, err := run(t, fs, "tree", "--records", "/records.yaml", "--verbosity", "0", "--output", "json")
	if err != nil {
		t.Fatal(err)
	}

	type node struct {
		Digest    merkle.Digest `json:"hash"`
		Leaf      bool          `json:"leaf"`
		Padded    bool          `json:"padded"`
		Reference string        `json:"reference"`
	}
	var levels [][]node
	if err := json.Unmarshal([]byte(got), &levels); err != nil {
		t.Fatal(err)
	}

	a, b, c := merkle.LeafDigest(fileRecords[0]), merkle.LeafDigest(fileRecords[1]), merkle.LeafDigest(fileRecords[2])
	ab, cc := merkle.HashPair(a, b), merkle.HashPair(c, c)
	want := [][]node{
		{{Digest: merkle.HashPair(ab, cc)}},
		{{Digest: ab}, {Digest: cc, Padded: true}},
		{
			{Digest: a, Leaf: true, Reference: fileRecords[0].Reference},
			{Digest: b, Leaf: true, Reference: fileRecords[1].Reference},
			{Digest: c, Leaf: true, Reference: fileRecords[2].Reference},
		},
	}
	if diff := cmp.Diff(want, levels); diff != "" {
		t.Errorf("levels mismatch (-want +got):\n%s", diff)
	}
}

func TestTreeCmdText(t *testing.T) {
	got, err := run(t, afero.NewMemMapFs(), "tree", "--sample", "--verbosity", "0")
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d levels, want 3:\n%s", len(lines), got)
	}
	root := merkle.Truncate(merkle.Build(credential.Samples()).Root(), 8)
	if want := "0: " + root; lines[0] != want {
		t.Errorf("got root line %q, want %q", lines[0], want)
	}
	for _, rec := range credential.Samples() {
		if !strings.Contains(lines[2], "("+rec.Reference+")") {
			t.Errorf("leaf level %q does not mark %s", lines[2], rec.Reference)
		}
	}
}

func TestProofCmd(t *testing.T) {
	for _, output := range []string{"json", "yaml"} {
		t.Run(output, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			writeFile(t, fs, "/records.yaml", recordsYAML)

			got, err := run(t, fs, "proof", "--records", "/records.yaml", "--reference", "inphb-2021-bts-020", "--verbosity", "0", "--output", output)
			if err != nil {
				t.Fatal(err)
			}

			var out struct {
				Reference string        `json:"reference" yaml:"reference"`
				Digest    merkle.Digest `json:"hash" yaml:"hash"`
				Root      merkle.Digest `json:"root" yaml:"root"`
				Proof     merkle.Proof  `json:"proof" yaml:"proof"`
			}
			if output == "json" {
				err = json.Unmarshal([]byte(got), &out)
			} else {
				err = yaml.Unmarshal([]byte(got), &out)
			}
			if err != nil {
				t.Fatal(err)
			}

			if out.Reference != "INPHB-2021-BTS-020" {
				t.Errorf("got reference %q", out.Reference)
			}
			if want := merkle.Build(fileRecords).Root(); out.Root != want {
				t.Errorf("got root %s, want %s", out.Root, want)
			}
			c := merkle.LeafDigest(fileRecords[2])
			want := merkle.Proof{
				{Sibling: c, Position: merkle.Right},
				{Sibling: merkle.HashPair(merkle.LeafDigest(fileRecords[0]), merkle.LeafDigest(fileRecords[1])), Position: merkle.Left},
			}
			if diff := cmp.Diff(want, out.Proof); diff != "" {
				t.Errorf("proof mismatch (-want +got):\n%s", diff)
			}
			if !merkle.Verify(out.Digest, out.Proof, out.Root) {
				t.Error("proof does not verify")
			}
		})
	}
}

func TestProofCmdNotFound(t *testing.T) {
	_, err := run(t, afero.NewMemMapFs(), "proof", "--sample", "--reference", "REF-UNKNOWN", "--verbosity", "0")
	if !errors.Is(err, cmd.ErrReferenceNotFound) {
		t.Fatalf("got error %v, want %v", err, cmd.ErrReferenceNotFound)
	}
}

func TestProofCmdMissingReference(t *testing.T) {
	if _, err := run(t, afero.NewMemMapFs(), "proof", "--sample", "--verbosity", "0"); err == nil {
		t.Fatal("expected error")
	}
}

func TestVerifyCmd(t *testing.T) {
	rec := credential.Samples()[3]
	root := merkle.Build(credential.Samples()).Root()

	for _, tc := range []struct {
		name       string
		args       []string
		wantStatus registry.Status
		wantErr    error
	}{
		{
			name:       "valid",
			args:       []string{"--reference", rec.Reference},
			wantStatus: registry.StatusValid,
		},
		{
			name:       "valid against root",
			args:       []string{"--reference", rec.Reference, "--root", strings.ToUpper(root.String())},
			wantStatus: registry.StatusValid,
		},
		{
			name:       "invalid against root",
			args:       []string{"--reference", rec.Reference, "--root", merkle.Hash([]byte("other")).String()},
			wantStatus: registry.StatusInvalid,
			wantErr:    cmd.ErrVerificationFailed,
		},
		{
			name:       "not found",
			args:       []string{"--reference", "REF-UNKNOWN"},
			wantStatus: registry.StatusNotFound,
			wantErr:    cmd.ErrVerificationFailed,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			args := append([]string{"verify", "--sample", "--verbosity", "0"}, tc.args...)
			got, err := run(t, afero.NewMemMapFs(), args...)
			if tc.wantErr == nil && err != nil {
				t.Fatal(err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("got error %v, want %v", err, tc.wantErr)
			}
			if want := "status: " + tc.wantStatus.String() + "\n"; !strings.HasPrefix(got, want) {
				t.Errorf("got output %q, want prefix %q", got, want)
			}
		})
	}
}

func TestVerifyCmdJSON(t *testing.T) {
	rec := credential.Samples()[0]

	got, err := run(t, afero.NewMemMapFs(), "verify", "--sample", "--reference", rec.Reference, "--verbosity", "0", "--output", "json")
	if err != nil {
		t.Fatal(err)
	}

	var out struct {
		Status string            `json:"status"`
		Record credential.Record `json:"record"`
		Digest merkle.Digest     `json:"hash"`
		Proof  merkle.Proof      `json:"proof"`
		Root   merkle.Digest     `json:"root"`
	}
	if err := json.Unmarshal([]byte(got), &out); err != nil {
		t.Fatal(err)
	}
	if out.Status != "valid" {
		t.Errorf("got status %q, want valid", out.Status)
	}
	if diff := cmp.Diff(rec, out.Record); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
	if !merkle.Verify(out.Digest, out.Proof, out.Root) {
		t.Error("proof does not verify")
	}
}

func TestVerifyCmdOtherRoot(t *testing.T) {
	rec := credential.Samples()[1]
	other := merkle.Build(fileRecords).Root()

	got, err := run(t, afero.NewMemMapFs(), "verify", "--sample", "--reference", rec.Reference, "--root", other.String(), "--verbosity", "0", "--output", "json")
	if !errors.Is(err, cmd.ErrVerificationFailed) {
		t.Fatalf("got error %v, want %v", err, cmd.ErrVerificationFailed)
	}

	var out struct {
		Status string        `json:"status"`
		Digest merkle.Digest `json:"hash"`
		Proof  merkle.Proof  `json:"proof"`
		Root   merkle.Digest `json:"root"`
	}
	if err := json.Unmarshal([]byte(got), &out); err != nil {
		t.Fatal(err)
	}
	if out.Status != "invalid" {
		t.Errorf("got status %q, want invalid", out.Status)
	}
	if out.Root != other {
		t.Errorf("got root %s, want %s", out.Root, other)
	}
	if merkle.Verify(out.Digest, out.Proof, out.Root) {
		t.Error("proof verifies against the other root")
	}
	if !merkle.Verify(out.Digest, out.Proof, merkle.Build(credential.Samples()).Root()) {
		t.Error("proof does not verify against the records root")
	}
}

func TestVerifyCmdNoRecords(t *testing.T) {
	_, err := run(t, afero.NewMemMapFs(), "verify", "--reference", "REF-1", "--verbosity", "0")
	if !errors.Is(err, registry.ErrNoCommitment) {
		t.Fatalf("got error %v, want %v", err, registry.ErrNoCommitment)
	}
}

func TestUnknownOutput(t *testing.T) {
	if _, err := run(t, afero.NewMemMapFs(), "root", "--sample", "--verbosity", "0", "--output", "xml"); err == nil {
		t.Fatal("expected error")
	}
}

func TestUnknownVerbosity(t *testing.T) {
	if _, err := run(t, afero.NewMemMapFs(), "root", "--verbosity", "loud"); err == nil {
		t.Fatal("expected error")
	}
}

func TestConfigFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, filepath.Join(homeDir, ".credtree.yaml"), "sample: true\nverbosity: silent\noutput: json\n")

	got, err := run(t, fs, "root")
	if err != nil {
		t.Fatal(err)
	}
	var out struct {
		Root merkle.Digest `json:"root"`
	}
	if err := json.Unmarshal([]byte(got), &out); err != nil {
		t.Fatal(err)
	}
	if want := merkle.Build(credential.Samples()).Root(); out.Root != want {
		t.Errorf("got root %s, want %s", out.Root, want)
	}
}

func TestConfigFileFlag(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/records.yaml", recordsYAML)
	writeFile(t, fs, "/etc/credtree.yaml", "records: /records.yaml\nverbosity: 0\n")

	var out strings.Builder
	err := newCommand(t,
		cmd.WithFS(fs),
		cmd.WithCfgFile("/etc/credtree.yaml"),
		cmd.WithArgs("root"),
		cmd.WithOutput(&out),
	).Execute()
	if err != nil {
		t.Fatal(err)
	}
	if want := merkle.Build(fileRecords).Root().String() + "\n"; out.String() != want {
		t.Errorf("got output %q, want %q", out.String(), want)
	}
}

func TestEnvironment(t *testing.T) {
	t.Setenv("CREDTREE_SAMPLE", "true")
	t.Setenv("CREDTREE_VERBOSITY", "0")

	got, err := run(t, afero.NewMemMapFs(), "root")
	if err != nil {
		t.Fatal(err)
	}
	if want := merkle.Build(credential.Samples()).Root().String() + "\n"; got != want {
		t.Errorf("got output %q, want %q", got, want)
	}
}

func TestHashCmd(t *testing.T) {
	got, err := run(t, afero.NewMemMapFs(), "hash", "--sample", "--verbosity", "0")
	if err != nil {
		t.Fatal(err)
	}

	var want strings.Builder
	for _, rec := range credential.Samples() {
		want.WriteString(merkle.LeafDigest(rec).String() + " " + string(credential.Canonicalize(rec)) + "\n")
	}
	if got != want.String() {
		t.Errorf("got output %q, want %q", got, want.String())
	}
}
