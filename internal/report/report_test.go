package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/FranksOps/hoard/internal/validate"
)

func TestNewSnapshotSortsWithoutMutating(t *testing.T) {
	input := []string{"b.com", "a.com", "c.com"}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	snap := NewSnapshot(input, now)

	if snap.DomainCount != 3 {
		t.Errorf("Expected DomainCount 3, got %d", snap.DomainCount)
	}
	if snap.ExportedAt != "2025-06-01T12:00:00Z" {
		t.Errorf("Unexpected ExportedAt: %q", snap.ExportedAt)
	}
	want := []string{"a.com", "b.com", "c.com"}
	for i := range want {
		if snap.Domains[i] != want[i] {
			t.Errorf("Expected domain %q at %d, got %q", want[i], i, snap.Domains[i])
		}
	}
	// Input order untouched.
	if input[0] != "b.com" || input[1] != "a.com" {
		t.Errorf("NewSnapshot mutated its input: %v", input)
	}
}

func TestWriteJSON(t *testing.T) {
	snap := NewSnapshot([]string{"b.com", "a.com"}, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	var buf strings.Builder
	if err := WriteJSON(&buf, snap); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var decoded struct {
		DomainCount int      `json:"domain_count"`
		ExportedAt  string   `json:"exported_at"`
		Domains     []string `json:"domains"`
	}
	if err := json.Unmarshal([]byte(buf.String()), &decoded); err != nil {
		t.Fatalf("Failed to decode export JSON: %v", err)
	}

	if decoded.DomainCount != 2 {
		t.Errorf("Expected domain_count 2, got %d", decoded.DomainCount)
	}
	if decoded.ExportedAt == "" {
		t.Error("Expected exported_at to be set")
	}
	if len(decoded.Domains) != 2 || decoded.Domains[0] != "a.com" || decoded.Domains[1] != "b.com" {
		t.Errorf("Expected sorted domains [a.com b.com], got %v", decoded.Domains)
	}
}

func TestWriteText(t *testing.T) {
	snap := NewSnapshot([]string{"b.com", "a.com"}, time.Now())

	var buf strings.Builder
	if err := WriteText(&buf, snap); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}

	if buf.String() != "a.com\nb.com\n" {
		t.Errorf("Unexpected text export: %q", buf.String())
	}
}

func TestWriteAddSummary(t *testing.T) {
	summary := AddSummary{
		Added:      1,
		Duplicates: 1,
		Invalid:    1,
		InvalidLines: []InvalidLine{
			{Line: 2, Input: "*abc.com", Reason: validate.ReasonMalformedWildcard},
		},
	}

	var buf strings.Builder
	if err := WriteAddSummary(&buf, summary); err != nil {
		t.Fatalf("WriteAddSummary failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Processed 3 domains: 1 added, 1 duplicates, 1 invalid") {
		t.Errorf("Summary missing counts: %q", out)
	}
	if !strings.Contains(out, "*abc.com (malformed_wildcard)") {
		t.Errorf("Summary missing invalid line detail: %q", out)
	}
}

func TestAddSummaryMerge(t *testing.T) {
	a := AddSummary{BatchID: "keep", Added: 1, Duplicates: 2}
	b := AddSummary{BatchID: "drop", Added: 3, Invalid: 1,
		InvalidLines: []InvalidLine{{Line: 1, Input: "x", Reason: validate.ReasonBadTLD}}}

	a.Merge(b)

	if a.BatchID != "keep" {
		t.Errorf("Merge overwrote BatchID: %q", a.BatchID)
	}
	if a.Added != 4 || a.Duplicates != 2 || a.Invalid != 1 {
		t.Errorf("Unexpected merged counts: %+v", a)
	}
	if len(a.InvalidLines) != 1 {
		t.Errorf("Expected 1 invalid line after merge, got %d", len(a.InvalidLines))
	}
}

func TestWriteRemoveSummary(t *testing.T) {
	var buf strings.Builder
	if err := WriteRemoveSummary(&buf, RemoveSummary{Removed: 2, NotFound: 1}); err != nil {
		t.Fatalf("WriteRemoveSummary failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Processed 3 domains: 2 removed, 1 not found") {
		t.Errorf("Unexpected remove summary: %q", buf.String())
	}
}
