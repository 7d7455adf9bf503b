package manager

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/FranksOps/hoard/internal/storage"
	"github.com/FranksOps/hoard/internal/validate"
)

func newTestManager(t *testing.T, project string) *Manager {
	t.Helper()
	b := storage.NewMemory()
	t.Cleanup(func() { b.Close() })
	return New(b, Config{Project: project})
}

func TestAddDeduplicates(t *testing.T) {
	m := newTestManager(t, "")
	ctx := context.Background()

	if _, err := m.Add(ctx, []string{"a.com"}, true); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	count1, err := m.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}

	// Adding the same domain again leaves cardinality unchanged.
	if _, err := m.Add(ctx, []string{"a.com"}, true); err != nil {
		t.Fatalf("Second add failed: %v", err)
	}
	count2, err := m.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}

	if count1 != 1 || count2 != 1 {
		t.Errorf("Expected count 1 after both adds, got %d then %d", count1, count2)
	}
}

func TestAddBatchIsolation(t *testing.T) {
	m := newTestManager(t, "")
	ctx := context.Background()

	summary, err := m.Add(ctx, []string{"good.com", "*abc.com", "good.com"}, true)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if summary.Added != 1 || summary.Duplicates != 1 || summary.Invalid != 1 {
		t.Errorf("Expected {added:1, duplicate:1, invalid:1}, got {%d, %d, %d}",
			summary.Added, summary.Duplicates, summary.Invalid)
	}
	if len(summary.InvalidLines) != 1 {
		t.Fatalf("Expected exactly 1 invalid line, got %d", len(summary.InvalidLines))
	}
	inv := summary.InvalidLines[0]
	if inv.Input != "*abc.com" || inv.Reason != validate.ReasonMalformedWildcard {
		t.Errorf("Unexpected invalid line: %+v", inv)
	}
	if summary.BatchID == "" {
		t.Error("Expected a batch id")
	}
}

func TestAddSkipsBlankLinesSilently(t *testing.T) {
	m := newTestManager(t, "")
	ctx := context.Background()

	summary, err := m.Add(ctx, []string{"", "  ", "a.com", "\t"}, true)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if summary.Added != 1 || summary.Invalid != 0 {
		t.Errorf("Blank lines must not count as invalid: %+v", summary)
	}
}

func TestAddNormalizesCase(t *testing.T) {
	m := newTestManager(t, "")
	ctx := context.Background()

	if _, err := m.Add(ctx, []string{"Example.COM", "example.com"}, true); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	list, err := m.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 || list[0] != "example.com" {
		t.Errorf("Expected single normalized entry, got %v", list)
	}
}

func TestAddWithoutValidation(t *testing.T) {
	m := newTestManager(t, "")
	ctx := context.Background()

	// Validation off: anything non-blank is stored as given.
	summary, err := m.Add(ctx, []string{"not a domain/at all", "svc-*"}, false)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if summary.Added != 2 || summary.Invalid != 0 {
		t.Errorf("Expected 2 added with validation disabled, got %+v", summary)
	}
}

func TestRemovePermissive(t *testing.T) {
	m := newTestManager(t, "")
	ctx := context.Background()

	if _, err := m.Add(ctx, []string{"a.com", "b.com"}, true); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	summary, err := m.Remove(ctx, []string{"a.com", "never-added.com"})
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if summary.Removed != 1 || summary.NotFound != 1 {
		t.Errorf("Expected {removed:1, not_found:1}, got {%d, %d}", summary.Removed, summary.NotFound)
	}

	// Removing an absent domain leaves the count unchanged.
	count, err := m.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected count 1, got %d", count)
	}
}

func TestListSorted(t *testing.T) {
	m := newTestManager(t, "")
	ctx := context.Background()

	if _, err := m.Add(ctx, []string{"c.com", "a.com", "b.com"}, true); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	list, err := m.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	want := []string{"a.com", "b.com", "c.com"}
	for i := range want {
		if list[i] != want[i] {
			t.Errorf("Expected %q at %d, got %q", want[i], i, list[i])
		}
	}
}

func TestListAbsentCollection(t *testing.T) {
	m := newTestManager(t, "")
	ctx := context.Background()

	list, err := m.List(ctx)
	if err != nil {
		t.Fatalf("List on absent collection failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("Expected empty list, got %v", list)
	}

	count, err := m.Count(ctx)
	if err != nil {
		t.Fatalf("Count on absent collection failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected count 0, got %d", count)
	}
}

func TestExportJSON(t *testing.T) {
	m := newTestManager(t, "")
	ctx := context.Background()

	nowFunc = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	defer func() { nowFunc = time.Now }()

	if _, err := m.Add(ctx, []string{"b.com", "a.com"}, true); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	var buf strings.Builder
	snap, err := m.Export(ctx, &buf, FormatJSON)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if snap.DomainCount != 2 {
		t.Errorf("Expected snapshot count 2, got %d", snap.DomainCount)
	}

	var decoded struct {
		DomainCount int      `json:"domain_count"`
		ExportedAt  string   `json:"exported_at"`
		Domains     []string `json:"domains"`
	}
	if err := json.Unmarshal([]byte(buf.String()), &decoded); err != nil {
		t.Fatalf("Failed to decode export: %v", err)
	}
	if decoded.DomainCount != 2 {
		t.Errorf("Expected domain_count 2, got %d", decoded.DomainCount)
	}
	if decoded.ExportedAt != "2025-06-01T12:00:00Z" {
		t.Errorf("Unexpected exported_at: %q", decoded.ExportedAt)
	}
	if len(decoded.Domains) != 2 || decoded.Domains[0] != "a.com" || decoded.Domains[1] != "b.com" {
		t.Errorf("Expected sorted domains [a.com b.com], got %v", decoded.Domains)
	}

	// Export never mutates the collection.
	count, err := m.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Export mutated the collection: count %d", count)
	}
}

func TestExportText(t *testing.T) {
	m := newTestManager(t, "")
	ctx := context.Background()

	if _, err := m.Add(ctx, []string{"b.com", "a.com"}, true); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	var buf strings.Builder
	if _, err := m.Export(ctx, &buf, FormatText); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if buf.String() != "a.com\nb.com\n" {
		t.Errorf("Unexpected text export: %q", buf.String())
	}
}

func TestDeleteAllRequiresConfirmation(t *testing.T) {
	m := newTestManager(t, "")
	ctx := context.Background()

	if _, err := m.Add(ctx, []string{"a.com"}, true); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if _, err := m.DeleteAll(ctx, false); !errors.Is(err, ErrConfirmationRequired) {
		t.Fatalf("Expected ErrConfirmationRequired, got %v", err)
	}

	// No mutation happened.
	count, err := m.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Unconfirmed delete mutated the collection: count %d", count)
	}

	existed, err := m.DeleteAll(ctx, true)
	if err != nil {
		t.Fatalf("Confirmed delete failed: %v", err)
	}
	if !existed {
		t.Error("Expected delete to report the collection existed")
	}

	count, err = m.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected count 0 after delete, got %d", count)
	}
}

func TestProjects(t *testing.T) {
	b := storage.NewMemory()
	defer b.Close()
	ctx := context.Background()

	for _, project := range []string{"bravo", "acme"} {
		m := New(b, Config{Project: project})
		if _, err := m.Add(ctx, []string{"a.com"}, true); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
	// Default collection is not a named project.
	def := New(b, Config{})
	if _, err := def.Add(ctx, []string{"a.com"}, true); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	projects, err := def.Projects(ctx)
	if err != nil {
		t.Fatalf("Projects failed: %v", err)
	}
	if len(projects) != 2 || projects[0] != "acme" || projects[1] != "bravo" {
		t.Errorf("Expected [acme bravo], got %v", projects)
	}
}

func TestProjectsAreIsolated(t *testing.T) {
	b := storage.NewMemory()
	defer b.Close()
	ctx := context.Background()

	acme := New(b, Config{Project: "acme"})
	def := New(b, Config{})

	if _, err := acme.Add(ctx, []string{"a.com"}, true); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	count, err := def.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Default collection should be empty, got count %d", count)
	}
}

func TestAddFiles(t *testing.T) {
	m := newTestManager(t, "")
	ctx := context.Background()

	dir := t.TempDir()
	fileA := filepath.Join(dir, "a.txt")
	fileB := filepath.Join(dir, "b.txt")
	if err := os.WriteFile(fileA, []byte("a.com\nshared.com\n\nbad_tld.x\n"), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	if err := os.WriteFile(fileB, []byte("b.com\nshared.com\n"), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	summary, err := m.AddFiles(ctx, []string{fileA, fileB}, true)
	if err != nil {
		t.Fatalf("AddFiles failed: %v", err)
	}

	// shared.com lands once; which file wins the race does not matter.
	if summary.Added+summary.Duplicates != 4 {
		t.Errorf("Expected 4 processed valid lines, got %+v", summary)
	}
	if summary.Added != 3 || summary.Duplicates != 1 {
		t.Errorf("Expected {added:3, duplicate:1}, got {%d, %d}", summary.Added, summary.Duplicates)
	}
	if summary.Invalid != 1 {
		t.Errorf("Expected 1 invalid line, got %d", summary.Invalid)
	}

	count, err := m.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected count 3, got %d", count)
	}
}

func TestAddFilesMissingFile(t *testing.T) {
	m := newTestManager(t, "")
	ctx := context.Background()

	if _, err := m.AddFiles(ctx, []string{"/does/not/exist.txt"}, true); err == nil {
		t.Fatal("Expected error for missing file")
	}
}

func TestRemoveFiles(t *testing.T) {
	m := newTestManager(t, "")
	ctx := context.Background()

	if _, err := m.Add(ctx, []string{"a.com", "b.com"}, true); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	dir := t.TempDir()
	file := filepath.Join(dir, "remove.txt")
	if err := os.WriteFile(file, []byte("a.com\nmissing.com\n"), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	summary, err := m.RemoveFiles(ctx, []string{file})
	if err != nil {
		t.Fatalf("RemoveFiles failed: %v", err)
	}
	if summary.Removed != 1 || summary.NotFound != 1 {
		t.Errorf("Expected {removed:1, not_found:1}, got {%d, %d}", summary.Removed, summary.NotFound)
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("text"); err != nil || f != FormatText {
		t.Errorf("ParseFormat(text) = %v, %v", f, err)
	}
	if f, err := ParseFormat("JSON"); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(JSON) = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("Expected error for unsupported format")
	}
}
