package metrics

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/FranksOps/hoard/internal/report"
	"github.com/FranksOps/hoard/internal/validate"
)

func TestMetricsServer(t *testing.T) {
	srv := Start(8898)
	// Give it a tiny bit of time to start up
	time.Sleep(100 * time.Millisecond)

	defer srv.Stop(context.Background())

	RecordAdd("acme", report.AddSummary{
		Added:      2,
		Duplicates: 1,
		Invalid:    1,
		InvalidLines: []report.InvalidLine{
			{Line: 3, Input: "*abc.com", Reason: validate.ReasonMalformedWildcard},
		},
	})
	RecordRemove("acme", report.RemoveSummary{Removed: 1, NotFound: 1})
	RecordStorageError("add")

	resp, err := http.Get("http://localhost:8898/metrics")
	if err != nil {
		t.Fatalf("failed to fetch metrics: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read metrics body: %v", err)
	}
	out := string(body)

	for _, want := range []string{
		"hoard_domains_added_total",
		"hoard_domains_duplicate_total",
		`hoard_domains_invalid_total{project="acme",reason="malformed_wildcard"}`,
		"hoard_domains_removed_total",
		"hoard_domains_notfound_total",
		"hoard_storage_errors_total",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
