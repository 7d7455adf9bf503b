package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/template"
	"time"

	"github.com/FranksOps/hoard/internal/validate"
)

// AddSummary contains the outcome of one batch add. Counts are per entry:
// a batch never fails as a whole because individual lines were invalid or
// already present.
type AddSummary struct {
	BatchID    string
	Added      int
	Duplicates int
	Invalid    int
	// InvalidLines carries each rejected line with its reason so callers
	// can reconcile expected vs. actual effect.
	InvalidLines []InvalidLine
}

// InvalidLine is a single rejected input line.
type InvalidLine struct {
	Line   int
	Input  string
	Reason validate.Reason
}

// Total returns the number of non-blank lines the batch processed.
func (s AddSummary) Total() int {
	return s.Added + s.Duplicates + s.Invalid
}

// Merge folds another summary into this one, keeping this BatchID.
func (s *AddSummary) Merge(other AddSummary) {
	s.Added += other.Added
	s.Duplicates += other.Duplicates
	s.Invalid += other.Invalid
	s.InvalidLines = append(s.InvalidLines, other.InvalidLines...)
}

// RemoveSummary contains the outcome of one batch remove.
type RemoveSummary struct {
	BatchID  string
	Removed  int
	NotFound int
}

// Snapshot is an immutable point-in-time copy of a collection, in the wire
// shape of the JSON export format.
type Snapshot struct {
	DomainCount int      `json:"domain_count"`
	ExportedAt  string   `json:"exported_at"`
	Domains     []string `json:"domains"`
}

// NewSnapshot builds a snapshot from an unordered member list. The input
// slice is not modified; the snapshot holds a sorted copy.
func NewSnapshot(domains []string, now time.Time) Snapshot {
	sorted := make([]string, len(domains))
	copy(sorted, domains)
	sort.Strings(sorted)

	return Snapshot{
		DomainCount: len(sorted),
		ExportedAt:  now.UTC().Format(time.RFC3339),
		Domains:     sorted,
	}
}

// WriteJSON writes the snapshot to the provided writer in JSON format.
func WriteJSON(w io.Writer, snap Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// WriteText writes the snapshot domains one per line, sorted.
func WriteText(w io.Writer, snap Snapshot) error {
	for _, domain := range snap.Domains {
		if _, err := fmt.Fprintln(w, domain); err != nil {
			return fmt.Errorf("failed to write domain: %w", err)
		}
	}
	return nil
}

// WriteAddSummary writes a human-readable add summary to the provided writer.
func WriteAddSummary(w io.Writer, summary AddSummary) error {
	const textTmpl = `Processed {{.Total}} domains: {{.Added}} added, {{.Duplicates}} duplicates, {{.Invalid}} invalid
{{- range .InvalidLines}}
  line {{.Line}}: {{.Input}} ({{.Reason}})
{{- end}}
`

	t, err := template.New("addSummary").Parse(textTmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	if err := t.Execute(w, summary); err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}

	return nil
}

// WriteRemoveSummary writes a human-readable remove summary to the provided writer.
func WriteRemoveSummary(w io.Writer, summary RemoveSummary) error {
	_, err := fmt.Fprintf(w, "Processed %d domains: %d removed, %d not found\n",
		summary.Removed+summary.NotFound, summary.Removed, summary.NotFound)
	if err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}
	return nil
}
