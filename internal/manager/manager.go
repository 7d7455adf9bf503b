package manager

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/FranksOps/hoard/internal/metrics"
	"github.com/FranksOps/hoard/internal/report"
	"github.com/FranksOps/hoard/internal/storage"
	"github.com/FranksOps/hoard/internal/validate"
	"github.com/FranksOps/hoard/pkg/ratelimit"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// keyPrefix is the flat storage namespace all collections live under.
const keyPrefix = "domains"

// ErrConfirmationRequired blocks destructive operations attempted without
// explicit confirmation.
var ErrConfirmationRequired = errors.New("confirmation required")

// nowFunc stamps export snapshots; overridable in tests.
var nowFunc = time.Now

// Format selects the export output shape.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", s)
	}
}

// Config configures a Manager.
type Config struct {
	// Project selects a named collection; empty means the default one.
	Project string
	// Limiter optionally paces per-entry writes against a shared store.
	Limiter *ratelimit.Limiter
	Logger  *slog.Logger
}

// Manager is the deduplicated set-storage engine. It owns no ambient state;
// the backend handle is passed in at construction and released by the owner.
// Batch operations are sequences of independent per-entry set operations:
// partial success is the expected outcome, and entries committed before a
// failure or cancellation stay committed.
type Manager struct {
	backend storage.Backend
	project string
	limiter *ratelimit.Limiter
	logger  *slog.Logger
}

// New creates a Manager on top of the given backend.
func New(backend storage.Backend, cfg Config) *Manager {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		backend: backend,
		project: cfg.Project,
		limiter: cfg.Limiter,
		logger:  logger,
	}
}

// key returns the storage key of this manager's collection.
func (m *Manager) key() string {
	if m.project == "" {
		return keyPrefix
	}
	return keyPrefix + ":" + m.project
}

// Add classifies each line and inserts the valid domains into the
// collection. Blank lines are skipped silently; invalid lines are counted
// and reported but never abort the batch. With validation disabled, lines
// are stored as given after whitespace trimming. A backend error is fatal
// for the batch and returns the summary accumulated so far.
func (m *Manager) Add(ctx context.Context, lines []string, validateInput bool) (report.AddSummary, error) {
	summary := report.AddSummary{BatchID: uuid.NewString()}

	for i, line := range lines {
		domain := strings.TrimSpace(line)
		if domain == "" {
			continue
		}

		if validateInput {
			res := validate.Classify(domain)
			switch res.Outcome {
			case validate.Skipped:
				continue
			case validate.Invalid:
				summary.Invalid++
				summary.InvalidLines = append(summary.InvalidLines, report.InvalidLine{
					Line:   i + 1,
					Input:  domain,
					Reason: res.Reason,
				})
				m.logger.Warn("invalid domain skipped",
					"batch", summary.BatchID, "line", i+1, "input", domain, "reason", string(res.Reason))
				continue
			}
			domain = res.Domain
		}

		if m.limiter != nil {
			if err := m.limiter.Wait(ctx); err != nil {
				return summary, err
			}
		}

		added, err := m.backend.Add(ctx, m.key(), domain)
		if err != nil {
			metrics.RecordStorageError("add")
			return summary, fmt.Errorf("failed to add %q: %w", domain, err)
		}
		if added {
			summary.Added++
		} else {
			summary.Duplicates++
		}
	}

	metrics.RecordAdd(m.project, summary)
	m.logger.Info("batch add complete",
		"batch", summary.BatchID, "added", summary.Added,
		"duplicates", summary.Duplicates, "invalid", summary.Invalid)
	return summary, nil
}

// AddFiles ingests newline-delimited domain files concurrently and merges
// the per-file summaries. A missing or unreadable file fails the whole call.
func (m *Manager) AddFiles(ctx context.Context, paths []string, validateInput bool) (report.AddSummary, error) {
	merged := report.AddSummary{BatchID: uuid.NewString()}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, path := range paths {
		g.Go(func() error {
			lines, err := readLines(path)
			if err != nil {
				return err
			}
			summary, err := m.Add(ctx, lines, validateInput)
			mu.Lock()
			merged.Merge(summary)
			mu.Unlock()
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return merged, err
	}
	return merged, nil
}

// Remove deletes each given domain from the collection. Removal is
// permissive: targets are not validated, and absent members are reported as
// not found rather than failing.
func (m *Manager) Remove(ctx context.Context, domains []string) (report.RemoveSummary, error) {
	summary := report.RemoveSummary{BatchID: uuid.NewString()}

	for _, line := range domains {
		domain := strings.TrimSpace(line)
		if domain == "" {
			continue
		}

		if m.limiter != nil {
			if err := m.limiter.Wait(ctx); err != nil {
				return summary, err
			}
		}

		removed, err := m.backend.Remove(ctx, m.key(), domain)
		if err != nil {
			metrics.RecordStorageError("remove")
			return summary, fmt.Errorf("failed to remove %q: %w", domain, err)
		}
		if removed {
			summary.Removed++
		} else {
			summary.NotFound++
			m.logger.Warn("domain not found", "batch", summary.BatchID, "domain", domain)
		}
	}

	metrics.RecordRemove(m.project, summary)
	m.logger.Info("batch remove complete",
		"batch", summary.BatchID, "removed", summary.Removed, "not_found", summary.NotFound)
	return summary, nil
}

// RemoveFiles removes every domain listed in the given files.
func (m *Manager) RemoveFiles(ctx context.Context, paths []string) (report.RemoveSummary, error) {
	merged := report.RemoveSummary{BatchID: uuid.NewString()}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, path := range paths {
		g.Go(func() error {
			lines, err := readLines(path)
			if err != nil {
				return err
			}
			summary, err := m.Remove(ctx, lines)
			mu.Lock()
			merged.Removed += summary.Removed
			merged.NotFound += summary.NotFound
			mu.Unlock()
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return merged, err
	}
	return merged, nil
}

// Count returns the collection's cardinality, 0 if it does not exist.
func (m *Manager) Count(ctx context.Context) (int64, error) {
	n, err := m.backend.Count(ctx, m.key())
	if err != nil {
		metrics.RecordStorageError("count")
		return 0, fmt.Errorf("failed to count collection: %w", err)
	}
	return n, nil
}

// List returns all entries sorted lexicographically, empty if the
// collection does not exist.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	members, err := m.backend.Members(ctx, m.key())
	if err != nil {
		metrics.RecordStorageError("list")
		return nil, fmt.Errorf("failed to list collection: %w", err)
	}
	sort.Strings(members)
	return members, nil
}

// Export writes a point-in-time snapshot of the collection to w in the
// given format. It never mutates the collection.
func (m *Manager) Export(ctx context.Context, w io.Writer, format Format) (report.Snapshot, error) {
	members, err := m.backend.Members(ctx, m.key())
	if err != nil {
		metrics.RecordStorageError("export")
		return report.Snapshot{}, fmt.Errorf("failed to read collection: %w", err)
	}

	snap := report.NewSnapshot(members, nowFunc())

	switch format {
	case FormatJSON:
		err = report.WriteJSON(w, snap)
	case FormatText:
		err = report.WriteText(w, snap)
	default:
		err = fmt.Errorf("unsupported export format: %s", format)
	}
	if err != nil {
		return report.Snapshot{}, err
	}

	m.logger.Info("exported collection", "domains", snap.DomainCount, "format", string(format))
	return snap, nil
}

// DeleteAll drops the entire collection. Without confirmation it performs no
// mutation and returns ErrConfirmationRequired. Reports whether the
// collection existed.
func (m *Manager) DeleteAll(ctx context.Context, confirmed bool) (bool, error) {
	if !confirmed {
		return false, ErrConfirmationRequired
	}

	existed, err := m.backend.Drop(ctx, m.key())
	if err != nil {
		metrics.RecordStorageError("delete")
		return false, fmt.Errorf("failed to delete collection: %w", err)
	}

	m.logger.Info("deleted collection", "key", m.key(), "existed", existed)
	return existed, nil
}

// Projects enumerates the named collections currently stored, sorted. The
// default collection is not a named project and is excluded.
func (m *Manager) Projects(ctx context.Context) ([]string, error) {
	keys, err := m.backend.Collections(ctx, keyPrefix)
	if err != nil {
		metrics.RecordStorageError("projects")
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	var projects []string
	for _, key := range keys {
		if name, ok := strings.CutPrefix(key, keyPrefix+":"); ok && name != "" {
			projects = append(projects, name)
		}
	}
	sort.Strings(projects)
	return projects, nil
}

// readLines reads a newline-delimited domain file. Blank lines are kept;
// the batch operations skip them.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return lines, nil
}
