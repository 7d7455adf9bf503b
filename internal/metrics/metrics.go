package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/FranksOps/hoard/internal/report"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	DomainsAddedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hoard_domains_added_total",
			Help: "Total number of domains newly added to a collection",
		},
		[]string{"project"},
	)

	DomainsDuplicateTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hoard_domains_duplicate_total",
			Help: "Total number of add attempts that hit an existing member",
		},
		[]string{"project"},
	)

	DomainsInvalidTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hoard_domains_invalid_total",
			Help: "Total number of input lines rejected by validation",
		},
		[]string{"project", "reason"},
	)

	DomainsRemovedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hoard_domains_removed_total",
			Help: "Total number of domains removed from a collection",
		},
		[]string{"project"},
	)

	DomainsNotFoundTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hoard_domains_notfound_total",
			Help: "Total number of remove attempts on absent members",
		},
		[]string{"project"},
	)

	StorageErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hoard_storage_errors_total",
			Help: "Total number of storage backend failures",
		},
		[]string{"operation"},
	)
)

// RecordAdd updates the add counters from a batch summary.
func RecordAdd(project string, summary report.AddSummary) {
	DomainsAddedTotal.WithLabelValues(project).Add(float64(summary.Added))
	DomainsDuplicateTotal.WithLabelValues(project).Add(float64(summary.Duplicates))
	for _, line := range summary.InvalidLines {
		DomainsInvalidTotal.WithLabelValues(project, string(line.Reason)).Inc()
	}
}

// RecordRemove updates the remove counters from a batch summary.
func RecordRemove(project string, summary report.RemoveSummary) {
	DomainsRemovedTotal.WithLabelValues(project).Add(float64(summary.Removed))
	DomainsNotFoundTotal.WithLabelValues(project).Add(float64(summary.NotFound))
}

// RecordStorageError counts a backend failure for the given operation name.
func RecordStorageError(operation string) {
	StorageErrorsTotal.WithLabelValues(operation).Inc()
}

// Server encapsulates an HTTP server for Prometheus metrics, for long-lived
// library embeddings; one-shot CLI invocations normally skip it.
type Server struct {
	srv *http.Server
}

// Start begins listening on the specified port and exposes /metrics.
func Start(port int) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		// Suppress the error from intentional shutdown
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("metrics server failed: %v\n", err)
		}
	}()

	return &Server{srv: srv}
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
