package storage

import "context"

// Backend defines the interface to the external set-storage service. Each
// named collection is a deduplicated set of domain strings.
//
// Add and Remove are idempotent: adding a present member or removing an
// absent one is a no-op, reported through the changed return value. Absent
// collections read as empty; absence is never an error. An error from any
// method means the storage service itself failed (unreachable, auth), which
// is fatal for the current operation.
type Backend interface {
	// Add inserts member into the collection's set, creating the
	// collection if needed. Reports whether the set changed.
	Add(ctx context.Context, collection, member string) (bool, error)

	// Remove deletes member from the collection's set. Reports whether
	// the set changed.
	Remove(ctx context.Context, collection, member string) (bool, error)

	// Count returns the cardinality of the collection, 0 if absent.
	Count(ctx context.Context, collection string) (int64, error)

	// Members returns all members of the collection in unspecified order.
	// Callers own any ordering requirements.
	Members(ctx context.Context, collection string) ([]string, error)

	// Drop removes the entire collection in one call. Reports whether the
	// collection existed.
	Drop(ctx context.Context, collection string) (bool, error)

	// Collections enumerates stored collection keys matching the given
	// key prefix.
	Collections(ctx context.Context, prefix string) ([]string, error)

	// Ping verifies the service is reachable.
	Ping(ctx context.Context) error

	Close() error
}
