package reconcile

import (
	"context"

	"gorm.io/gorm"
)

// Adapter defines the interface for collection-specific merge logic.
// Each adapter implements how to validate, match, and persist records of one
// collection (e.g., inventory, recipes, tasks).
type Adapter interface {
	// Name returns the collection name (e.g., "inventory").
	Name() string

	// Validate checks one incoming record. A *ValidationError lists every
	// missing or malformed field; nil admits the record.
	Validate(rec Record) error

	// Key returns the matching key for a record: the normalized natural key
	// for inventory, the client-supplied id for recipes and tasks. An empty
	// key means the record can match nothing and is always inserted.
	Key(rec Record) string

	// LoadExisting returns the existing rows for the given keys, indexed by
	// key, using at most one query per call. Keys absent from the map do not
	// exist yet. Implementations issue a locking read where the dialect
	// supports it, so concurrent merges of the same keys serialize.
	LoadExisting(ctx context.Context, tx *gorm.DB, keys []string) (map[string]StoredItem, error)

	// Merge folds one record into an existing row. A nil existing means the
	// record becomes a new row. The returned item is the post-merge state and
	// the outcome classifies the decision. A *ConflictError returned alongside
	// a non-nil item records a raw-field contradiction without rejecting.
	Merge(rec Record, existing StoredItem) (StoredItem, Outcome, error)

	// StoredKey returns the result key of a stored row. For id-keyed
	// collections this is only known after insert.
	StoredKey(item StoredItem) string

	// Insert persists all staged new rows in one batch statement.
	Insert(ctx context.Context, tx *gorm.DB, rows []StoredItem) error

	// Update persists one modified row.
	Update(ctx context.Context, tx *gorm.DB, row StoredItem) error
}
