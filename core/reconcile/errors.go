package reconcile

import (
	"fmt"
	"strings"
)

// ValidationError rejects a single record without affecting the rest of the
// batch. It lists every missing or malformed field so the client can repair
// the record in one pass.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid record: " + strings.Join(e.Fields, ", ")
}

// NewValidationError builds a ValidationError over the given field problems.
func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// ConflictError records a natural-key merge ambiguity: two records normalize
// to the same key while disagreeing on the raw key fields. The later record
// wins; the conflict is surfaced in the item result instead of rejecting it.
type ConflictError struct {
	Key    string
	Detail string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on key %q: %s", e.Key, e.Detail)
}

// TransactionError wraps a commit failure. Nothing from the call persisted.
type TransactionError struct {
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("transaction aborted: %v", e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}
