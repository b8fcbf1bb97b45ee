package reconcile

// Outcome classifies the fate of a single incoming record.
type Outcome string

const (
	// OutcomeInserted means the record created a new row.
	OutcomeInserted Outcome = "inserted"

	// OutcomeUpdated means the record overwrote an existing row.
	OutcomeUpdated Outcome = "updated"

	// OutcomeMergedQuantity means the record's quantity was accumulated into
	// an existing row instead of overwriting it.
	OutcomeMergedQuantity Outcome = "merged-quantity"

	// OutcomeRejected means the record failed validation and was skipped.
	// The rest of the batch is unaffected.
	OutcomeRejected Outcome = "rejected"

	// OutcomeFailed means the surrounding transaction aborted and nothing
	// from the call was persisted.
	OutcomeFailed Outcome = "failed"
)

// Record is an incoming item in client shape.
// Adapters define the concrete type and provide a way to interpret it.
type Record any

// StoredItem is a persisted row.
// Adapters define the concrete type and provide a way to interpret it.
type StoredItem any

// ItemResult reports the fate of one incoming record.
type ItemResult struct {
	// Collection is the adapter name, e.g. "inventory".
	Collection string `json:"collection"`

	// Key identifies the affected row: the natural key for inventory, the
	// assigned id for recipes and tasks. For inserted rows whose id the
	// database assigns, the key is back-filled after the batch insert.
	Key string `json:"key"`

	// Outcome classifies what happened to the record.
	Outcome Outcome `json:"outcome"`

	// Reason explains rejections, conflicts, and transaction failures.
	Reason string `json:"reason,omitempty"`
}

// Summary provides aggregate counts over a plan's results.
type Summary struct {
	// Inserted counts records that created new rows.
	Inserted int `json:"inserted"`

	// Updated counts records that overwrote existing rows.
	Updated int `json:"updated"`

	// Merged counts records whose quantity was accumulated.
	Merged int `json:"merged"`

	// Rejected counts records that failed validation.
	Rejected int `json:"rejected"`
}

// Summarize tallies results by outcome.
func Summarize(results []ItemResult) Summary {
	var s Summary
	for _, r := range results {
		switch r.Outcome {
		case OutcomeInserted:
			s.Inserted++
		case OutcomeUpdated:
			s.Updated++
		case OutcomeMergedQuantity:
			s.Merged++
		case OutcomeRejected:
			s.Rejected++
		}
	}
	return s
}

// FailAll rewrites every result as failed with the given reason.
// Used when the surrounding transaction aborts after planning: per-item
// outcomes are meaningless once nothing persisted.
func FailAll(results []ItemResult, reason string) []ItemResult {
	failed := make([]ItemResult, len(results))
	for i, r := range results {
		failed[i] = ItemResult{
			Collection: r.Collection,
			Key:        r.Key,
			Outcome:    OutcomeFailed,
			Reason:     reason,
		}
	}
	return failed
}
