package reconcile

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// BuildPlan validates records, preloads the existing rows they can match in
// one query, and merges them in input order. The returned plan holds the
// staged mutations and per-record results; nothing is written until Apply.
//
// Cost is one LoadExisting call per batch regardless of batch size. Batches
// without matchable keys skip the load entirely.
func BuildPlan(ctx context.Context, tx *gorm.DB, adapter Adapter, records []Record) (*Plan, error) {
	plan := &Plan{
		adapter: adapter,
		Results: make([]ItemResult, len(records)),
	}

	// Validate everything up front so rejects never cost a query.
	valid := make([]bool, len(records))
	recKeys := make([]string, len(records))
	keys := make([]string, 0, len(records))
	seen := make(map[string]struct{}, len(records))

	for i, rec := range records {
		if err := adapter.Validate(rec); err != nil {
			plan.Results[i] = ItemResult{
				Collection: adapter.Name(),
				Outcome:    OutcomeRejected,
				Reason:     err.Error(),
			}
			continue
		}
		valid[i] = true

		key := adapter.Key(rec)
		recKeys[i] = key
		if key == "" {
			continue
		}
		if _, dup := seen[key]; !dup {
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}

	// One lookup covers the whole batch. No keys, no query.
	existing := map[string]StoredItem{}
	if len(keys) > 0 {
		loaded, err := adapter.LoadExisting(ctx, tx, keys)
		if err != nil {
			return nil, err
		}
		if loaded != nil {
			existing = loaded
		}
	}

	// Merge in input order. Staged rows are tracked by key so a duplicate key
	// later in the batch folds into the already-staged row instead of
	// producing a sibling.
	staged := make(map[string]*stagedRow)

	for i, rec := range records {
		if !valid[i] {
			continue
		}
		key := recKeys[i]

		var current StoredItem
		var prior *stagedRow
		if key != "" {
			if p, ok := staged[key]; ok {
				prior = p
				current = p.item
			} else if row, ok := existing[key]; ok {
				current = row
			}
		}

		item, outcome, err := adapter.Merge(rec, current)
		reason := ""
		if err != nil {
			var conflict *ConflictError
			if !errors.As(err, &conflict) || item == nil {
				plan.Results[i] = ItemResult{
					Collection: adapter.Name(),
					Key:        key,
					Outcome:    OutcomeRejected,
					Reason:     err.Error(),
				}
				continue
			}
			// The later record won; keep the override on record.
			reason = conflict.Error()
		}

		switch {
		case prior != nil:
			prior.item = item
			prior.results = append(prior.results, i)
		case current != nil:
			row := &stagedRow{item: item, results: []int{i}}
			plan.updates = append(plan.updates, row)
			staged[key] = row
		default:
			row := &stagedRow{item: item, results: []int{i}}
			plan.inserts = append(plan.inserts, row)
			if key != "" {
				staged[key] = row
			}
		}

		plan.Results[i] = ItemResult{
			Collection: adapter.Name(),
			Key:        key,
			Outcome:    outcome,
			Reason:     reason,
		}
	}

	return plan, nil
}
