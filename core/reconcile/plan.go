package reconcile

import (
	"context"

	"gorm.io/gorm"
)

// Plan holds the staged mutations and per-record results for one collection.
// BuildPlan creates it; Apply executes it inside the caller's transaction.
type Plan struct {
	// Results holds one entry per incoming record, in input order.
	Results []ItemResult

	adapter Adapter
	inserts []*stagedRow
	updates []*stagedRow
}

// stagedRow is a pending mutation together with the result entries it serves.
// An in-batch duplicate key folds into the same staged row, so one row can
// serve several results.
type stagedRow struct {
	item    StoredItem
	results []int
}

// Apply executes the staged mutations: one batch insert for all new rows,
// one update per modified row. Keys the database assigns during insert are
// back-filled into the results. An empty plan issues nothing.
func (p *Plan) Apply(ctx context.Context, tx *gorm.DB) error {
	if len(p.inserts) > 0 {
		rows := make([]StoredItem, len(p.inserts))
		for i, row := range p.inserts {
			rows[i] = row.item
		}
		if err := p.adapter.Insert(ctx, tx, rows); err != nil {
			return err
		}

		// Database-assigned ids become visible only now.
		for _, row := range p.inserts {
			key := p.adapter.StoredKey(row.item)
			for _, ri := range row.results {
				p.Results[ri].Key = key
			}
		}
	}

	for _, row := range p.updates {
		if err := p.adapter.Update(ctx, tx, row.item); err != nil {
			return err
		}
	}

	return nil
}

// Summary tallies the plan's results by outcome.
func (p *Plan) Summary() Summary {
	return Summarize(p.Results)
}

// Pending reports how many rows Apply will write.
func (p *Plan) Pending() int {
	return len(p.inserts) + len(p.updates)
}
