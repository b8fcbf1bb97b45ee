// Package reconcile provides a generic, batch-oriented merge engine for
// folding client snapshots into persisted state.
//
// The engine merges arbitrary-size batches without per-item round trips:
//   - All candidate keys are preloaded in one query per collection
//   - Staged inserts are written in one batch statement
//   - Records merge in input order, so in-batch duplicate keys fold into a
//     single staged row instead of producing sibling rows
//
// # Architecture
//
// The package consists of three main components:
//
// 1. Engine: BuildPlan validates records, preloads the existing rows they can
// match, and decides insert vs. update vs. quantity-accumulate per record.
//
// 2. Adapter: Collection-specific implementations that define validation,
// matching keys, and merge policy. Inventory matches by normalized natural key
// and accumulates quantity; recipes and tasks upsert by id.
//
// 3. Plan: the staged mutations plus per-record results. Apply executes the
// plan inside the caller's transaction and back-fills database-assigned ids
// into the results.
//
// # Usage Example
//
//	plan, err := reconcile.BuildPlan(ctx, tx, adapter, records)
//	if err != nil {
//	    return err
//	}
//	if err := plan.Apply(ctx, tx); err != nil {
//	    return err
//	}
//	results := plan.Results
//
// # Creating Adapters
//
// To support a new collection, implement the Adapter interface with
// collection-specific validation, key extraction, and merge policy.
// See feature/inventory for a complete example.
package reconcile
