// Package syncdata implements full-snapshot synchronization and single-action
// dispatch over the inventory, recipe, and task collections.
//
// # Synchronize
//
// A client posts its whole snapshot: three ordered collections of typed
// records. The service builds one merge plan per collection (validate, one
// batch load, in-order merge), applies all plans inside a single database
// transaction, and appends a journal row recording the call. If the
// transaction aborts, nothing persists and every item is reported failed with
// the transaction reason. On success the response carries a post-merge
// snapshot of all three collections plus one ordered result per incoming
// record, so the client can reconcile exactly which items were inserted,
// updated, merged, or rejected.
//
// Rejected records never abort the batch: a snapshot with one bad item still
// persists the good ones.
//
// # Dispatch
//
// Single discrete user actions route through the same merge paths as a full
// sync. The action set is closed: add-inventory, save-recipe, add-task, and
// update-task-status. Each action decodes its typed payload, writes in its
// own transaction, and returns the outcome plus the affected record. Unknown
// actions and missing payload fields are rejected up front.
//
// # Snapshot Cache
//
// GET /data serves the current snapshot through a TTL cache guarded by
// singleflight, so a burst of clients does not fan out into repeated triple
// SELECTs. Every successful write through this package or the collection
// features invalidates it.
//
// # HTTP Endpoints
//
//   - POST /sync-data    : Merge a full client snapshot.
//   - POST /action       : Dispatch one action.
//   - GET  /data         : Current snapshot (cached).
//   - GET  /sync-journal : Recent synchronization journal rows.
package syncdata
