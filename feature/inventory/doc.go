// Package inventory implements the kitchen inventory feature.
//
// Inventory rows are identified by a normalized natural key over
// (name, unit, category), so "Flour"/"KG" and "flour"/"kg" are the same item.
// Merging a record into an existing item accumulates its quantity, so
// repeated stock deliveries add up instead of clobbering, while every other
// attribute is last-write-wins. Lot numbers and expiry dates ride along for
// HACCP traceability.
//
// # Merge Adapter
//
// The package plugs into the `core/reconcile` engine via Adapter, which the
// sync orchestrator drives for whole snapshots and Service.AddItem drives for
// single items. Both paths share the same matching and accumulation rules.
//
// # Components
//
//   - Adapter: validation, natural-key matching, and merge policy.
//   - Service: single-item merge, listing, partial updates, deletion.
//   - Handler: HTTP endpoints.
//   - Loader: registers the feature with the application.
//
// # HTTP Endpoints
//
//   - GET    /inventory      : List items (limit/offset).
//   - POST   /inventory      : Merge one item in (accumulates on match).
//   - PUT    /inventory/:id  : Partial update of one item.
//   - DELETE /inventory/:id  : Remove an item.
package inventory
