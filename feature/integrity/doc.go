// Package integrity provides operational readiness checks.
//
// The data-plane features assume a working environment; this package
// verifies the infrastructure they depend on.
//
// # Checks Provided
//
//   - Storage: the bucket exists and carries the object prefixes the backend
//     writes under (invoices/). Missing pieces can be created on request.
//   - Database: the required tables are present, reported with column and
//     row counts.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/storage : Runs the storage check (supports ?fix=true).
//   - POST /integrity/storage : Runs the storage check and fixes what it can.
//   - GET /integrity/database : Runs the database check.
package integrity
