// Package invoice digitizes supplier invoices into inventory stock.
//
// A scan (photo or PDF) is stored to object storage under the invoices/
// prefix and run through the vision model, which reads the line-item table
// and returns supplier, date and ordered line items. The extracted items are
// reviewed client-side and then imported: one batch merge into the inventory
// collection, in one transaction, accumulating quantities into existing rows
// the same way a snapshot sync would.
//
// # HTTP Endpoints
//
//   - POST   /invoices/upload : Store a scan and extract its line items.
//   - POST   /invoices/import : Merge extracted items into the inventory.
//   - DELETE /invoices/:key   : Remove a stored scan.
package invoice
