// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) configuring
// either a MySQL or a SQLite connection based on the application's configuration.
// SQLite is the default for small installations and tests; MySQL is the
// production choice.
//
// # Connect
//
// The Connect function establishes a connection for the configured driver.
// The sqlite driver treats Name as the database file path (":memory:" for
// an in-memory database); the mysql driver builds a DSN with encoded
// credentials and explicit timeouts.
//
// # Schema Inspection
//
// The package includes tools to inspect the live schema, used by the
// database integrity check and the inspect command: listing tables,
// retrieving column definitions, and counting rows.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "inventory_items")
package database
