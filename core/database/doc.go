// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to properly configure
// MySQL and SQLite connections based on the application's configuration.
//
// # Connect
//
// The generic Connect function establishes a connection to the database. The driver is
// selected by configuration: MySQL for deployed stores, SQLite for local and in-memory
// stores. Connection pooling and the startup ping are handled uniformly.
//
// # Schema Inspection
//
// The package includes tools to inspect the database schema, which the merge executor
// uses to pre-validate artifact rows before building statements from them. It retrieves
// table columns with names normalized to lowercase.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "registrations")
package database
