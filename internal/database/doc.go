// Package database owns the storage boundary: opening the sqlite
// database, bootstrapping the corpus schema, seeding the default
// translation author, and the connectivity smoke test.
//
// Read-side queries live in the corpus subpackage; ingestion writes go
// through a transaction owned by the ingest package.
package database
