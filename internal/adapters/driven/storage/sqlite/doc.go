// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. It implements several store interfaces through a single database connection:
//
//   - VectorStore: embedding records, one collection per accessor
//   - MetadataStore: the registry of uploaded documents
//   - BlobStore: raw upload bytes kept for reprocessing
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.docmgr/data/docmgr.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode. Vector upserts are additionally serialised per document
// and run inside a single transaction, so readers see either the old or the new
// record set.
package sqlite
