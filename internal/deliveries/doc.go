// Package deliveries records which archive content has already been delivered.
//
// For every provider and archive variant the store keeps the fingerprint of
// the last delivered archive, plus an append-only history. An export run
// compares freshly built archives against these fingerprints to decide
// whether anything changed.
//
// The store is a SQLite database opened through modernc.org/sqlite. Writes
// retry briefly when the database is busy, since the CLI may read the ledger
// while an export is running.
package deliveries
