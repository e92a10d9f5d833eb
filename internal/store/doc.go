// Package store provides the SQLite-backed cycle ledger.
//
// Every ingestion cycle, successful or not, appends one row to the cycles
// table. The ledger is an audit trail only: the master dataset never depends
// on it, and a ledger failure never fails a cycle.
//
// # Ordering
//
// Cycles carry a monotonic seq assigned by the ingestion loop. All queries
// order by seq ASC, id ASC so listings are stable across restarts.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads (the history command) during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
package store
