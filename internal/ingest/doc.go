// Package ingest implements the fetch-clean-merge ingestion loop.
//
// A cycle fetches the remote snapshot, writes it verbatim to a timestamped
// file, strips the fixed trailer into a cleaned snapshot, parses it, and
// folds the rows into the master dataset with exact duplicates removed.
//
// Cycle Failure Isolation:
// Every error inside a cycle is caught at the cycle boundary, logged once at
// ERROR, and reported in the returned Result. The master dataset is only
// replaced after the merged table has been fully encoded, so a failed cycle
// never changes it.
//
// Scheduling:
// Loop.Run drives cycles from a single goroutine, sleeping between cycles
// for the delay chosen by the NextDelay policy (the configured interval by
// default) regardless of the previous outcome. Cancelling the context stops
// the loop; an in-flight fetch is abandoned.
package ingest
