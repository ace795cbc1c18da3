// Package store provides SQLite-backed durable storage for analysis runs.
//
// Each run of the copy-insertion pipeline over a module can be recorded as:
//   - Runs: the options used, outcome status, and copy count
//   - Verdicts: the per-operand out-of-place decisions from analysis
//   - Copies: the copy operations the rewriter inserted
//
// Run ids are UUIDv7, so id order is creation order; verdicts and copies
// are ordered by an explicit seq column, never by wall time.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
