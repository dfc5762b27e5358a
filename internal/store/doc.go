// Package store provides SQLite-backed durable storage for simulated matches.
//
// The store is an append-only audit log with:
//   - Matches: how each match was set up (teams, overs, seed)
//   - Deliveries: every applied delivery in canonical JSON with its chain digest
//   - Results: the settled result and the final chain head
//
// It never restores a live match. Replay re-simulates a recorded match from
// its seed and checks that every delivery digest comes out identical.
//
// # Ordering
//
// All reads order by seq, the match's logical clock, or by rowid for
// matches. Wall time is never stored.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Digests are computed by internal/wire using RFC 8785 canonical JSON and
// SHA-256 with domain separation.
package store
