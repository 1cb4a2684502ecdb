// Package kv provides the key-value collaborator the planner persists through.
//
// The interface is deliberately narrow: Get, Set and Remove of one opaque
// byte value per key. The planner stores its whole task collection as a
// single blob under one key and never needs more.
//
// # Backends
//
//   - Memory: map guarded by a RWMutex. Tests and --backend memory.
//   - File: a JSON object on disk, rewritten under an exclusive flock on
//     every operation so separate processes never interleave writes.
//   - SQLite: a single "kv" table in a WAL-mode database.
//
// # SQLite configuration
//
//   - WAL mode: readers do not block the writer
//   - synchronous=NORMAL
//   - busy_timeout=5000: wait up to 5 seconds for a lock
//   - One open connection: SQLite allows a single writer
//
// Schema changes are tracked with PRAGMA user_version and applied in order
// by runMigrations.
package kv
