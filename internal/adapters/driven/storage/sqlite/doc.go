// Package sqlite keeps the conditional request cache on disk so ETags
// survive restarts.
//
// One database backs both driven ports:
//
//   - ETagStore maps a request URL to the last ETag GitHub sent for it.
//   - ResponseStore keeps the matching status, headers and body, plus the
//     time it was stored and its max-age, so a 304 can be replayed and a
//     fresh entry served without a request.
//
// Entries are never expired by the store itself; freshness is decided by the
// pipeline from stored_at and max_age. `octoscope cache clear` calls Purge.
//
// The driver is modernc.org/sqlite, which needs no cgo. Migrations under
// migrations/ are applied in order on open. The database runs in WAL mode
// with a busy timeout so the TUI and a concurrent CLI invocation can share
// it. The default location is ~/.octoscope/data/cache.db.
package sqlite
