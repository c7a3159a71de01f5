// Package store provides the SQLite-backed local ticket database.
//
// The database holds:
//   - Buckets: named groups of tickets
//   - Tickets: the tracked items, each in one bucket and one state
//   - Ticket tags: many-to-many link between tickets and tag names
//   - States and tags: the vocabulary tickets are described with
//   - Filters: saved filter expressions, addressed by name
//
// Ticket queries are produced by the filter compiler and executed verbatim by
// QueryTickets; every compiled statement selects tickets.* so rows scan the
// same way regardless of the joins the filter needed.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Inserts and upserts are built with squirrel; timestamps are unix seconds
// taken from the store's Clock.
package store
