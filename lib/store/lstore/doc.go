// Package lstore implements the embedded backend of timesman: a store.IStore
// persisted in a single SQLite database file.
//
// Key Features:
//   - Durable storage in one file, no server process required
//   - Schema managed by embedded golang-migrate migrations, applied on open
//   - Unique collection titles enforced by the schema
//   - Entries removed together with their collection (foreign key cascade)
//
// Implementation Details:
//
//   - Schema: Two tables, "times" (collections) and "posts" (entries). Timestamps
//     are stored as unix seconds, so reading a row yields exactly the value that
//     was returned when it was written.
//
//   - Error Mapping: A violated UNIQUE constraint becomes store.RetCConflict, a
//     missing collection store.RetCNotFound, rows that cannot be decoded
//     store.RetCMalformed and every other driver or I/O failure (including a
//     cancelled context) store.RetCUnavailable.
//
//   - Appending an entry and touching the collection's update timestamp happen
//     in one transaction.
//
// Thread Safety:
//
//	The underlying *sql.DB is limited to one open connection, concurrent calls are
//	queued by database/sql. The application nevertheless accesses the store only
//	through a handle.Shared.
//
// Usage Example:
//
//	s, err := lstore.NewLocalStore("/var/lib/timesman/times.db")
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	c, err := s.CreateCollection(ctx, "20240101")
//	e, err := s.AppendEntry(ctx, c.ID, "started the day")
package lstore
