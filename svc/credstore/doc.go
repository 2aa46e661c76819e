// Package credstore provides auth.Storage implementations.
//
// Memory keeps records in process and is used by tests and single-node
// development setups. Postgres, Mongo and Redis persist records in the
// respective database. Every implementation commits Update atomically:
//
//   - Postgres locks the row with SELECT ... FOR UPDATE inside a transaction;
//   - Mongo replaces the document only if its version is unchanged and retries;
//   - Redis runs the write in a WATCH/MULTI transaction and retries on conflict.
//
// The email column is unique in every backend, so a race between two
// registrations of the same address yields auth.ErrDuplicateIdentity for one
// of them.
package credstore
