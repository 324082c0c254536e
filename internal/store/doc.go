// Package store provides persistence for helpdesk-gateway.
//
// # Overview
//
// The store holds three kinds of records:
//
//   - Users: the identities that scope conversations (email, display name,
//     role, password hash)
//   - Messages: the append-only conversation log, keyed by user
//   - FAQs: static question/answer pairs managed from the admin surface
//
// # Message Log Semantics
//
// The message log is strictly append-only. The interface exposes no update or
// delete operations for messages; a message's sender and content never change
// after creation. IDs are assigned by the store on append; callers hold
// messages with empty IDs until their write completes.
//
// ListMessages returns a user's full log in append order. Creation-time ties
// (a user message and its assistant reply can share a timestamp) are broken by
// insertion order, so a turn's user message always precedes its reply.
//
// # Implementations
//
//   - SQLiteStore: production implementation using modernc.org/sqlite with
//     automatic schema creation and WAL mode
//   - MockStore: in-memory implementation for tests, including a fault
//     injection hook for the append path
//
// # Error Handling
//
// Sentinel errors:
//
//   - ErrNotFound: requested entity does not exist
//   - ErrDuplicateEmail: email already registered
//
// All other errors are wrapped with context about the failing operation.
package store
