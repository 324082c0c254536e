// Package conversation implements the turn lifecycle of the assistant.
//
// An Orchestrator owns a single identity's transcript. Submit appends the
// user's message, produces exactly one assistant reply (from the generation
// backend when configured, from the deterministic responder otherwise or on
// failure), and appends that reply. At most one turn is in flight per
// identity; submissions that arrive while a turn is pending are rejected
// with ErrTurnPending rather than queued.
//
// Persistence is best effort and asynchronous. Messages are visible in the
// in-memory transcript immediately; each append is flushed to the store in a
// background goroutine with its own timeout, and a failed flush is logged
// without disturbing the visible transcript.
//
// The Manager maps active identities to orchestrators and ties each one to
// the SuggestionBus, so published example queries flow through the same
// Submit path as typed messages.
package conversation
