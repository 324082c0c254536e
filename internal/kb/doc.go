// Package kb provides the static knowledge base and the deterministic
// fallback responder.
//
// # Overview
//
// The knowledge base is pure data: an ordered list of keyword-triggered
// answer categories plus a small set of product records, loaded once from an
// embedded YAML seed and never mutated at runtime.
//
// The Responder turns a query into a canned answer with no I/O:
//
//	base, _ := kb.Load()
//	responder := kb.NewResponder(base, time.Now)
//	answer := responder.Respond("What is your refund policy?")
//
// # Matching Rules
//
// Categories are evaluated strictly in seed order and the first match wins.
// Single-word keywords match whole words only; multi-word keywords match as
// phrases. A query matching no category gets a generic reply that echoes the
// query back verbatim.
//
// The date/time category renders from the clock injected at construction,
// which keeps responses deterministic under test. The stock
// category appends the in-stock product records to its canonical prefix.
package kb
