// ABOUTME: Deterministic keyword responder over the static knowledge base
// ABOUTME: Produces the assistant reply when no generation credential is configured

package kb

import (
	"fmt"
	"strings"
	"time"
)

// Responder answers queries from the knowledge base without any I/O.
// Categories are evaluated in seed order and the first match wins; a query
// matching several categories only ever gets the earliest one's answer.
type Responder struct {
	kb  *KnowledgeBase
	now func() time.Time
}

// NewResponder creates a responder over the given knowledge base.
// now supplies the clock for date/time answers; pass time.Now in production.
func NewResponder(kb *KnowledgeBase, now func() time.Time) *Responder {
	if now == nil {
		now = time.Now
	}
	return &Responder{kb: kb, now: now}
}

// Respond returns the canned answer for the query. It never fails: a query
// matching no category gets a generic reply echoing the query verbatim.
func (r *Responder) Respond(query string) string {
	normalized := strings.ToLower(query)
	tokens := tokenize(normalized)

	for _, fact := range r.kb.Facts {
		if !matches(fact, normalized, tokens) {
			continue
		}

		switch fact.Name {
		case CategoryDateTime:
			return r.dateTimeAnswer()
		case CategoryStock:
			return r.stockAnswer(fact.Answer)
		default:
			return fact.Answer
		}
	}

	return fmt.Sprintf("I couldn't find an answer for %q. Could you try rephrasing your question? I can help with orders, shipping, returns, and product availability.", query)
}

// matches reports whether the query triggers the fact. Single-word keywords
// must match a whole token ("hi" must not fire on "shipping"); multi-word
// keywords match as phrases.
func matches(fact Fact, normalized string, tokens map[string]bool) bool {
	for _, keyword := range fact.Keywords {
		if strings.Contains(keyword, " ") {
			if strings.Contains(normalized, keyword) {
				return true
			}
			continue
		}
		if tokens[keyword] {
			return true
		}
	}
	return false
}

// tokenize splits a lowercased query into a set of letter/digit words
func tokenize(s string) map[string]bool {
	tokens := make(map[string]bool)
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
	for _, f := range fields {
		tokens[f] = true
	}
	return tokens
}

func (r *Responder) dateTimeAnswer() string {
	now := r.now()
	return fmt.Sprintf("Today's date is %s and the current time is %s.",
		now.Format("January 2, 2006"), now.Format("3:04 PM"))
}

func (r *Responder) stockAnswer(prefix string) string {
	var b strings.Builder
	b.WriteString(prefix)
	for _, p := range r.kb.InStockProducts() {
		fmt.Fprintf(&b, "\n- %s ($%.0f), available in %s", p.Name, p.Price, strings.Join(p.Colors, ", "))
	}
	b.WriteString("\nIs there a product you'd like to know more about?")
	return b.String()
}
