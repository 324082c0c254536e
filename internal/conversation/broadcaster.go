// ABOUTME: In-process suggestion bus connecting auxiliary surfaces to the submit path
// ABOUTME: Published queries reach the subscribed handler exactly as if typed by the user

package conversation

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// SuggestionBus is an explicit observer registry for suggested queries
// (example-query buttons and similar auxiliary surfaces). Handlers are
// registered per identity; a published query is handed to each subscribed
// handler, which treats it identically to a direct Submit call.
//
// Registration is handed to a surface by reference and scoped to its
// lifetime: Subscribe returns the matching unsubscribe function, and surfaces
// are expected to call it when they become inactive so no handler outlives
// its session.
type SuggestionBus struct {
	mu       sync.RWMutex
	handlers map[string]map[string]func(query string) // userID -> subID -> handler
	logger   *slog.Logger
}

// NewSuggestionBus creates a bus. Pass nil logger for default.
func NewSuggestionBus(logger *slog.Logger) *SuggestionBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &SuggestionBus{
		handlers: make(map[string]map[string]func(string)),
		logger:   logger.With("component", "suggestions"),
	}
}

// Subscribe registers a handler for queries published to the given identity
// and returns the function that removes exactly that registration.
func (b *SuggestionBus) Subscribe(userID string, handler func(query string)) (unsubscribe func()) {
	subID := uuid.New().String()

	b.mu.Lock()
	if _, ok := b.handlers[userID]; !ok {
		b.handlers[userID] = make(map[string]func(string))
	}
	b.handlers[userID][subID] = handler
	b.mu.Unlock()

	b.logger.Debug("subscriber added", "user_id", userID, "sub_id", subID)

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs, ok := b.handlers[userID]
		if !ok {
			return
		}
		delete(subs, subID)
		if len(subs) == 0 {
			delete(b.handlers, userID)
		}

		b.logger.Debug("subscriber removed", "user_id", userID, "sub_id", subID)
	}
}

// Publish hands the query to every handler subscribed for the identity.
// With no subscriber the query is dropped and logged.
func (b *SuggestionBus) Publish(userID, query string) {
	b.mu.RLock()
	subs := b.handlers[userID]
	// Copy handlers under read lock to avoid holding it during calls
	targets := make([]func(string), 0, len(subs))
	for _, h := range subs {
		targets = append(targets, h)
	}
	b.mu.RUnlock()

	if len(targets) == 0 {
		b.logger.Debug("dropped suggestion with no subscriber", "user_id", userID)
		return
	}

	for _, handler := range targets {
		handler(query)
	}
}
