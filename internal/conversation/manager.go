// ABOUTME: Session manager mapping active identities to their orchestrators
// ABOUTME: Activation loads history and wires the suggestion bus, release tears both down

package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrNotActive is returned when an operation targets an identity with no
// active session.
var ErrNotActive = errors.New("conversation: no active session for identity")

type session struct {
	orch        *Orchestrator
	unsubscribe func()
}

// Manager owns one orchestrator per active identity. Activating an identity
// loads its persisted transcript and subscribes it to the suggestion bus;
// releasing it unsubscribes and discards the in-memory state. The persisted
// log is untouched by release, so re-activation restores the transcript.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*session

	store     MessageStore
	generator Generator
	responder Responder
	bus       *SuggestionBus
	logger    *slog.Logger
}

// NewManager creates a manager. The generator may be nil, in which case
// every orchestrator answers from the responder alone.
func NewManager(msgStore MessageStore, generator Generator, responder Responder, bus *SuggestionBus, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		sessions:  make(map[string]*session),
		store:     msgStore,
		generator: generator,
		responder: responder,
		bus:       bus,
		logger:    logger.With("component", "conversation"),
	}
}

// Activate returns the orchestrator for the identity, creating and loading
// one if none is active. Activation is idempotent.
func (m *Manager) Activate(ctx context.Context, userID string) (*Orchestrator, error) {
	if userID == "" {
		return nil, ErrIdentityRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[userID]; ok {
		return s.orch, nil
	}

	orch := New(userID, m.store, m.generator, m.responder, m.logger)
	if err := orch.Load(ctx); err != nil {
		return nil, fmt.Errorf("loading conversation for %s: %w", userID, err)
	}

	var unsubscribe func()
	if m.bus != nil {
		unsubscribe = m.bus.Subscribe(userID, func(query string) {
			if err := orch.Submit(context.Background(), query); err != nil {
				m.logger.Warn("suggested query not accepted",
					"user_id", userID,
					"error", err)
			}
		})
	}

	m.sessions[userID] = &session{orch: orch, unsubscribe: unsubscribe}
	m.logger.Info("session activated", "user_id", userID)
	return orch, nil
}

// Get returns the active orchestrator for the identity, or ErrNotActive.
func (m *Manager) Get(userID string) (*Orchestrator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok {
		return nil, ErrNotActive
	}
	return s.orch, nil
}

// Release tears down the identity's session. The in-memory transcript is
// discarded and its bus subscription removed. Releasing an inactive identity
// is a no-op.
func (m *Manager) Release(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok {
		return
	}
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	delete(m.sessions, userID)
	m.logger.Info("session released", "user_id", userID)
}

// Active reports how many identities currently hold a session.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
