// ABOUTME: Turn orchestrator owning the in-memory conversation for one identity
// ABOUTME: Sequences submit/await/append with a single pending-turn guard and best-effort persistence

package conversation

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/2389/helpdesk-gateway/internal/store"
)

// Submit errors. All of them leave the conversation history untouched.
var (
	// ErrEmptyMessage is returned for text that trims to nothing
	ErrEmptyMessage = errors.New("message text is empty")
	// ErrIdentityRequired is returned when no identity is bound
	ErrIdentityRequired = errors.New("no active identity")
	// ErrTurnPending is returned while a previous turn is still awaiting its
	// response. Rejected submissions are dropped, not queued.
	ErrTurnPending = errors.New("a turn is already in progress")
)

// RetryMessage is the assistant text appended when the generation service
// fails. Raw service errors never reach the conversation.
const RetryMessage = "Sorry, I encountered an error processing your request. Please try again later."

// Turn states. A turn moves Idle -> AwaitingResponse -> Idle; both the
// initial and terminal state are Idle.
const (
	stateIdle int32 = iota
	stateAwaitingResponse
)

// persistTimeout bounds each fire-and-forget message write.
const persistTimeout = 5 * time.Second

// Generator is what the orchestrator needs from the generation client.
// A nil Generator means no service credential is configured, which is the
// normal fallback trigger rather than an error.
type Generator interface {
	Generate(ctx context.Context, query string) (string, error)
}

// Responder produces the deterministic fallback answer
type Responder interface {
	Respond(query string) string
}

// MessageStore is what the orchestrator needs from persistence
type MessageStore interface {
	AppendMessage(ctx context.Context, msg *store.Message) (string, error)
	ListMessages(ctx context.Context, userID string) ([]*store.Message, error)
}

// Orchestrator owns the ordered in-memory message list for one identity and
// sequences turns against the generation client and the store. Surfaces read
// snapshots; only the orchestrator mutates the list.
type Orchestrator struct {
	userID    string
	store     MessageStore
	generator Generator
	responder Responder
	logger    *slog.Logger

	state atomic.Int32

	mu       sync.RWMutex
	messages []store.Message
}

// New creates an orchestrator for the given identity. generator may be nil
// when no service credential is configured. Pass nil logger for default.
func New(userID string, msgStore MessageStore, generator Generator, responder Responder, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		userID:    userID,
		store:     msgStore,
		generator: generator,
		responder: responder,
		logger:    logger.With("component", "conversation", "user_id", userID),
	}
}

// Load materializes the conversation from the store. Called when the identity
// becomes active; the in-memory list is replaced wholesale.
func (o *Orchestrator) Load(ctx context.Context) error {
	if o.userID == "" {
		return ErrIdentityRequired
	}

	stored, err := o.store.ListMessages(ctx, o.userID)
	if err != nil {
		return err
	}

	messages := make([]store.Message, len(stored))
	for i, msg := range stored {
		messages[i] = *msg
	}

	o.mu.Lock()
	o.messages = messages
	o.mu.Unlock()

	o.logger.Debug("conversation loaded", "messages", len(messages))
	return nil
}

// Submit runs one turn: append the user message, obtain a reply, append the
// assistant message. Exactly one turn can be in flight; a Submit while a turn
// is pending returns ErrTurnPending with no effect on history. Every accepted
// turn appends exactly one user message followed by exactly one assistant
// message, and the state returns to idle on all paths.
func (o *Orchestrator) Submit(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}
	if o.userID == "" {
		return ErrIdentityRequired
	}

	// Sole concurrency guard: no queue, rejected submissions are dropped
	if !o.state.CompareAndSwap(stateIdle, stateAwaitingResponse) {
		return ErrTurnPending
	}
	defer o.state.Store(stateIdle)

	userMsg := store.Message{
		UserID:    o.userID,
		Sender:    store.SenderUser,
		Content:   text,
		CreatedAt: time.Now(),
	}
	userIdx := o.append(userMsg)
	o.persist(userIdx, userMsg)

	reply := o.reply(ctx, text)

	assistantMsg := store.Message{
		UserID:    o.userID,
		Sender:    store.SenderAssistant,
		Content:   reply,
		CreatedAt: time.Now(),
	}
	assistantIdx := o.append(assistantMsg)
	o.persist(assistantIdx, assistantMsg)

	return nil
}

// reply obtains the assistant text for a query. Generation failures collapse
// into the fixed retry message so the turn still produces an assistant
// message.
func (o *Orchestrator) reply(ctx context.Context, query string) string {
	if o.generator == nil {
		return o.responder.Respond(query)
	}

	text, err := o.generator.Generate(ctx, query)
	if err != nil {
		o.logger.Warn("generation failed, using retry message", "error", err)
		return RetryMessage
	}
	return text
}

// append adds a message to the in-memory list (optimistic: before its
// persistence is confirmed) and returns its index for later ID promotion.
func (o *Orchestrator) append(msg store.Message) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = append(o.messages, msg)
	return len(o.messages) - 1
}

// persist writes a message to the store in the background with a detached
// timeout context. Best-effort by design: failure is logged, never retried,
// and never rolls back the optimistic append. On success the in-memory
// message is promoted with its store-assigned ID.
func (o *Orchestrator) persist(idx int, msg store.Message) {
	go func() {
		saveCtx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()

		id, err := o.store.AppendMessage(saveCtx, &msg)
		if err != nil {
			o.logger.Error("failed to persist message",
				"error", err,
				"sender", msg.Sender)
			return
		}

		o.mu.Lock()
		// Guard against Load replacing the list while the write was in flight
		if idx < len(o.messages) && o.messages[idx].ID == "" {
			o.messages[idx].ID = id
		}
		o.mu.Unlock()

		o.logger.Debug("message persisted", "id", id, "sender", msg.Sender)
	}()
}

// Snapshot returns a copy of the conversation in append order. Callers must
// not mutate orchestrator state; the copy makes that structural.
func (o *Orchestrator) Snapshot() []store.Message {
	o.mu.RLock()
	defer o.mu.RUnlock()

	snapshot := make([]store.Message, len(o.messages))
	copy(snapshot, o.messages)
	return snapshot
}

// Awaiting reports whether a turn is currently awaiting its response.
func (o *Orchestrator) Awaiting() bool {
	return o.state.Load() == stateAwaitingResponse
}
