// ABOUTME: Tests for the turn orchestrator
// ABOUTME: Covers the pending-turn guard, fallback paths, and best-effort persistence

package conversation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/helpdesk-gateway/internal/store"
)

// stubGenerator returns a canned reply or error.
type stubGenerator struct {
	reply string
	err   error
	calls int
	mu    sync.Mutex
}

func (g *stubGenerator) Generate(ctx context.Context, query string) (string, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

// blockingGenerator holds Generate open until released, so tests can observe
// the awaiting state from another goroutine.
type blockingGenerator struct {
	entered chan struct{}
	release chan struct{}
}

func newBlockingGenerator() *blockingGenerator {
	return &blockingGenerator{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (g *blockingGenerator) Generate(ctx context.Context, query string) (string, error) {
	close(g.entered)
	<-g.release
	return "slow reply", nil
}

// stubResponder echoes a fixed answer regardless of query.
type stubResponder struct {
	answer string
}

func (r *stubResponder) Respond(query string) string {
	return r.answer
}

func TestSubmitWithoutGeneratorUsesResponder(t *testing.T) {
	mockStore := store.NewMockStore()
	orch := New("user-1", mockStore, nil, &stubResponder{answer: "Hello! How can I help you today?"}, nil)

	err := orch.Submit(context.Background(), "hi")
	require.NoError(t, err)

	msgs := orch.Snapshot()
	require.Len(t, msgs, 2)
	assert.Equal(t, store.SenderUser, msgs[0].Sender)
	assert.Equal(t, "hi", msgs[0].Content)
	assert.Equal(t, store.SenderAssistant, msgs[1].Sender)
	assert.Equal(t, "Hello! How can I help you today?", msgs[1].Content)
}

func TestSubmitUsesGeneratorWhenConfigured(t *testing.T) {
	mockStore := store.NewMockStore()
	gen := &stubGenerator{reply: "generated answer"}
	orch := New("user-1", mockStore, gen, &stubResponder{answer: "fallback"}, nil)

	require.NoError(t, orch.Submit(context.Background(), "what colors does the phone come in?"))

	msgs := orch.Snapshot()
	require.Len(t, msgs, 2)
	assert.Equal(t, "generated answer", msgs[1].Content)
	assert.Equal(t, 1, gen.calls)
}

func TestSubmitGenerationFailureAppendsRetryMessage(t *testing.T) {
	mockStore := store.NewMockStore()
	gen := &stubGenerator{err: errors.New("service returned 500")}
	orch := New("user-1", mockStore, gen, &stubResponder{answer: "fallback"}, nil)

	require.NoError(t, orch.Submit(context.Background(), "help me"))

	msgs := orch.Snapshot()
	require.Len(t, msgs, 2)
	assert.Equal(t, RetryMessage, msgs[1].Content)
	assert.False(t, orch.Awaiting())

	// The next turn is accepted normally after a failed one
	require.NoError(t, orch.Submit(context.Background(), "still there?"))
	assert.Len(t, orch.Snapshot(), 4)
}

func TestSubmitRejectsEmptyText(t *testing.T) {
	orch := New("user-1", store.NewMockStore(), nil, &stubResponder{answer: "x"}, nil)

	assert.ErrorIs(t, orch.Submit(context.Background(), ""), ErrEmptyMessage)
	assert.ErrorIs(t, orch.Submit(context.Background(), "   \n\t"), ErrEmptyMessage)
	assert.Empty(t, orch.Snapshot())
}

func TestSubmitRequiresIdentity(t *testing.T) {
	orch := New("", store.NewMockStore(), nil, &stubResponder{answer: "x"}, nil)

	assert.ErrorIs(t, orch.Submit(context.Background(), "hello"), ErrIdentityRequired)
}

func TestSubmitWhileTurnPendingIsDropped(t *testing.T) {
	mockStore := store.NewMockStore()
	gen := newBlockingGenerator()
	orch := New("user-1", mockStore, gen, &stubResponder{answer: "fallback"}, nil)

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- orch.Submit(context.Background(), "first")
	}()

	<-gen.entered
	assert.True(t, orch.Awaiting())

	// Second submission while the first turn is awaiting its response
	err := orch.Submit(context.Background(), "second")
	assert.ErrorIs(t, err, ErrTurnPending)

	close(gen.release)
	require.NoError(t, <-firstDone)
	assert.False(t, orch.Awaiting())

	// Only the accepted turn left messages behind
	msgs := orch.Snapshot()
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Content)
	assert.Equal(t, "slow reply", msgs[1].Content)
}

func TestPersistenceFailureKeepsOptimisticAppend(t *testing.T) {
	mockStore := store.NewMockStore()
	mockStore.FailAppend = errors.New("disk full")
	orch := New("user-1", mockStore, nil, &stubResponder{answer: "answer"}, nil)

	require.NoError(t, orch.Submit(context.Background(), "hello"))

	// In-memory transcript is intact despite the store failing
	msgs := orch.Snapshot()
	require.Len(t, msgs, 2)

	// The failed writes never acquire store-assigned IDs
	time.Sleep(50 * time.Millisecond)
	for _, msg := range orch.Snapshot() {
		assert.Empty(t, msg.ID)
	}

	stored, err := mockStore.ListMessages(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestMessagesAcquireStoreIDsAsynchronously(t *testing.T) {
	mockStore := store.NewMockStore()
	orch := New("user-1", mockStore, nil, &stubResponder{answer: "answer"}, nil)

	require.NoError(t, orch.Submit(context.Background(), "hello"))

	require.Eventually(t, func() bool {
		for _, msg := range orch.Snapshot() {
			if msg.ID == "" {
				return false
			}
		}
		return true
	}, time.Second, 10*time.Millisecond, "messages should be promoted with store-assigned IDs")
}

func TestLoadMaterializesStoredConversation(t *testing.T) {
	mockStore := store.NewMockStore()
	ctx := context.Background()

	for _, content := range []string{"question", "answer"} {
		sender := store.SenderUser
		if content == "answer" {
			sender = store.SenderAssistant
		}
		_, err := mockStore.AppendMessage(ctx, &store.Message{
			UserID:    "user-1",
			Sender:    sender,
			Content:   content,
			CreatedAt: time.Now(),
		})
		require.NoError(t, err)
	}

	orch := New("user-1", mockStore, nil, &stubResponder{answer: "x"}, nil)
	require.NoError(t, orch.Load(ctx))

	msgs := orch.Snapshot()
	require.Len(t, msgs, 2)
	assert.Equal(t, "question", msgs[0].Content)
	assert.Equal(t, "answer", msgs[1].Content)
	assert.NotEmpty(t, msgs[0].ID)
}

func TestSnapshotIsACopy(t *testing.T) {
	orch := New("user-1", store.NewMockStore(), nil, &stubResponder{answer: "x"}, nil)
	require.NoError(t, orch.Submit(context.Background(), "hello"))

	snap := orch.Snapshot()
	snap[0].Content = "mutated"

	assert.Equal(t, "hello", orch.Snapshot()[0].Content)
}
