// ABOUTME: Tests for the SQLite store implementation
// ABOUTME: Covers user CRUD, append-only message log ordering, and FAQ storage

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	s, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestUser(t *testing.T, s Store, email string) *User {
	t.Helper()
	user := &User{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  "Test User",
		Role:         RoleUser,
		PasswordHash: "$2a$10$fake",
		CreatedAt:    time.Now(),
	}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

func TestSQLiteStore_CreateAndGetUser(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	user := createTestUser(t, s, "alice@example.com")

	got, err := s.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)
	assert.Equal(t, user.DisplayName, got.DisplayName)
	assert.Equal(t, RoleUser, got.Role)
	assert.False(t, got.IsAdmin())

	byEmail, err := s.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
}

func TestSQLiteStore_GetUser_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.GetUser(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetUserByEmail(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_CreateUser_DuplicateEmail(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	createTestUser(t, s, "dupe@example.com")

	err := s.CreateUser(ctx, &User{
		ID:           uuid.New().String(),
		Email:        "dupe@example.com",
		DisplayName:  "Second",
		Role:         RoleUser,
		PasswordHash: "$2a$10$fake",
		CreatedAt:    time.Now(),
	})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestSQLiteStore_SetUserRole(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	user := createTestUser(t, s, "promote@example.com")

	require.NoError(t, s.SetUserRole(ctx, user.ID, RoleAdmin))

	got, err := s.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAdmin())
}

func TestSQLiteStore_SetUserRole_NotFound(t *testing.T) {
	s := createTestStore(t)

	err := s.SetUserRole(context.Background(), "missing", RoleAdmin)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_ListUsers(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	createTestUser(t, s, "first@example.com")
	createTestUser(t, s, "second@example.com")

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestSQLiteStore_AppendMessage_AssignsID(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	user := createTestUser(t, s, "chat@example.com")

	created := time.Now()
	id, err := s.AppendMessage(ctx, &Message{
		UserID:    user.ID,
		Sender:    SenderUser,
		Content:   "hello",
		CreatedAt: created,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	messages, err := s.ListMessages(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, id, messages[0].ID)
	assert.Equal(t, "hello", messages[0].Content)
	// Client-assigned creation time survives the round trip
	assert.WithinDuration(t, created, messages[0].CreatedAt, time.Millisecond)
}

func TestSQLiteStore_ListMessages_PreservesAppendOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	user := createTestUser(t, s, "order@example.com")

	// Same timestamp for every message: order must still follow append order
	now := time.Now()
	contents := []string{"first", "second", "third", "fourth"}
	senders := []string{SenderUser, SenderAssistant, SenderUser, SenderAssistant}
	for i, content := range contents {
		_, err := s.AppendMessage(ctx, &Message{
			UserID:    user.ID,
			Sender:    senders[i],
			Content:   content,
			CreatedAt: now,
		})
		require.NoError(t, err)
	}

	messages, err := s.ListMessages(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, messages, len(contents))
	for i, msg := range messages {
		assert.Equal(t, contents[i], msg.Content)
		assert.Equal(t, senders[i], msg.Sender)
	}
}

func TestSQLiteStore_ListMessages_ScopedToUser(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	alice := createTestUser(t, s, "alice2@example.com")
	bob := createTestUser(t, s, "bob@example.com")

	_, err := s.AppendMessage(ctx, &Message{UserID: alice.ID, Sender: SenderUser, Content: "from alice", CreatedAt: time.Now()})
	require.NoError(t, err)
	_, err = s.AppendMessage(ctx, &Message{UserID: bob.ID, Sender: SenderUser, Content: "from bob", CreatedAt: time.Now()})
	require.NoError(t, err)

	aliceMsgs, err := s.ListMessages(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, aliceMsgs, 1)
	assert.Equal(t, "from alice", aliceMsgs[0].Content)
}

func TestSQLiteStore_ListMessages_EmptyLog(t *testing.T) {
	s := createTestStore(t)

	user := createTestUser(t, s, "empty@example.com")

	messages, err := s.ListMessages(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestSQLiteStore_FAQs(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	id, err := s.CreateFAQ(ctx, &FAQ{
		Question:  "What is your refund policy?",
		Answer:    "Refunds within 30 days.",
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	_, err = s.CreateFAQ(ctx, &FAQ{
		Question:  "Do you ship internationally?",
		Answer:    "Yes, to most countries.",
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	faqs, err := s.ListFAQs(ctx)
	require.NoError(t, err)
	require.Len(t, faqs, 2)
	assert.Equal(t, "What is your refund policy?", faqs[0].Question)
}
