// ABOUTME: Mock Store implementation for testing
// ABOUTME: Allows tests to run without SQLite

package store

import (
	"context"
	"strconv"
	"sync"
)

// MockStore is an in-memory Store implementation for testing.
type MockStore struct {
	mu         sync.RWMutex
	users      map[string]*User      // keyed by user ID
	emailIndex map[string]string     // keyed by email -> user ID
	messages   map[string][]*Message // keyed by user ID, append order
	faqs       []*FAQ
	nextID     int

	// FailAppend forces AppendMessage to fail, for exercising the
	// fire-and-forget persistence path.
	FailAppend error
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		users:      make(map[string]*User),
		emailIndex: make(map[string]string),
		messages:   make(map[string][]*Message),
	}
}

// CreateUser stores a new user.
func (m *MockStore) CreateUser(ctx context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.emailIndex[user.Email]; ok {
		return ErrDuplicateEmail
	}

	// Make a copy to avoid external modification
	u := *user
	m.users[u.ID] = &u
	m.emailIndex[u.Email] = u.ID
	return nil
}

// GetUser retrieves a user by ID.
func (m *MockStore) GetUser(ctx context.Context, id string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}

	// Return a copy
	copied := *u
	return &copied, nil
}

// GetUserByEmail retrieves a user by email.
func (m *MockStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.emailIndex[email]
	if !ok {
		return nil, ErrNotFound
	}

	copied := *m.users[id]
	return &copied, nil
}

// ListUsers returns all users in insertion order of their IDs.
func (m *MockStore) ListUsers(ctx context.Context) ([]*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]*User, 0, len(m.users))
	for _, u := range m.users {
		copied := *u
		users = append(users, &copied)
	}
	return users, nil
}

// SetUserRole updates a user's role.
func (m *MockStore) SetUserRole(ctx context.Context, id, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Role = role
	return nil
}

// AppendMessage appends a message and returns a generated ID.
func (m *MockStore) AppendMessage(ctx context.Context, msg *Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailAppend != nil {
		return "", m.FailAppend
	}

	m.nextID++
	id := "msg-" + strconv.Itoa(m.nextID)

	copied := *msg
	copied.ID = id
	m.messages[msg.UserID] = append(m.messages[msg.UserID], &copied)
	return id, nil
}

// ListMessages returns the messages for a user in append order.
func (m *MockStore) ListMessages(ctx context.Context, userID string) ([]*Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	msgs := m.messages[userID]
	copied := make([]*Message, len(msgs))
	for i, msg := range msgs {
		c := *msg
		copied[i] = &c
	}
	return copied, nil
}

// CreateFAQ stores a new FAQ and returns a generated ID.
func (m *MockStore) CreateFAQ(ctx context.Context, faq *FAQ) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := "faq-" + strconv.Itoa(m.nextID)

	copied := *faq
	copied.ID = id
	m.faqs = append(m.faqs, &copied)
	return id, nil
}

// ListFAQs returns all FAQs in insertion order.
func (m *MockStore) ListFAQs(ctx context.Context) ([]*FAQ, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	copied := make([]*FAQ, len(m.faqs))
	for i, faq := range m.faqs {
		c := *faq
		copied[i] = &c
	}
	return copied, nil
}

// Close is a no-op for the mock store.
func (m *MockStore) Close() error {
	return nil
}
