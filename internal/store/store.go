// ABOUTME: Store interface and data types for helpdesk-gateway persistence
// ABOUTME: Defines User, Message, FAQ structs and the Store interface for database operations

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when trying to create a user with an email
// that is already registered
var ErrDuplicateEmail = errors.New("email already registered")

// Role constants for users
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Sender constants for messages
const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

// User represents an authenticated identity that scopes a conversation
type User struct {
	ID           string
	Email        string
	DisplayName  string
	Role         string // "user" or "admin"
	PasswordHash string
	CreatedAt    time.Time
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Message represents a single turn half in a user's conversation log.
// ID is assigned by the store on append; a message held only in memory
// has an empty ID until its write completes.
type Message struct {
	ID        string
	UserID    string
	Sender    string // "user" or "assistant"
	Content   string
	CreatedAt time.Time
}

// FAQ represents a static question/answer pair managed from the admin surface
type FAQ struct {
	ID        string
	Question  string
	Answer    string
	CreatedAt time.Time
}

// Store defines the interface for user, message, and FAQ persistence.
// The message log is append-only: there are no update or delete operations.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	SetUserRole(ctx context.Context, id, role string) error

	// Messages (append-only conversation log, keyed by user)
	AppendMessage(ctx context.Context, msg *Message) (id string, err error)
	ListMessages(ctx context.Context, userID string) ([]*Message, error)

	// FAQs
	CreateFAQ(ctx context.Context, faq *FAQ) (id string, err error)
	ListFAQs(ctx context.Context) ([]*FAQ, error)

	// Close releases any resources held by the store
	Close() error
}
