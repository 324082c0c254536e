// ABOUTME: Administrative operations over the account and FAQ stores
// ABOUTME: Lists users, promotes them to admin, and manages FAQ entries

package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/2389/helpdesk-gateway/internal/store"
)

// Validation errors
var (
	ErrEmailRequired    = errors.New("email is required")
	ErrQuestionRequired = errors.New("question is required")
	ErrAnswerRequired   = errors.New("answer is required")
)

// Store defines the store operations needed for administration.
type Store interface {
	ListUsers(ctx context.Context) ([]*store.User, error)
	GetUserByEmail(ctx context.Context, email string) (*store.User, error)
	SetUserRole(ctx context.Context, id, role string) error
	CreateFAQ(ctx context.Context, faq *store.FAQ) (string, error)
	ListFAQs(ctx context.Context) ([]*store.FAQ, error)
}

// Service exposes the administrative surface. Role enforcement happens at
// the HTTP layer; the service assumes its caller is already authorized.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService creates an admin service. Pass nil logger for default.
func NewService(adminStore Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  adminStore,
		logger: logger.With("component", "admin"),
	}
}

// ListUsers returns every registered account.
func (s *Service) ListUsers(ctx context.Context) ([]*store.User, error) {
	return s.store.ListUsers(ctx)
}

// PromoteByEmail grants the admin role to the account with the given email.
// Promoting an existing admin is a no-op.
func (s *Service) PromoteByEmail(ctx context.Context, email string) (*store.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, ErrEmailRequired
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("looking up %s: %w", email, err)
	}

	if user.IsAdmin() {
		return user, nil
	}

	if err := s.store.SetUserRole(ctx, user.ID, store.RoleAdmin); err != nil {
		return nil, fmt.Errorf("promoting %s: %w", email, err)
	}
	user.Role = store.RoleAdmin

	s.logger.Info("user promoted to admin", "user_id", user.ID, "email", email)
	return user, nil
}

// AddFAQ stores a new FAQ entry and returns it with its assigned ID.
func (s *Service) AddFAQ(ctx context.Context, question, answer string) (*store.FAQ, error) {
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if question == "" {
		return nil, ErrQuestionRequired
	}
	if answer == "" {
		return nil, ErrAnswerRequired
	}

	faq := &store.FAQ{Question: question, Answer: answer, CreatedAt: time.Now()}
	id, err := s.store.CreateFAQ(ctx, faq)
	if err != nil {
		return nil, fmt.Errorf("creating faq: %w", err)
	}
	faq.ID = id

	s.logger.Info("faq added", "faq_id", id)
	return faq, nil
}

// ListFAQs returns all FAQ entries in creation order.
func (s *Service) ListFAQs(ctx context.Context) ([]*store.FAQ, error) {
	return s.store.ListFAQs(ctx)
}
