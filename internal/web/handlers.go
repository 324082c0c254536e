// ABOUTME: JSON API handlers for accounts, the conversation, and administration
// ABOUTME: Assistant message bodies are rendered to HTML with goldmark

package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"

	"github.com/2389/helpdesk-gateway/internal/admin"
	"github.com/2389/helpdesk-gateway/internal/auth"
	"github.com/2389/helpdesk-gateway/internal/conversation"
	"github.com/2389/helpdesk-gateway/internal/store"
)

// messageJSON is the wire shape of a conversation message. HTML is populated
// for assistant messages only; user text is never interpreted as markdown.
type messageJSON struct {
	ID        string    `json:"id,omitempty"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	HTML      string    `json:"html,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type userJSON struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	Role        string `json:"role"`
}

func toUserJSON(u *store.User) userJSON {
	return userJSON{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName, Role: u.Role}
}

func (s *Server) toMessageJSON(msg store.Message) messageJSON {
	out := messageJSON{
		ID:        msg.ID,
		Sender:    msg.Sender,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}
	if msg.Sender == store.SenderAssistant {
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(msg.Content), &buf); err != nil {
			s.logger.Warn("markdown render failed", "error", err)
		} else {
			out.HTML = buf.String()
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// handleRegister creates an account and returns a session token.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		writeError(w, http.StatusBadRequest, "valid email is required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("password hashing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	user := &store.User{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		Role:         store.RoleUser,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := s.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		s.logger.Error("user creation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	token, err := s.verifier.Generate(user.ID, s.tokenTTL)
	if err != nil {
		s.logger.Error("token generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	s.logger.Info("user registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, map[string]any{
		"token": token,
		"user":  toUserJSON(user),
	})
}

// handleLogin verifies credentials and returns a session token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	user, err := s.store.GetUserByEmail(r.Context(), email)
	if err != nil {
		// Same response as a wrong password, no account enumeration
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := s.verifier.Generate(user.ID, s.tokenTTL)
	if err != nil {
		s.logger.Error("token generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  toUserJSON(user),
	})
}

// handleSend submits a message for the signed-in user and returns the
// completed turn as the updated transcript.
func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	user := auth.FromContext(r.Context())

	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	orch, err := s.manager.Activate(r.Context(), user.ID)
	if err != nil {
		s.logger.Error("session activation failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "could not open conversation")
		return
	}

	if err := orch.Submit(r.Context(), req.Message); err != nil {
		switch {
		case errors.Is(err, conversation.ErrEmptyMessage):
			writeError(w, http.StatusBadRequest, "message is empty")
		case errors.Is(err, conversation.ErrTurnPending):
			writeError(w, http.StatusConflict, "a reply is still pending")
		default:
			s.logger.Error("submit failed", "user_id", user.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "send failed")
		}
		return
	}

	s.writeTranscript(w, orch)
}

// handleHistory returns the signed-in user's transcript.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	user := auth.FromContext(r.Context())

	orch, err := s.manager.Activate(r.Context(), user.ID)
	if err != nil {
		s.logger.Error("session activation failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "could not open conversation")
		return
	}

	s.writeTranscript(w, orch)
}

func (s *Server) writeTranscript(w http.ResponseWriter, orch *conversation.Orchestrator) {
	snapshot := orch.Snapshot()
	messages := make([]messageJSON, len(snapshot))
	for i, msg := range snapshot {
		messages[i] = s.toMessageJSON(msg)
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

// handleSuggest publishes a suggested query onto the bus; it reaches the
// user's conversation through the same path as a typed message.
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	user := auth.FromContext(r.Context())

	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "query is empty")
		return
	}

	// The session must be active so the bus has a subscriber
	if _, err := s.manager.Activate(r.Context(), user.ID); err != nil {
		s.logger.Error("session activation failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "could not open conversation")
		return
	}

	s.bus.Publish(user.ID, req.Query)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// handleSuggestions returns the configured example queries.
func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": s.suggestions})
}

// handleLogout releases the user's session. The persisted transcript is
// untouched and reloads on the next sign-in.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	user := auth.FromContext(r.Context())
	s.manager.Release(user.ID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

func (s *Server) handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.admin.ListUsers(r.Context())
	if err != nil {
		s.logger.Error("listing users failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not list users")
		return
	}

	out := make([]userJSON, len(users))
	for i, u := range users {
		out[i] = toUserJSON(u)
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": out})
}

func (s *Server) handleAdminPromote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.admin.PromoteByEmail(r.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, admin.ErrEmailRequired):
			writeError(w, http.StatusBadRequest, "email is required")
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "no account with that email")
		default:
			s.logger.Error("promotion failed", "error", err)
			writeError(w, http.StatusInternalServerError, "promotion failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": toUserJSON(user)})
}

func (s *Server) handleAdminListFAQs(w http.ResponseWriter, r *http.Request) {
	faqs, err := s.admin.ListFAQs(r.Context())
	if err != nil {
		s.logger.Error("listing faqs failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not list faqs")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"faqs": faqs})
}

func (s *Server) handleAdminAddFAQ(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	faq, err := s.admin.AddFAQ(r.Context(), req.Question, req.Answer)
	if err != nil {
		switch {
		case errors.Is(err, admin.ErrQuestionRequired), errors.Is(err, admin.ErrAnswerRequired):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			s.logger.Error("faq creation failed", "error", err)
			writeError(w, http.StatusInternalServerError, "could not create faq")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"faq": faq})
}
