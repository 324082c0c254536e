// ABOUTME: Renders the chat page shell from embedded templates
// ABOUTME: The page drives the JSON API from the browser

package web

import (
	"html/template"
	"net/http"
)

type chatPageData struct {
	Title       string
	Suggestions []string
}

// handleChatPage renders the chat shell. The transcript itself is fetched
// by the page through /api/history after sign-in.
func (s *Server) handleChatPage(w http.ResponseWriter, r *http.Request) {
	data := chatPageData{
		Title:       "Support Assistant",
		Suggestions: s.suggestions,
	}

	tmpl := template.Must(template.ParseFS(templateFS, "templates/chat.html"))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		s.logger.Error("failed to render chat page", "error", err)
	}
}
