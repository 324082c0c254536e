// Package web is the HTTP surface: a JSON API for accounts, the
// conversation, suggestions, and administration, plus an embedded chat page
// that drives the API from the browser. Assistant replies are rendered from
// markdown to HTML server side so the page can display them directly.
package web
