// Package httpserver wires the route table.
package httpserver

import (
	"net/http"

	"mentions-feed/internal/handlers"

	"github.com/go-chi/chi/v5"
)

// NewServer creates the HTTP server with health, trigger, feed, and JSON
// mention endpoints.
func NewServer(port string, trigger handlers.TriggerHandler, feed handlers.FeedHandler, mentions handlers.MentionsHandler) *http.Server {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	r.Get("/api/fetch-mentions", trigger.Handle)
	r.Get("/api/twitter-rss", feed.Handle)
	r.Get("/api/twitter-mentions", mentions.Handle)

	return &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
}
