package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"mentions-feed/internal/feed"
	"mentions-feed/internal/store"
	"mentions-feed/internal/types"
)

// FeedHandler serves the stored mentions as a public RSS document. Reads
// go straight to the store on every request; freshness beyond that is
// left to the shared-cache headers.
type FeedHandler struct {
	State    *store.State
	Renderer *feed.Renderer
	Log      *slog.Logger
}

// Handle runs GET /api/twitter-rss.
func (h FeedHandler) Handle(w http.ResponseWriter, r *http.Request) {
	mentions, err := h.State.Mentions(r.Context())
	if err != nil {
		h.Log.Error("load mentions for feed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Failed to load mentions"})
		return
	}

	body, err := h.Renderer.Render(mentions, time.Now())
	if err != nil {
		h.Log.Error("render feed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Failed to render feed"})
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, s-maxage=900, stale-while-revalidate=60")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// MentionsHandler serves the stored mentions and the last fetch time as
// JSON for the site UI.
type MentionsHandler struct {
	State *store.State
	Log   *slog.Logger
}

// Handle runs GET /api/twitter-mentions.
func (h MentionsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	mentions, err := h.State.Mentions(r.Context())
	if err != nil {
		h.Log.Error("load mentions", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Failed to load mentions"})
		return
	}

	lastFetch, err := h.State.LastFetch(r.Context())
	if err != nil {
		h.Log.Error("load last fetch time", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Failed to load mentions"})
		return
	}

	if mentions == nil {
		mentions = []types.Mention{}
	}

	body := map[string]any{
		"mentions": mentions,
		"count":    len(mentions),
	}
	if !lastFetch.IsZero() {
		body["lastFetch"] = lastFetch.UTC().Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, body)
}
