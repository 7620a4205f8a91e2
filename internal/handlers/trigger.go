// Package handlers implements the HTTP surface: the authenticated fetch
// trigger and the public feed and JSON endpoints.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"mentions-feed/internal/fetcher"
)

// TriggerHandler gates one fetch cycle behind a shared-secret check. Only
// the external scheduler holds the secret; everything else gets a 401
// without any work being done.
type TriggerHandler struct {
	Secret string
	Fetch  func(ctx context.Context) (*fetcher.Result, error)
	Log    *slog.Logger
}

// Handle runs GET /api/fetch-mentions.
func (h TriggerHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer "+h.Secret {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "Unauthorized"})
		return
	}

	res, err := h.Fetch(r.Context())
	if err != nil {
		h.Log.Error("fetch cycle failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "Failed to fetch mentions",
			"details": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"newMentions": res.NewMentions,
		"timestamp":   res.Timestamp.UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
