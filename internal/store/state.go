package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mentions-feed/internal/types"
)

// State is the typed view over the three pipeline keys. The mention list
// is decoded strictly on every read so a drifted stored shape fails
// loudly instead of producing malformed feed entries.
type State struct {
	kv KV
}

// NewState wraps a KV backend.
func NewState(kv KV) *State {
	return &State{kv: kv}
}

// Cursor returns the stored since_id, or "" when absent (cold start).
func (s *State) Cursor(ctx context.Context) (string, error) {
	v, ok, err := s.kv.Get(ctx, KeySinceID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	return v, nil
}

// SetCursor advances the stored since_id.
func (s *State) SetCursor(ctx context.Context, id string) error {
	return s.kv.Set(ctx, KeySinceID, id)
}

// Mentions returns the stored mention list, newest-first. An absent key
// yields an empty list; a stored value that does not decode as a mention
// array is an error.
func (s *State) Mentions(ctx context.Context) ([]types.Mention, error) {
	v, ok, err := s.kv.Get(ctx, KeyMentions)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var mentions []types.Mention
	if err := json.Unmarshal([]byte(v), &mentions); err != nil {
		return nil, fmt.Errorf("decode stored mentions: %w", err)
	}
	return mentions, nil
}

// SetMentions overwrites the stored mention list.
func (s *State) SetMentions(ctx context.Context, mentions []types.Mention) error {
	data, err := json.Marshal(mentions)
	if err != nil {
		return fmt.Errorf("encode mentions: %w", err)
	}
	return s.kv.Set(ctx, KeyMentions, string(data))
}

// LastFetch returns the recorded timestamp of the most recent successful
// fetch cycle, or the zero time when none has run yet.
func (s *State) LastFetch(ctx context.Context) (time.Time, error) {
	v, ok, err := s.kv.Get(ctx, KeyLastFetch)
	if err != nil {
		return time.Time{}, err
	}
	if !ok {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("decode last fetch time: %w", err)
	}
	return t, nil
}

// SetLastFetch records the wall-clock time of a fetch cycle.
func (s *State) SetLastFetch(ctx context.Context, t time.Time) error {
	return s.kv.Set(ctx, KeyLastFetch, t.UTC().Format(time.RFC3339))
}
