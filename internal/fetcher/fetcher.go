// Package fetcher runs one mention ingestion cycle: read the cursor, poll
// the search API, merge new mentions into the bounded stored list, and
// advance the cursor.
package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mentions-feed/internal/store"
	"mentions-feed/internal/twitter"
	"mentions-feed/internal/types"
)

// DefaultMaxStored bounds the persisted mention list.
const DefaultMaxStored = 500

// SearchClient is the slice of the twitter client the fetcher needs.
type SearchClient interface {
	SearchMentions(ctx context.Context, sinceID string) (*twitter.SearchPage, error)
}

// Result summarizes one completed fetch cycle.
type Result struct {
	NewMentions int       `json:"newMentions"`
	Timestamp   time.Time `json:"timestamp"`
}

// Fetcher coordinates the search client and the state store.
type Fetcher struct {
	state     *store.State
	search    SearchClient
	log       *slog.Logger
	maxStored int
	now       func() time.Time
}

// New creates a Fetcher with the default list bound.
func New(state *store.State, search SearchClient, log *slog.Logger) *Fetcher {
	return &Fetcher{
		state:     state,
		search:    search,
		log:       log,
		maxStored: DefaultMaxStored,
		now:       time.Now,
	}
}

// SetMaxStored overrides the stored-list bound.
func (f *Fetcher) SetMaxStored(n int) {
	if n > 0 {
		f.maxStored = n
	}
}

// SetClock overrides the wall clock (useful for testing).
func (f *Fetcher) SetClock(now func() time.Time) {
	f.now = now
}

// Run executes one fetch cycle. The write order is list, then cursor,
// then timestamp, so the cursor never advances past mentions that were
// not persisted. Any upstream or store error aborts the cycle; the next
// scheduled invocation retries from the old cursor.
func (f *Fetcher) Run(ctx context.Context) (*Result, error) {
	sinceID, err := f.state.Cursor(ctx)
	if err != nil {
		return nil, fmt.Errorf("read cursor: %w", err)
	}

	page, err := f.search.SearchMentions(ctx, sinceID)
	if err != nil {
		return nil, err
	}

	now := f.now().UTC()

	if len(page.Mentions) == 0 {
		f.log.Debug("no new mentions", "since_id", sinceID)
		if err := f.state.SetLastFetch(ctx, now); err != nil {
			return nil, fmt.Errorf("record fetch time: %w", err)
		}
		return &Result{NewMentions: 0, Timestamp: now}, nil
	}

	existing, err := f.state.Mentions(ctx)
	if err != nil {
		return nil, fmt.Errorf("read stored mentions: %w", err)
	}

	merged, added := merge(page.Mentions, existing, f.maxStored)

	if err := f.state.SetMentions(ctx, merged); err != nil {
		return nil, fmt.Errorf("write mentions: %w", err)
	}

	cursor := page.NewestID
	if cursor == "" {
		// The API reports newest_id on every non-empty page; fall back to
		// the first result, which is the newest.
		cursor = page.Mentions[0].ID
	}
	if err := f.state.SetCursor(ctx, cursor); err != nil {
		return nil, fmt.Errorf("write cursor: %w", err)
	}

	if err := f.state.SetLastFetch(ctx, now); err != nil {
		return nil, fmt.Errorf("record fetch time: %w", err)
	}

	f.log.Info("merged mentions", "new", added, "stored", len(merged), "cursor", cursor)
	return &Result{NewMentions: added, Timestamp: now}, nil
}

// merge prepends incoming mentions to the stored list, dropping any id
// already present, and truncates to max entries. since_id semantics
// should already prevent duplicates, but the API contract is not
// enforced on its side, so the stored ids are checked explicitly.
func merge(incoming, existing []types.Mention, max int) ([]types.Mention, int) {
	seen := make(map[string]struct{}, len(existing))
	for _, m := range existing {
		seen[m.ID] = struct{}{}
	}

	fresh := make([]types.Mention, 0, len(incoming))
	for _, m := range incoming {
		if _, dup := seen[m.ID]; dup {
			continue
		}
		seen[m.ID] = struct{}{}
		fresh = append(fresh, m)
	}

	merged := append(fresh, existing...)
	if len(merged) > max {
		merged = merged[:max]
	}
	return merged, len(fresh)
}
