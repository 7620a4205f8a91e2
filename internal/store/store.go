// Package store holds all persisted pipeline state behind a small
// key-value contract with two backends: a hosted REST KV (Upstash-style)
// and a local SQLite database.
package store

import "context"

// Keys under which the pipeline persists its state.
const (
	KeySinceID   = "twitter:since_id"
	KeyMentions  = "twitter:mentions"
	KeyLastFetch = "twitter:last_fetch"
)

// KV is the storage contract. Set fully overwrites the prior value at a
// key; there is no compare-and-swap, so concurrent writers race and the
// last write wins.
type KV interface {
	// Get returns the value at key. The second return is false when the
	// key is absent.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}
