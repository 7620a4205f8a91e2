// Package poller runs fetch cycles on a fixed cadence for deployments
// without an external cron scheduler.
package poller

import (
	"context"
	"log/slog"
	"time"

	"mentions-feed/internal/fetcher"
)

// FetchFunc runs one ingestion cycle.
type FetchFunc func(ctx context.Context) (*fetcher.Result, error)

// Poller invokes a fetch cycle immediately and then on every tick.
type Poller struct {
	fetch FetchFunc
	log   *slog.Logger
	tick  time.Duration
}

// New creates a Poller with the given interval.
func New(fetch FetchFunc, tick time.Duration, log *slog.Logger) *Poller {
	return &Poller{fetch: fetch, log: log, tick: tick}
}

// Run blocks until ctx is cancelled. Failed cycles are logged and
// retried on the next tick; there is no backoff beyond the cadence.
func (p *Poller) Run(ctx context.Context) {
	p.runOnce(ctx)

	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.runOnce(ctx)
		}
	}
}

func (p *Poller) runOnce(ctx context.Context) {
	res, err := p.fetch(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.log.Error("fetch cycle failed", "error", err)
		}
		return
	}
	if res.NewMentions > 0 {
		p.log.Info("fetch cycle complete", "new_mentions", res.NewMentions)
	}
}
