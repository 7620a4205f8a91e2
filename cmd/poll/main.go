// Command poll runs a single fetch cycle and prints the summary as JSON.
// Intended for cron or systemd timers that run a process instead of
// hitting the HTTP trigger.
package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"mentions-feed/internal/config"
	"mentions-feed/internal/fetcher"
	"mentions-feed/internal/store"
	"mentions-feed/internal/twitter"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	kv, err := openKV(cfg)
	if err != nil {
		slog.Error("open store", "error", err)
		os.Exit(1)
	}
	defer func() { _ = kv.Close() }()

	state := store.NewState(kv)

	var search *twitter.Client
	if cfg.OAuth1.Configured() {
		search = twitter.NewClient(cfg.APIBase, "", cfg.Handle,
			twitter.WithOAuth1(cfg.OAuth1.ConsumerKey, cfg.OAuth1.ConsumerSecret, cfg.OAuth1.AccessToken, cfg.OAuth1.AccessSecret))
	} else {
		search = twitter.NewClient(cfg.APIBase, cfg.BearerToken, cfg.Handle)
	}

	f := fetcher.New(state, search, log)
	f.SetMaxStored(cfg.MaxStored)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	res, err := f.Run(ctx)
	if err != nil {
		slog.Error("fetch cycle failed", "error", err)
		os.Exit(1)
	}

	_ = json.NewEncoder(os.Stdout).Encode(res)
}

func openKV(cfg *config.Config) (store.KV, error) {
	if cfg.KVRestURL != "" {
		return store.NewUpstash(cfg.KVRestURL, cfg.KVRestToken)
	}
	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, err
		}
	}
	return store.NewSQLite(cfg.DatabasePath)
}
