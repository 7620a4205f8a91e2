package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"mentions-feed/internal/config"
	"mentions-feed/internal/fetcher"
	"mentions-feed/internal/feed"
	"mentions-feed/internal/handlers"
	"mentions-feed/internal/httpserver"
	"mentions-feed/internal/poller"
	"mentions-feed/internal/store"
	"mentions-feed/internal/twitter"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	kv, err := openKV(cfg)
	if err != nil {
		log.Error("open store", "error", err)
		os.Exit(1)
	}
	defer func() { _ = kv.Close() }()

	state := store.NewState(kv)
	search := newSearchClient(cfg)

	f := fetcher.New(state, search, log)
	f.SetMaxStored(cfg.MaxStored)

	renderer := &feed.Renderer{
		Title:       cfg.FeedTitle,
		SiteLink:    cfg.SiteURL,
		SelfURL:     cfg.SiteURL + "/api/twitter-rss",
		Description: "Recent Twitter mentions of @" + cfg.Handle,
	}

	srv := httpserver.NewServer(cfg.Port,
		handlers.TriggerHandler{Secret: cfg.CronSecret, Fetch: f.Run, Log: log},
		handlers.FeedHandler{State: state, Renderer: renderer, Log: log},
		handlers.MentionsHandler{State: state, Log: log},
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.PollInterval > 0 {
		p := poller.New(f.Run, cfg.PollInterval, log)
		go p.Run(ctx)
		log.Info("internal poller enabled", "interval", cfg.PollInterval)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("mentions-feed listening", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
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

func newSearchClient(cfg *config.Config) *twitter.Client {
	if cfg.OAuth1.Configured() {
		return twitter.NewClient(cfg.APIBase, "", cfg.Handle,
			twitter.WithOAuth1(cfg.OAuth1.ConsumerKey, cfg.OAuth1.ConsumerSecret, cfg.OAuth1.AccessToken, cfg.OAuth1.AccessSecret))
	}
	return twitter.NewClient(cfg.APIBase, cfg.BearerToken, cfg.Handle)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
