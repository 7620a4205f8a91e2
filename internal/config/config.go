// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// OAuth1Creds holds the four credentials for OAuth 1.0a user-context auth.
type OAuth1Creds struct {
	ConsumerKey    string
	ConsumerSecret string
	AccessToken    string
	AccessSecret   string
}

// Configured reports whether all four credentials are present.
func (c OAuth1Creds) Configured() bool {
	return c.ConsumerKey != "" && c.ConsumerSecret != "" && c.AccessToken != "" && c.AccessSecret != ""
}

// Config holds the application configuration.
type Config struct {
	Port         string
	CronSecret   string
	Handle       string
	BearerToken  string
	OAuth1       OAuth1Creds
	APIBase      string
	KVRestURL    string
	KVRestToken  string
	DatabasePath string
	MaxStored    int
	PollInterval time.Duration
	LogLevel     string
	SiteURL      string
	FeedTitle    string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	handle := os.Getenv("X_HANDLE")
	if handle == "" {
		return nil, fmt.Errorf("X_HANDLE is required")
	}

	secret := os.Getenv("CRON_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("CRON_SECRET is required")
	}

	oauth := OAuth1Creds{
		ConsumerKey:    os.Getenv("X_CONSUMER_KEY"),
		ConsumerSecret: os.Getenv("X_CONSUMER_SECRET"),
		AccessToken:    os.Getenv("X_ACCESS_TOKEN"),
		AccessSecret:   os.Getenv("X_ACCESS_SECRET"),
	}
	bearer := os.Getenv("X_BEARER_TOKEN")
	if bearer == "" && !oauth.Configured() {
		return nil, fmt.Errorf("X_BEARER_TOKEN or the full X_CONSUMER_KEY/X_CONSUMER_SECRET/X_ACCESS_TOKEN/X_ACCESS_SECRET set is required")
	}

	kvURL := os.Getenv("KV_REST_URL")
	kvToken := os.Getenv("KV_REST_TOKEN")
	if (kvURL == "") != (kvToken == "") {
		return nil, fmt.Errorf("KV_REST_URL and KV_REST_TOKEN must be set together")
	}

	maxStored := 500
	if raw := os.Getenv("MAX_STORED"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid MAX_STORED %q", raw)
		}
		maxStored = n
	}

	var pollInterval time.Duration
	if raw := os.Getenv("POLL_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			return nil, fmt.Errorf("invalid POLL_INTERVAL %q", raw)
		}
		pollInterval = d
	}

	return &Config{
		Port:         getEnv("PORT", "8080"),
		CronSecret:   secret,
		Handle:       handle,
		BearerToken:  bearer,
		OAuth1:       oauth,
		APIBase:      getEnv("X_BASE", "https://api.twitter.com/2"),
		KVRestURL:    kvURL,
		KVRestToken:  kvToken,
		DatabasePath: getEnv("DATABASE_PATH", "./data/mentions.db"),
		MaxStored:    maxStored,
		PollInterval: pollInterval,
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		SiteURL:      getEnv("SITE_URL", "https://example.com"),
		FeedTitle:    getEnv("FEED_TITLE", "Twitter Mentions"),
	}, nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
