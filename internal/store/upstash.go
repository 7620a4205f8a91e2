package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
)

// Upstash talks to an Upstash-Redis-compatible REST endpoint. Values are
// opaque strings; callers are responsible for JSON encoding.
type Upstash struct {
	baseURL string
	token   string
	client  *retryablehttp.Client
}

// NewUpstash builds a REST KV client. Both the base URL and the token are
// required credentials.
func NewUpstash(baseURL, token string) (*Upstash, error) {
	if baseURL == "" || token == "" {
		return nil, fmt.Errorf("kv: REST URL and token are required")
	}
	client := retryablehttp.NewClient()
	client.Logger = nil
	return &Upstash{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  client,
	}, nil
}

// restResult is the envelope every Upstash REST response uses.
type restResult struct {
	Result *string `json:"result"`
	Error  string  `json:"error,omitempty"`
}

// Get issues GET {base}/get/{key}. A null result means the key is absent.
func (u *Upstash) Get(ctx context.Context, key string) (string, bool, error) {
	endpoint := fmt.Sprintf("%s/get/%s", u.baseURL, url.PathEscape(key))
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", false, err
	}
	res, err := u.do(req)
	if err != nil {
		return "", false, fmt.Errorf("kv get %s: %w", key, err)
	}
	if res.Result == nil {
		return "", false, nil
	}
	return *res.Result, true, nil
}

// Set issues POST {base}/set/{key} with the raw value as the body.
func (u *Upstash) Set(ctx context.Context, key, value string) error {
	endpoint := fmt.Sprintf("%s/set/%s", u.baseURL, url.PathEscape(key))
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(value))
	if err != nil {
		return err
	}
	if _, err := u.do(req); err != nil {
		return fmt.Errorf("kv set %s: %w", key, err)
	}
	return nil
}

// Close is a no-op; the REST client holds no connection state worth tearing down.
func (u *Upstash) Close() error { return nil }

func (u *Upstash) do(req *retryablehttp.Request) (*restResult, error) {
	req.Header.Set("Authorization", "Bearer "+u.token)

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var res restResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("backend status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode >= 300 {
		if res.Error != "" {
			return nil, fmt.Errorf("backend status %d: %s", resp.StatusCode, res.Error)
		}
		return nil, fmt.Errorf("backend status %d", resp.StatusCode)
	}
	return &res, nil
}
