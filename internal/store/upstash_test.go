package store

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// fakeUpstash emulates the Upstash REST surface: GET /get/{key} and
// POST /set/{key} with a {"result": ...} envelope.
type fakeUpstash struct {
	values map[string]string
	auth   string
	// force a backend failure when set
	failStatus int
}

func (f *fakeUpstash) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+f.auth {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
			return
		}
		if f.failStatus != 0 {
			w.WriteHeader(f.failStatus)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "boom"})
			return
		}

		switch {
		case strings.HasPrefix(r.URL.Path, "/get/"):
			key := strings.TrimPrefix(r.URL.Path, "/get/")
			v, ok := f.values[key]
			if !ok {
				_, _ = w.Write([]byte(`{"result":null}`))
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"result": v})
		case strings.HasPrefix(r.URL.Path, "/set/"):
			key := strings.TrimPrefix(r.URL.Path, "/set/")
			body, _ := io.ReadAll(r.Body)
			f.values[key] = string(body)
			_, _ = w.Write([]byte(`{"result":"OK"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "not found"})
		}
	})
}

func newFakeUpstash(t *testing.T) (*Upstash, *fakeUpstash) {
	t.Helper()
	fake := &fakeUpstash{values: make(map[string]string), auth: "kvtok"}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	kv, err := NewUpstash(srv.URL, "kvtok")
	if err != nil {
		t.Fatalf("new upstash: %v", err)
	}
	// Backend errors should surface immediately in tests.
	kv.client.RetryMax = 0
	return kv, fake
}

func TestNewUpstashRequiresCredentials(t *testing.T) {
	if _, err := NewUpstash("", "tok"); err == nil {
		t.Error("expected error for missing URL")
	}
	if _, err := NewUpstash("https://kv.example.com", ""); err == nil {
		t.Error("expected error for missing token")
	}
}

func TestUpstashSetGet(t *testing.T) {
	ctx := context.Background()
	kv, _ := newFakeUpstash(t)

	if err := kv.Set(ctx, "twitter:since_id", "103"); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, ok, err := kv.Get(ctx, "twitter:since_id")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatal("expected key to be present")
	}
	if diff := cmp.Diff("103", got); diff != "" {
		t.Errorf("value mismatch (-want +got):\n%s", diff)
	}
}

func TestUpstashGetAbsent(t *testing.T) {
	ctx := context.Background()
	kv, _ := newFakeUpstash(t)

	_, ok, err := kv.Get(ctx, "twitter:mentions")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected null result to report ok=false")
	}
}

func TestUpstashBackendError(t *testing.T) {
	ctx := context.Background()
	kv, fake := newFakeUpstash(t)
	fake.failStatus = http.StatusServiceUnavailable

	if _, _, err := kv.Get(ctx, "k"); err == nil {
		t.Error("expected error on backend failure status")
	}
	if err := kv.Set(ctx, "k", "v"); err == nil {
		t.Error("expected error on backend failure status")
	}
}

func TestUpstashSendsBearerToken(t *testing.T) {
	ctx := context.Background()
	fake := &fakeUpstash{values: make(map[string]string), auth: "other"}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	kv, err := NewUpstash(srv.URL, "wrong")
	if err != nil {
		t.Fatalf("new upstash: %v", err)
	}
	kv.client.RetryMax = 0

	if _, _, err := kv.Get(ctx, "k"); err == nil {
		t.Error("expected error when token is rejected")
	}
}
