package enrich

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestPostWithBackoffRetriesRateLimits(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"text": "hello"}`))
	}))
	defer srv.Close()

	hf := &HuggingFace{apiKey: "k", client: srv.Client()}

	body, err := hf.postWithBackoff(context.Background(), srv.URL, "application/json", []byte(`{}`))
	if err != nil {
		t.Fatalf("postWithBackoff: %v", err)
	}
	if string(body) != `{"text": "hello"}` {
		t.Errorf("body = %s", body)
	}
	if got := hits.Load(); got != 3 {
		t.Errorf("server hit %d times, want 3", got)
	}
}

func TestPostWithBackoffNonRetryableStatusFailsFast(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	hf := &HuggingFace{apiKey: "k", client: srv.Client()}

	if _, err := hf.postWithBackoff(context.Background(), srv.URL, "application/json", nil); err == nil {
		t.Fatal("expected error for status 400")
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hit %d times, want 1 (no retry on 400)", got)
	}
}

func TestPostWithBackoffHonorsContextBetweenRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	hf := &HuggingFace{apiKey: "k", client: srv.Client()}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := hf.postWithBackoff(ctx, srv.URL, "application/json", nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
