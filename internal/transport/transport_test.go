package transport

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/daniloc96/canvas-xnat-sync/internal/config"
	"github.com/go-resty/resty/v2"
)

func TestConfigureRetryRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := ConfigureRetry(resty.New(), config.RetryConfig{MaxAttempts: 3, Wait: time.Millisecond, MaxWait: 2 * time.Millisecond})
	resp, err := client.R().Get(srv.URL)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		t.Fatalf("expected 200 after retries, got %d", resp.StatusCode())
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestConfigureRetryDisabled(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := ConfigureRetry(resty.New(), config.RetryConfig{})
	resp, err := client.R().Get(srv.URL)
	if err != nil {
		t.Fatalf("expected no transport error, got %v", err)
	}
	if resp.StatusCode() != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode())
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected a single call, got %d", calls)
	}
}

func TestConfigureRetryDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := ConfigureRetry(resty.New(), config.RetryConfig{MaxAttempts: 3, Wait: time.Millisecond, MaxWait: time.Millisecond})
	if _, err := client.R().Get(srv.URL); err != nil {
		t.Fatalf("expected no transport error, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected 404 to fail fast, got %d calls", calls)
	}
}

func TestErrorFieldsIncludeStatusAndBody(t *testing.T) {
	err := fmt.Errorf("adding member: %w", &APIError{Operation: "add member", StatusCode: 403, Body: "forbidden"})
	fields := ErrorFields(err)
	if fields["status_code"] != 403 {
		t.Fatalf("expected status_code 403, got %v", fields["status_code"])
	}
	if fields["body"] != "forbidden" {
		t.Fatalf("expected body forbidden, got %v", fields["body"])
	}
	if StatusCode(err) != 403 {
		t.Fatalf("expected StatusCode 403, got %d", StatusCode(err))
	}
}

func TestTruncateBodyKeepsRunesWhole(t *testing.T) {
	// "é" is two bytes, so the cap falls inside a rune.
	body := []byte(strings.Repeat("a", maxBodyInError-1) + strings.Repeat("é", 10))

	got := truncateBody(body)
	if !utf8.ValidString(got) {
		t.Fatalf("expected valid UTF-8, got %q", got[len(got)-8:])
	}
	want := strings.Repeat("a", maxBodyInError-1) + "..."
	if got != want {
		t.Fatalf("expected body cut before the split rune, got suffix %q", got[len(got)-8:])
	}
	if short := truncateBody([]byte("not found")); short != "not found" {
		t.Fatalf("expected short body unchanged, got %q", short)
	}
}
