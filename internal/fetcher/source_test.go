package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func noopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func newTestSource(url string) *Source {
	return NewSource(SourceOptions{URL: url, Timeout: time.Second, UserAgent: "test"}, noopLogger())
}

func TestFetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"date": "2081-01-01",
			"rates": []map[string]any{
				{"id": "gold", "price": "Rs 100,000"},
				{"id": "silver", "price": 1200},
			},
		})
	}))
	defer srv.Close()

	reading, err := newTestSource(srv.URL).Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch should succeed: %v", err)
	}
	if reading.Date != "2081-01-01" {
		t.Fatalf("expected source date, got %s", reading.Date)
	}
	if !reading.Gold.Equal(decimal.NewFromInt(100000)) {
		t.Fatalf("markup should be stripped, got %s", reading.Gold)
	}
	if !reading.Silver.Equal(decimal.NewFromInt(1200)) {
		t.Fatalf("expected silver 1200, got %s", reading.Silver)
	}
}

func TestFetchMissingSilver(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"date":  "2081-01-01",
			"rates": []map[string]any{{"id": "gold", "price": "100000"}},
		})
	}))
	defer srv.Close()

	_, err := newTestSource(srv.URL).Fetch(context.Background())
	if !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
}

func TestFetchNonNumericPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"date": "2081-01-01",
			"rates": []map[string]any{
				{"id": "gold", "price": "n/a"},
				{"id": "silver", "price": "1200"},
			},
		})
	}))
	defer srv.Close()

	_, err := newTestSource(srv.URL).Fetch(context.Background())
	if !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
}

func TestFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestSource(srv.URL).Fetch(context.Background())
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestFetchUnreachable(t *testing.T) {
	_, err := newTestSource("http://127.0.0.1:1").Fetch(context.Background())
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestFetchDateFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"rates": []map[string]any{
				{"id": "gold", "price": "100000"},
				{"id": "silver", "price": "1200"},
			},
		})
	}))
	defer srv.Close()

	src := newTestSource(srv.URL)
	src.now = func() time.Time { return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) }

	reading, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch should succeed: %v", err)
	}
	if reading.Date != "2026-08-31" {
		t.Fatalf("missing date should fall back to today, got %s", reading.Date)
	}
}

func TestNormalizeDateTextual(t *testing.T) {
	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	if got := normalizeDate("15 Falgun 2081", now); got != "2081-11-15" {
		t.Fatalf("expected 2081-11-15, got %s", got)
	}
	if got := normalizeDate("3 Baishakh 2081", now); got != "2081-01-03" {
		t.Fatalf("expected 2081-01-03, got %s", got)
	}
	if got := normalizeDate("2081-04-20", now); got != "2081-04-20" {
		t.Fatalf("iso dates pass through, got %s", got)
	}
	if got := normalizeDate("15 Unknown 2081", now); got != "2026-08-31" {
		t.Fatalf("unknown month falls back to today, got %s", got)
	}
}
