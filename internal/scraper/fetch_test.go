package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matchcenter/yallakora-scraper/internal/config"
	"github.com/matchcenter/yallakora-scraper/internal/logger"
	"github.com/matchcenter/yallakora-scraper/internal/match"
)

func testConfig(url string) config.Config {
	cfg := config.Default()
	cfg.BaseURL = url
	return cfg
}

func mustDate(t *testing.T, s string) match.Date {
	t.Helper()
	d, err := match.Normalize(s)
	if err != nil {
		t.Fatalf("Normalize(%q) error: %v", s, err)
	}
	return d
}

func TestFetch(t *testing.T) {
	tests := []struct {
		name        string
		htmlContent string
		statusCode  int
		wantError   bool
		wantCards   int
	}{
		{
			name:        "successful fetch with championships",
			htmlContent: card("League", item("finish", "A", "B", "")),
			statusCode:  http.StatusOK,
			wantCards:   1,
		},
		{
			name:        "HTTP error",
			htmlContent: "",
			statusCode:  http.StatusNotFound,
			wantError:   true,
		},
		{
			name:        "server error",
			htmlContent: "oops",
			statusCode:  http.StatusInternalServerError,
			wantError:   true,
		},
		{
			name:        "empty page",
			htmlContent: `<html><body><p>No matches</p></body></html>`,
			statusCode:  http.StatusOK,
			wantCards:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if userAgent := r.Header.Get("User-Agent"); userAgent != config.UserAgent {
					t.Errorf("User-Agent = %q, want %q", userAgent, config.UserAgent)
				}
				if date := r.URL.Query().Get("date"); date != "9/29/2025" {
					t.Errorf("date query = %q, want 9/29/2025", date)
				}

				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.htmlContent))
			}))
			defer server.Close()

			fetcher := NewFetcher(testConfig(server.URL), nil, nil)

			doc, err := fetcher.Fetch(context.Background(), mustDate(t, "29-09-2025"))

			if tt.wantError {
				if err == nil {
					t.Fatal("Fetch() expected error, got nil")
				}
				if !errors.Is(err, ErrFetch) {
					t.Errorf("Fetch() error = %v, want ErrFetch", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Fetch() unexpected error: %v", err)
			}
			if got := findGroupings(doc.Selection).Length(); got != tt.wantCards {
				t.Errorf("Fetch() document has %d championships, want %d", got, tt.wantCards)
			}
		})
	}
}

func TestFetch_SingleRequestNoRetry(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewFetcher(testConfig(server.URL), nil, nil).Fetch(context.Background(), mustDate(t, "01-01-2025"))
	if !errors.Is(err, ErrFetch) {
		t.Fatalf("Fetch() error = %v, want ErrFetch", err)
	}
	if requests != 1 {
		t.Errorf("server saw %d requests, want 1", requests)
	}
}

func TestFetch_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewFetcher(testConfig(url), nil, nil).Fetch(context.Background(), mustDate(t, "01-01-2025"))
	if !errors.Is(err, ErrFetch) {
		t.Errorf("Fetch() error = %v, want ErrFetch", err)
	}
}

func TestFetch_ContextDeadline(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	metrics := logger.NewMetrics()
	_, err := NewFetcher(testConfig(server.URL), nil, metrics).Fetch(ctx, mustDate(t, "01-01-2025"))
	if !errors.Is(err, ErrFetch) {
		t.Errorf("Fetch() error = %v, want ErrFetch", err)
	}

	timings := metrics.GetSnapshot()["timings"].(map[string]map[string]interface{})
	if timings["fetch"]["count"].(int) != 1 {
		t.Errorf("fetch timing count = %v, want 1", timings["fetch"]["count"])
	}
}

func TestRequestURL(t *testing.T) {
	fetcher := NewFetcher(config.Default(), nil, nil)

	got := fetcher.RequestURL(mustDate(t, "05-03-2026"))
	want := config.MatchCenterURL + "?date=3/5/2026"
	if got != want {
		t.Errorf("RequestURL() = %q, want %q", got, want)
	}
}

func TestParseDocument_HTMLEntities(t *testing.T) {
	doc, err := ParseDocument(strings.NewReader(card("Cup &amp; Shield", item("finish", "A &amp; B", "C", ""))))
	if err != nil {
		t.Fatalf("ParseDocument() error: %v", err)
	}

	got := NewExtractor(config.GroupingsFirst, nil, nil).Extract(doc)
	if len(got.Records) != 1 {
		t.Fatalf("Extract() returned %d records, want 1", len(got.Records))
	}
	if got.Records[0].Championship != "Cup & Shield" || got.Records[0].FirstTeam != "A & B" {
		t.Errorf("entities not decoded: %+v", got.Records[0])
	}
}

func TestFetch_CloudflareBypass(t *testing.T) {
	var gotDate string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotDate = r.URL.Query().Get("date")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<div class="matchCard matchesList"><h2>Cup</h2></div>`))
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.CloudflareBypass = true

	doc, err := NewFetcher(cfg, nil, nil).Fetch(context.Background(), mustDate(t, "05-10-2025"))
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if gotDate != "10/5/2025" {
		t.Errorf("date query = %q, want 10/5/2025", gotDate)
	}
	if doc.Find("h2").Text() != "Cup" {
		t.Error("document not parsed through the bypass transport")
	}
}
