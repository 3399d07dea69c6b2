package crawlsource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetchParsesListing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":"g1","title":"STEM Grant","funder":"NSF","amount":"$100,000","deadline":"2026-12-01","url":"https://example.org/g1"},
			{"id":"g2","title":""},
			{"title":"Untitled id, still kept","funder":"Local"}
		]`))
	}))
	defer srv.Close()

	src := NewHTTPSource("test-feed", srv.URL)
	got, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d grants, want 2 (empty title skipped)", len(got))
	}
	if got[0].Title != "STEM Grant" || got[0].Funder != "NSF" || got[0].SourceURL != "https://example.org/g1" {
		t.Errorf("grant[0] = %+v", got[0])
	}
	if got[1].SourceURL != srv.URL {
		t.Errorf("missing url should fall back to listing url, got %q", got[1].SourceURL)
	}
}

func TestFetchNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	src := NewHTTPSource("test-feed", srv.URL)
	_, err := src.Fetch(context.Background())
	if err == nil || !strings.Contains(err.Error(), "HTTP 502") {
		t.Errorf("err = %v, want HTTP 502", err)
	}
}

func TestFetchBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	src := NewHTTPSource("test-feed", srv.URL)
	if _, err := src.Fetch(context.Background()); err == nil {
		t.Error("err = nil, want decode error")
	}
}
