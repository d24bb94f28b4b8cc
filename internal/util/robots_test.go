package util

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const testUserAgent = "Crosswalk/0.1 (+https://github.com/avetrov/crosswalk)"

func robotsServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		_, _ = fmt.Fprint(w, body)
	}))
}

func TestRobotsChecker_DisallowedPath(t *testing.T) {
	server := robotsServer(t, "User-agent: Crosswalk\nDisallow: /private/\nCrawl-delay: 2\n\nUser-agent: *\nDisallow: /\n")
	defer server.Close()

	checker := NewRobotsChecker(testUserAgent, 5*time.Second)
	ctx := context.Background()

	allowed, delay, err := checker.CanFetch(ctx, server.URL+"/public/self-study")
	if err != nil {
		t.Fatalf("CanFetch failed: %v", err)
	}
	if !allowed {
		t.Error("Expected public path to be allowed")
	}
	if delay != 2*time.Second {
		t.Errorf("Expected 2s crawl delay, got %v", delay)
	}

	allowed, _, err = checker.CanFetch(ctx, server.URL+"/private/report")
	if err != nil {
		t.Fatalf("CanFetch failed: %v", err)
	}
	if allowed {
		t.Error("Expected private path to be disallowed")
	}
}

func TestRobotsChecker_MissingRobotsAllowsAll(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	checker := NewRobotsChecker(testUserAgent, 5*time.Second)

	allowed, delay, err := checker.CanFetch(context.Background(), server.URL+"/anything")
	if err != nil {
		t.Fatalf("CanFetch failed: %v", err)
	}
	if !allowed {
		t.Error("Expected allow-all when robots.txt is missing")
	}
	if delay != 0 {
		t.Errorf("Expected no crawl delay, got %v", delay)
	}
}

func TestRobotsChecker_CachesPerHost(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			requests++
			_, _ = fmt.Fprint(w, "User-agent: *\nDisallow:\n")
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	checker := NewRobotsChecker(testUserAgent, 5*time.Second)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if allowed := checker.IsAllowed(ctx, server.URL+"/page"); !allowed {
			t.Fatal("Expected path to be allowed")
		}
	}

	if requests != 1 {
		t.Errorf("Expected 1 robots.txt fetch, got %d", requests)
	}
}

func TestNormalizeUserAgent(t *testing.T) {
	tests := []struct {
		ua   string
		want string
	}{
		{testUserAgent, "Crosswalk"},
		{"Mozilla/5.0 (compatible)", "Mozilla"},
		{"plainagent", "plainagent"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeUserAgent(tt.ua); got != tt.want {
			t.Errorf("NormalizeUserAgent(%q) = %q, want %q", tt.ua, got, tt.want)
		}
	}
}
