package util

import (
	"net/http"
	"net/url"
	"testing"
)

func proxyFor(t *testing.T, fn func(*http.Request) (*url.URL, error), rawURL string) *url.URL {
	t.Helper()
	req := &http.Request{URL: mustParse(t, rawURL)}
	proxy, err := fn(req)
	if err != nil {
		t.Fatalf("proxy func failed for %s: %v", rawURL, err)
	}
	return proxy
}

func mustParse(t *testing.T, rawURL string) *url.URL {
	t.Helper()
	u, err := url.Parse(rawURL)
	if err != nil {
		t.Fatalf("parse %s: %v", rawURL, err)
	}
	return u
}

func TestNewProxyFunc_SchemeSelection(t *testing.T) {
	fn := NewProxyFunc("http://proxy.internal:3128", "http://sproxy.internal:3128", "")

	if got := proxyFor(t, fn, "http://example.edu/page"); got == nil || got.Host != "proxy.internal:3128" {
		t.Errorf("expected http proxy, got %v", got)
	}
	if got := proxyFor(t, fn, "https://example.edu/page"); got == nil || got.Host != "sproxy.internal:3128" {
		t.Errorf("expected https proxy, got %v", got)
	}
}

func TestNewProxyFunc_HTTPFallbackForHTTPS(t *testing.T) {
	fn := NewProxyFunc("http://proxy.internal:3128", "", "")
	if got := proxyFor(t, fn, "https://example.edu"); got == nil || got.Host != "proxy.internal:3128" {
		t.Errorf("expected fallback to http proxy, got %v", got)
	}
}

func TestNewProxyFunc_NoProxyBypass(t *testing.T) {
	fn := NewProxyFunc("http://proxy.internal:3128", "", "localhost, .example.edu")

	if got := proxyFor(t, fn, "http://localhost:8080/corpus"); got != nil {
		t.Errorf("expected direct connection for localhost, got %v", got)
	}
	if got := proxyFor(t, fn, "http://www.example.edu/report"); got != nil {
		t.Errorf("expected direct connection for bypassed suffix, got %v", got)
	}
	if got := proxyFor(t, fn, "http://other.edu"); got == nil {
		t.Errorf("expected proxy for non-bypassed host")
	}
}

func TestNewProxyFunc_WildcardBypass(t *testing.T) {
	fn := NewProxyFunc("http://proxy.internal:3128", "", "*")
	if got := proxyFor(t, fn, "http://anything.example.org"); got != nil {
		t.Errorf("expected wildcard to bypass proxy, got %v", got)
	}
}

func TestBypassesProxy(t *testing.T) {
	entries := parseNoProxy("Localhost, .Example.EDU,, 10.0.0.5 ")

	cases := []struct {
		host string
		want bool
	}{
		{"localhost", true},
		{"example.edu", true},
		{"www.example.edu", true},
		{"notexample.edu", false},
		{"10.0.0.5", true},
		{"10.0.0.50", false},
	}
	for _, tc := range cases {
		if got := bypassesProxy(tc.host, entries); got != tc.want {
			t.Errorf("bypassesProxy(%q) = %v, want %v", tc.host, got, tc.want)
		}
	}
}
