package util

import (
	"net/http"
	"net/url"
	"strings"
)

// NewProxyFunc builds the http.Transport proxy callback from explicit proxy
// URLs. With neither URL set the standard environment variables apply.
// noProxy is a comma-separated list of hosts and domain suffixes that always
// connect directly, mirroring NO_PROXY.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	bypass := parseNoProxy(noProxy)

	return func(req *http.Request) (*url.URL, error) {
		if bypassesProxy(req.URL.Hostname(), bypass) {
			return nil, nil
		}
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

// parseNoProxy splits a comma-separated bypass list into cleaned entries.
// Leading dots are dropped so ".edu" and "edu" mean the same suffix.
func parseNoProxy(noProxy string) []string {
	var entries []string
	for _, part := range strings.Split(noProxy, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}
		entries = append(entries, strings.TrimPrefix(part, "."))
	}
	return entries
}

// bypassesProxy reports whether host matches an entry exactly or as a domain
// suffix. "*" bypasses everything.
func bypassesProxy(host string, entries []string) bool {
	host = strings.ToLower(host)
	for _, entry := range entries {
		if entry == "*" || host == entry || strings.HasSuffix(host, "."+entry) {
			return true
		}
	}
	return false
}
