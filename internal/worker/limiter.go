package worker

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter spaces outbound document fetches per host so evidence pulls stay
// polite to accreditor sites. Hosts share one default rate and gain their own
// token bucket lazily on first use; SetHostRate installs a per-host override.
type Limiter struct {
	mu      sync.Mutex
	perHost map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
}

// NewLimiter creates a limiter with a default per-host rate. A non-positive
// requestsPerSecond disables limiting entirely; a non-positive burst falls
// back to 1.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	r := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		r = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		perHost: make(map[string]*rate.Limiter),
		limit:   r,
		burst:   burst,
	}
}

// Wait blocks until the host of rawURL has a token, or ctx is done
func (l *Limiter) Wait(ctx context.Context, rawURL string) error {
	host, err := hostKey(rawURL)
	if err != nil {
		return err
	}
	return l.limiterFor(host).Wait(ctx)
}

// WaitWithDelay waits for a token and then sleeps the extra delay, honoring
// ctx throughout. Callers pass a robots.txt crawl-delay here; it applies on
// top of the configured rate, never instead of it.
func (l *Limiter) WaitWithDelay(ctx context.Context, rawURL string, delay time.Duration) error {
	if err := l.Wait(ctx, rawURL); err != nil {
		return err
	}
	if delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

// Allow reports whether a fetch could proceed right now without waiting.
// Malformed URLs are never allowed.
func (l *Limiter) Allow(rawURL string) bool {
	host, err := hostKey(rawURL)
	if err != nil {
		return false
	}
	return l.limiterFor(host).Allow()
}

// SetHostRate replaces one host's bucket with a custom rate. Non-positive
// burst falls back to the limiter default.
func (l *Limiter) SetHostRate(host string, requestsPerSecond float64, burst int) {
	if burst <= 0 {
		burst = l.burst
	}
	l.mu.Lock()
	l.perHost[strings.ToLower(host)] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	l.mu.Unlock()
}

func (l *Limiter) limiterFor(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if lim, ok := l.perHost[host]; ok {
		return lim
	}
	lim := rate.NewLimiter(l.limit, l.burst)
	l.perHost[host] = lim
	return lim
}

// hostKey canonicalizes a URL to its lower-cased hostname, dropping any port.
// Ports share their host's budget.
func hostKey(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("no host in URL %q", rawURL)
	}
	return strings.ToLower(host), nil
}
