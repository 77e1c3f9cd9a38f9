// Package fetcher downloads and parses data from HTTP, FTP, CSV, and XLSX
// sources for the organization loader and the source adapters.
package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/contact-cli/internal/resilience"
)

// maxBodyBytes caps how much of a page we read; leadership pages and filing
// indexes are small, anything bigger is not worth parsing.
const maxBodyBytes = 2 << 20 // 2 MB

// HTTPOptions configures the HTTP fetcher.
type HTTPOptions struct {
	UserAgent      string
	Timeout        time.Duration
	MaxRetries     int
	RequestsPerSec float64
	// PerHost overrides the default limiter for specific hosts, for
	// upstreams with published rate policies.
	PerHost map[string]*rate.Limiter
}

// HTTPFetcher is a rate-limited HTTP client with retry on transient
// failures. Organization websites get the default conservative limiter;
// known bulk hosts can be tuned per host.
type HTTPFetcher struct {
	client      *http.Client
	opts        HTTPOptions
	defaultRate *rate.Limiter
	perHost     map[string]*rate.Limiter
}

// NewHTTPFetcher creates an HTTPFetcher with the given options.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "contact-cli/1.0"
	}
	if opts.RequestsPerSec == 0 {
		opts.RequestsPerSec = 2
	}
	perHost := make(map[string]*rate.Limiter, len(opts.PerHost))
	for host, lim := range opts.PerHost {
		perHost[host] = lim
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		opts:        opts,
		defaultRate: rate.NewLimiter(rate.Limit(opts.RequestsPerSec), 1),
		perHost:     perHost,
	}
}

func (f *HTTPFetcher) limiterFor(rawURL string) *rate.Limiter {
	u, err := url.Parse(rawURL)
	if err != nil {
		return f.defaultRate
	}
	if lim, ok := f.perHost[u.Host]; ok {
		return lim
	}
	return f.defaultRate
}

// Get fetches a URL and returns the body. Network errors and retryable
// statuses (429, 5xx) back off and try again; other 4xx fail immediately.
func (f *HTTPFetcher) Get(ctx context.Context, rawURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < f.opts.MaxRetries; attempt++ {
		if err := f.limiterFor(rawURL).Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "fetch: rate limiter wait")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, eris.Wrapf(err, "fetch: build request %s", rawURL)
		}
		req.Header.Set("User-Agent", f.opts.UserAgent)

		resp, err := f.client.Do(req)
		if err != nil {
			lastErr = err
			zap.L().Debug("fetch: request failed, retrying",
				zap.String("url", rawURL),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			if !sleepBackoff(ctx, attempt) {
				return nil, eris.Wrap(ctx.Err(), "fetch: cancelled")
			}
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			resp.Body.Close()
			if readErr != nil {
				return nil, eris.Wrapf(readErr, "fetch: read body %s", rawURL)
			}
			return body, nil

		case resilience.RetryableStatus(resp.StatusCode):
			resp.Body.Close()
			lastErr = eris.Errorf("fetch: %s returned %d", rawURL, resp.StatusCode)
			zap.L().Warn("fetch: transient status, retrying",
				zap.String("url", rawURL),
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", attempt+1),
			)
			if !sleepBackoff(ctx, attempt) {
				return nil, eris.Wrap(ctx.Err(), "fetch: cancelled")
			}

		default:
			resp.Body.Close()
			return nil, eris.Errorf("fetch: %s returned %d", rawURL, resp.StatusCode)
		}
	}
	return nil, eris.Wrapf(lastErr, "fetch: %s failed after %d attempts", rawURL, f.opts.MaxRetries)
}

// sleepBackoff sleeps 500ms * 2^attempt, honoring cancellation. Returns
// false when the context ended first.
func sleepBackoff(ctx context.Context, attempt int) bool {
	delay := 500 * time.Millisecond << attempt
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
