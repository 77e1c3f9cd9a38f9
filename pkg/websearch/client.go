// Package websearch provides a client for the DuckDuckGo HTML search
// endpoint, used to locate leadership pages and public profiles when an
// organization's own website yields nothing.
package websearch

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/sells-group/contact-cli/internal/resilience"
)

// Client defines the search operations.
type Client interface {
	// Search runs a query and returns parsed results in rank order.
	Search(ctx context.Context, query string, opts ...SearchOption) ([]Result, error)
}

// Result is a single organic search result.
type Result struct {
	Title   string
	URL     string
	Snippet string
}

// SearchOption configures a search request.
type SearchOption func(*searchOpts)

type searchOpts struct {
	siteFilter string
	maxResults int
}

// WithSiteFilter restricts results to a specific domain.
func WithSiteFilter(domain string) SearchOption {
	return func(o *searchOpts) {
		o.siteFilter = domain
	}
}

// WithMaxResults caps how many results are returned.
func WithMaxResults(n int) SearchOption {
	return func(o *searchOpts) {
		o.maxResults = n
	}
}

// Option configures the client.
type Option func(*htmlClient)

// WithBaseURL sets a custom endpoint (for testing).
func WithBaseURL(u string) Option {
	return func(c *htmlClient) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *htmlClient) {
		c.http = hc
	}
}

// WithUserAgent overrides the request user agent.
func WithUserAgent(ua string) Option {
	return func(c *htmlClient) {
		c.userAgent = ua
	}
}

type htmlClient struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// NewClient creates a search client against the public HTML endpoint.
func NewClient(opts ...Option) Client {
	c := &htmlClient{
		baseURL:   "https://html.duckduckgo.com/html",
		userAgent: "contact-cli/1.0",
		http: &http.Client{
			Timeout: 20 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *htmlClient) Search(ctx context.Context, query string, opts ...SearchOption) ([]Result, error) {
	so := &searchOpts{maxResults: 10}
	for _, opt := range opts {
		opt(so)
	}
	if so.siteFilter != "" {
		query = query + " site:" + so.siteFilter
	}

	reqURL := c.baseURL + "/?q=" + url.QueryEscape(query)

	body, err := resilience.DoVal(ctx, resilience.DefaultPolicy(), func(ctx context.Context) ([]byte, error) {
		return c.fetch(ctx, reqURL)
	})
	if err != nil {
		return nil, eris.Wrapf(err, "websearch: query %q", query)
	}

	results, err := parseResults(body)
	if err != nil {
		return nil, err
	}
	if len(results) > so.maxResults {
		results = results[:so.maxResults]
	}
	return results, nil
}

func (c *htmlClient) fetch(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "websearch: create request")
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, eris.Wrap(err, "websearch: read response")
	}
	if resilience.RetryableStatus(resp.StatusCode) {
		return nil, resilience.MarkTransient(eris.Errorf("websearch: status %d", resp.StatusCode), resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("websearch: unexpected status %d", resp.StatusCode)
	}
	return buf.Bytes(), nil
}

// parseResults extracts organic results from the HTML endpoint markup.
func parseResults(body []byte) ([]Result, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "websearch: parse html")
	}

	var results []Result
	doc.Find(".result").Each(func(_ int, sel *goquery.Selection) {
		link := sel.Find("a.result__a").First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		resolved := resolveRedirect(href)
		if resolved == "" {
			return
		}
		results = append(results, Result{
			Title:   strings.TrimSpace(link.Text()),
			URL:     resolved,
			Snippet: strings.TrimSpace(sel.Find(".result__snippet").Text()),
		})
	})
	return results, nil
}

// resolveRedirect unwraps the endpoint's /l/?uddg= redirect links into the
// target URL; plain links pass through.
func resolveRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme == "http" || u.Scheme == "https" {
		return href
	}
	return ""
}
