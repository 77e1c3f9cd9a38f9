package source

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/sells-group/contact-cli/internal/identify"
	"github.com/sells-group/contact-cli/internal/model"
	"github.com/sells-group/contact-cli/pkg/websearch"
)

// leadershipPaths are tried in order against the organization's site before
// falling back to the landing page.
var leadershipPaths = []string{
	"about",
	"about/leadership",
	"about-us",
	"leadership",
	"team",
	"management",
}

// leadershipKeywords mark a page as worth parsing.
var leadershipKeywords = []string{"leadership", "team", "executive", "management"}

// PageFetcher fetches a URL body. *fetcher.HTTPFetcher satisfies it.
type PageFetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// WebsiteAdapter scrapes organization leadership pages. When the input row
// carries no website, it falls back to a web search for the organization
// name.
type WebsiteAdapter struct {
	fetch   PageFetcher
	search  websearch.Client
	matcher *identify.Matcher
	guesser SiteGuesser
}

// SiteGuesser proposes a domain for an organization name.
type SiteGuesser interface {
	Guess(ctx context.Context, orgName string) (string, error)
}

// NewWebsiteAdapter creates a website adapter. search may be nil, which
// disables site discovery for organizations without a website column.
func NewWebsiteAdapter(fetch PageFetcher, search websearch.Client, matcher *identify.Matcher) *WebsiteAdapter {
	return &WebsiteAdapter{fetch: fetch, search: search, matcher: matcher}
}

// WithGuesser sets a domain guesser tried before web search when an
// organization has no website column.
func (a *WebsiteAdapter) WithGuesser(g SiteGuesser) *WebsiteAdapter {
	a.guesser = g
	return a
}

func (a *WebsiteAdapter) Name() model.Source { return model.SourceWebsite }

func (a *WebsiteAdapter) Fetch(ctx context.Context, org model.Organization, roles []string) ([]model.RawContact, error) {
	site := org.Website
	if site == "" && a.guesser != nil {
		guessed, err := a.guesser.Guess(ctx, org.Name)
		if err != nil {
			zap.L().Debug("website: domain guess failed",
				zap.String("org", org.Name), zap.Error(err))
		} else {
			site = guessed
		}
	}
	if site == "" {
		discovered, err := a.discoverSite(ctx, org)
		if err != nil {
			return nil, err
		}
		site = discovered
	}
	if site == "" {
		zap.L().Debug("website: no site found", zap.Int64("ein", org.EIN))
		return nil, nil
	}
	if !strings.Contains(site, "://") {
		site = "https://" + site
	}

	body := a.findLeadershipPage(ctx, site)
	if body == nil {
		return nil, nil
	}
	return a.parseContacts(body, roles)
}

// discoverSite searches for the organization and takes the first organic
// result that is not a directory or social profile.
func (a *WebsiteAdapter) discoverSite(ctx context.Context, org model.Organization) (string, error) {
	if a.search == nil {
		return "", nil
	}
	query := org.Name
	if org.State != "" {
		query += " " + org.State
	}
	results, err := a.search.Search(ctx, query, websearch.WithMaxResults(5))
	if err != nil {
		return "", eris.Wrapf(err, "website: discover site for %s", org.Name)
	}
	for _, r := range results {
		u, parseErr := url.Parse(r.URL)
		if parseErr != nil || u.Host == "" {
			continue
		}
		if isAggregatorHost(u.Host) {
			continue
		}
		return u.Scheme + "://" + u.Host, nil
	}
	return "", nil
}

var aggregatorHosts = []string{
	"linkedin.com", "facebook.com", "wikipedia.org", "yelp.com",
	"indeed.com", "glassdoor.com", "zoominfo.com", "bloomberg.com",
}

func isAggregatorHost(host string) bool {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	for _, agg := range aggregatorHosts {
		if host == agg || strings.HasSuffix(host, "."+agg) {
			return true
		}
	}
	return false
}

// findLeadershipPage tries the known paths first and settles for the landing
// page when none of them look like a leadership page.
func (a *WebsiteAdapter) findLeadershipPage(ctx context.Context, base string) []byte {
	for _, path := range leadershipPaths {
		pageURL := strings.TrimRight(base, "/") + "/" + path
		body, err := a.fetch.Get(ctx, pageURL)
		if err != nil {
			zap.L().Debug("website: path fetch failed",
				zap.String("url", pageURL), zap.Error(err))
			continue
		}
		if hasLeadershipKeywords(body) {
			return body
		}
	}
	body, err := a.fetch.Get(ctx, base)
	if err != nil {
		zap.L().Debug("website: landing page fetch failed",
			zap.String("url", base), zap.Error(err))
		return nil
	}
	return body
}

func hasLeadershipKeywords(body []byte) bool {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return false
	}
	text := strings.ToLower(doc.Text())
	for _, kw := range leadershipKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// parseContacts walks the page's text lines looking for a title matching a
// target role, taking the preceding line as the name and a following line
// containing @ as the email.
func (a *WebsiteAdapter) parseContacts(body []byte, roles []string) ([]model.RawContact, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "website: parse html")
	}

	lines := textLines(doc)
	var contacts []model.RawContact
	for i, line := range lines {
		if !a.lineMatchesRole(line, roles) {
			continue
		}
		var name string
		if i > 0 {
			name = lines[i-1]
		}
		var email string
		if i+1 < len(lines) && strings.Contains(lines[i+1], "@") {
			email = strings.TrimPrefix(lines[i+1], "mailto:")
		}
		contacts = append(contacts, model.RawContact{
			Name:   name,
			Title:  line,
			Source: model.SourceWebsite,
			Email:  email,
		})
	}
	return contacts, nil
}

func (a *WebsiteAdapter) lineMatchesRole(line string, roles []string) bool {
	if len(line) > 120 {
		return false
	}
	for _, role := range roles {
		if a.matcher.TitleScore(line, role) > 0 {
			return true
		}
	}
	return false
}

// textLines flattens the document into trimmed text-node lines in document
// order, the shape the triple extraction walks over.
func textLines(doc *goquery.Document) []string {
	var lines []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if line := strings.Join(strings.Fields(n.Data), " "); line != "" {
				lines = append(lines, line)
			}
			return
		}
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}
	return lines
}
