package source

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/contact-cli/internal/model"
	"github.com/sells-group/contact-cli/pkg/websearch"
)

// NetworkAdapter finds public professional-network profiles via web search,
// one query per target role. Only the public result headline is used;
// profiles themselves are never fetched.
type NetworkAdapter struct {
	search websearch.Client
}

// NewNetworkAdapter creates a network-profile adapter.
func NewNetworkAdapter(search websearch.Client) *NetworkAdapter {
	return &NetworkAdapter{search: search}
}

func (a *NetworkAdapter) Name() model.Source { return model.SourceLinkedIn }

func (a *NetworkAdapter) Fetch(ctx context.Context, org model.Organization, roles []string) ([]model.RawContact, error) {
	var contacts []model.RawContact
	for _, role := range roles {
		query := org.Name + " " + role
		results, err := a.search.Search(ctx, query,
			websearch.WithSiteFilter("linkedin.com/in"),
			websearch.WithMaxResults(5),
		)
		if err != nil {
			// One role's query failing should not blank the others.
			zap.L().Warn("network: search failed",
				zap.Int64("ein", org.EIN),
				zap.String("role", role),
				zap.Error(err),
			)
			continue
		}
		for _, r := range results {
			name, title := parseHeadline(r.Title)
			if name == "" || title == "" {
				continue
			}
			contacts = append(contacts, model.RawContact{
				Name:   name,
				Title:  title,
				Source: model.SourceLinkedIn,
			})
		}
	}
	return contacts, nil
}

// parseHeadline splits a profile result title of the shape
// "Jane Smith - General Counsel - Alpha Trust | LinkedIn" into name and
// title. Results without that shape are dropped.
func parseHeadline(headline string) (name, title string) {
	headline = strings.TrimSpace(headline)
	if cut, _, found := strings.Cut(headline, "|"); found {
		headline = strings.TrimSpace(cut)
	}
	parts := strings.Split(headline, " - ")
	if len(parts) < 2 {
		parts = strings.Split(headline, " – ")
	}
	if len(parts) < 2 {
		return "", ""
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
}
