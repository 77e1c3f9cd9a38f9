package email

import (
	"context"
	"strings"
)

// commonTLDs order the guesser's candidates.
var commonTLDs = []string{".com", ".org", ".net", ".us"}

// Resolver answers whether a domain exists. Implementations typically do a
// DNS lookup plus an optional HEAD request.
type Resolver interface {
	Exists(ctx context.Context, domain string) (bool, error)
}

// Guesser proposes domains for organizations that publish no website.
type Guesser struct {
	resolver Resolver
	tlds     []string
}

// NewGuesser creates a Guesser. With no explicit TLDs the common set is
// tried in order.
func NewGuesser(resolver Resolver, tlds ...string) *Guesser {
	if len(tlds) == 0 {
		tlds = commonTLDs
	}
	return &Guesser{resolver: resolver, tlds: tlds}
}

// DomainCandidates returns the normalized-name domain candidates in
// preference order.
func (g *Guesser) DomainCandidates(orgName string) []string {
	base := nonAlnum.ReplaceAllString(strings.ToLower(orgName), "")
	if base == "" {
		return nil
	}
	out := make([]string, 0, len(g.tlds))
	for _, tld := range g.tlds {
		out = append(out, base+tld)
	}
	return out
}

// Guess returns the first candidate domain that resolves, or "" when none
// do. Resolver errors skip to the next candidate.
func (g *Guesser) Guess(ctx context.Context, orgName string) (string, error) {
	for _, domain := range g.DomainCandidates(orgName) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		ok, err := g.resolver.Exists(ctx, domain)
		if err != nil {
			continue
		}
		if ok {
			return domain, nil
		}
	}
	return "", nil
}
