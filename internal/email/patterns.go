// Package email predicts and verifies executive email addresses from
// observed naming patterns. Candidate generation is pure; network probing
// sits behind the Prober and Resolver interfaces.
package email

import (
	"net/url"
	"regexp"
	"strings"
)

var addressRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// patternWeights order candidate generation; the weight seeds the
// candidate's confidence before verification bumps.
var patternWeights = []struct {
	name   string
	weight float64
}{
	{"first.last", 0.4},
	{"flast", 0.3},
	{"f.last", 0.2},
	{"firstname", 0.1},
	{"first_last", 0.1},
}

// Candidate is a generated address with its pattern confidence.
type Candidate struct {
	Address    string
	Pattern    string
	Confidence float64
}

// SplitName lowercases a full name into its first and last tokens. A
// single-token name has no last part.
func SplitName(name string) (first, last string) {
	parts := strings.Fields(strings.ToLower(strings.TrimSpace(name)))
	if len(parts) == 0 {
		return "", ""
	}
	first = parts[0]
	if len(parts) > 1 {
		last = parts[len(parts)-1]
	}
	return first, last
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// DiscoverDomain picks the most trustworthy domain available: an observed
// email's domain, then the website host, then the normalized organization
// name with .com. Returns "" when nothing works.
func DiscoverDomain(observedEmail, website, orgName string) string {
	if observedEmail != "" {
		if _, domain, found := strings.Cut(observedEmail, "@"); found {
			return strings.ToLower(domain)
		}
	}
	if website != "" {
		if host := hostOf(website); host != "" {
			return host
		}
	}
	if base := nonAlnum.ReplaceAllString(strings.ToLower(orgName), ""); base != "" {
		return base + ".com"
	}
	return ""
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := u.Host
	if host == "" {
		host = u.Path
	}
	if slash := strings.IndexByte(host, '/'); slash >= 0 {
		host = host[:slash]
	}
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	return host
}

// Candidates generates the pattern addresses for a person at a domain.
// Single-token names collapse several patterns to the same address; the
// highest-weight occurrence wins and duplicates are dropped.
func Candidates(name, domain string) []Candidate {
	first, last := SplitName(name)
	if first == "" || domain == "" {
		return nil
	}
	fi := first[:1]

	local := func(pattern string) string {
		if last == "" {
			switch pattern {
			case "flast", "f.last":
				return fi
			default:
				return first
			}
		}
		switch pattern {
		case "first.last":
			return first + "." + last
		case "flast":
			return fi + last
		case "f.last":
			return fi + "." + last
		case "firstname":
			return first
		case "first_last":
			return first + "_" + last
		}
		return ""
	}

	seen := make(map[string]bool, len(patternWeights))
	var out []Candidate
	for _, p := range patternWeights {
		addr := local(p.name) + "@" + domain
		if seen[addr] {
			continue
		}
		seen[addr] = true
		out = append(out, Candidate{Address: addr, Pattern: p.name, Confidence: p.weight})
	}
	return out
}

// BestMatch returns the highest confidence candidate, preserving generation
// order on ties.
func BestMatch(candidates []Candidate) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Confidence > best.Confidence {
			best = c
		}
	}
	return best, true
}

// ValidAddress reports whether an address has a plausible mailbox shape.
func ValidAddress(address string) bool {
	return addressRe.MatchString(address)
}
