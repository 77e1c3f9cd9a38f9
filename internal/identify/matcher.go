package identify

import "strings"

// Title match tiers. TitleScore never returns a value outside this set.
const (
	tierExact     = 1.0
	tierSubstring = 0.8
	tierFuzzy     = 0.6
	tierNone      = 0.0
)

// fuzzyThreshold is the minimum Ratio for the fuzzy tier to fire.
const fuzzyThreshold = 0.85

// defaultRolePatterns is the built-in role taxonomy: target role to the
// canonical phrases that identify it. Phrases are normalized at Matcher
// construction so lookups compare like with like.
var defaultRolePatterns = map[string][]string{
	"General Counsel":        {"general counsel", "chief legal officer", "legal counsel"},
	"Deputy General Counsel": {"deputy general counsel", "associate counsel", "assistant general counsel"},
	"CFO":                    {"chief financial officer", "finance director", "treasurer"},
	"Revenue Officer":        {"revenue director", "collections manager"},
}

// defaultRoleOrder fixes iteration order for deterministic classification.
var defaultRoleOrder = []string{
	"General Counsel",
	"Deputy General Counsel",
	"CFO",
	"Revenue Officer",
}

// Matcher scores free-text titles against the role taxonomy.
type Matcher struct {
	patterns map[string][]string
	order    []string
}

// NewMatcher builds a Matcher over the default role taxonomy.
func NewMatcher() *Matcher {
	return NewMatcherWithRoles(defaultRolePatterns, defaultRoleOrder)
}

// NewMatcherWithRoles builds a Matcher over a custom taxonomy. The order
// slice fixes role iteration order; roles absent from it are ignored.
func NewMatcherWithRoles(patterns map[string][]string, order []string) *Matcher {
	normalized := make(map[string][]string, len(patterns))
	kept := make([]string, 0, len(order))
	for _, role := range order {
		phrases, ok := patterns[role]
		if !ok {
			continue
		}
		norm := make([]string, len(phrases))
		for i, p := range phrases {
			norm[i] = NormalizeTitle(p)
		}
		normalized[role] = norm
		kept = append(kept, role)
	}
	return &Matcher{patterns: normalized, order: kept}
}

// Roles returns the known role keys in fixed order.
func (m *Matcher) Roles() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// HasRole reports whether role is part of the taxonomy.
func (m *Matcher) HasRole(role string) bool {
	_, ok := m.patterns[role]
	return ok
}

// TitleScore scores how well a title matches a role. Tiers are evaluated in
// order and the first match wins: exact equality with a canonical phrase
// (1.0), substring containment either way (0.8), character similarity above
// the fuzzy threshold (0.6), otherwise 0.0 meaning the role is not a
// candidate for this contact at all.
func (m *Matcher) TitleScore(title, role string) float64 {
	normalized := NormalizeTitle(title)
	if normalized == "" {
		return tierNone
	}
	phrases := m.patterns[role]

	for _, p := range phrases {
		if normalized == p {
			return tierExact
		}
	}
	for _, p := range phrases {
		if strings.Contains(p, normalized) || strings.Contains(normalized, p) {
			return tierSubstring
		}
	}
	for _, p := range phrases {
		if Ratio(normalized, p) > fuzzyThreshold {
			return tierFuzzy
		}
	}
	return tierNone
}
