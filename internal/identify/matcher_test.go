package identify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTitleScore_ExactMatchEveryCanonicalPhrase(t *testing.T) {
	m := NewMatcher()
	for role, phrases := range defaultRolePatterns {
		for _, phrase := range phrases {
			assert.Equal(t, 1.0, m.TitleScore(phrase, role),
				"phrase %q should exact-match role %q", phrase, role)
		}
	}
}

func TestTitleScore_ExactAfterNormalization(t *testing.T) {
	m := NewMatcher()
	assert.Equal(t, 1.0, m.TitleScore("General  Counsel!", "General Counsel"))
	assert.Equal(t, 1.0, m.TitleScore("CFO", "CFO")) // abbreviation expands first
}

func TestTitleScore_Substring(t *testing.T) {
	m := NewMatcher()
	// Canonical phrase contained in the title.
	assert.Equal(t, 0.8, m.TitleScore("Senior General Counsel", "General Counsel"))
	// Title contained in a canonical phrase.
	assert.Equal(t, 0.8, m.TitleScore("counsel", "General Counsel"))
}

func TestTitleScore_Fuzzy(t *testing.T) {
	m := NewMatcher()
	// One-character typo of a canonical phrase; not a substring either way.
	score := m.TitleScore("chief finanxial officer", "CFO")
	assert.Equal(t, 0.6, score)
}

func TestTitleScore_NoMatch(t *testing.T) {
	m := NewMatcher()
	assert.Equal(t, 0.0, m.TitleScore("Head Chef", "CFO"))
	assert.Equal(t, 0.0, m.TitleScore("", "CFO"))
}

func TestTitleScore_OnlyTierValues(t *testing.T) {
	m := NewMatcher()
	titles := []string{
		"General Counsel", "Deputy General Counsel", "Chief Legal Officer",
		"chief finanxial officer", "Senior Counsel", "Treasurer", "janitor",
		"Finance Director", "collections manager", "VP Revenue", "counsel",
	}
	valid := map[float64]bool{0.0: true, 0.6: true, 0.8: true, 1.0: true}
	for _, title := range titles {
		for _, role := range m.Roles() {
			score := m.TitleScore(title, role)
			assert.True(t, valid[score],
				"TitleScore(%q, %q) = %v, not a tier value", title, role, score)
		}
	}
}

func TestTitleScore_TierOrderFirstWins(t *testing.T) {
	m := NewMatcher()
	// "legal counsel" is both an exact canonical phrase and a substring of
	// others; exact tier must win.
	assert.Equal(t, 1.0, m.TitleScore("Legal Counsel", "General Counsel"))
}

func TestNewMatcherWithRoles_CustomTaxonomy(t *testing.T) {
	m := NewMatcherWithRoles(map[string][]string{
		"CTO": {"chief technology officer"},
	}, []string{"CTO"})
	require.Equal(t, []string{"CTO"}, m.Roles())
	assert.True(t, m.HasRole("CTO"))
	assert.False(t, m.HasRole("CFO"))
	assert.Equal(t, 1.0, m.TitleScore("Chief Technology Officer", "CTO"))
}
