package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitName(t *testing.T) {
	tests := []struct {
		in, first, last string
	}{
		{"Jane Smith", "jane", "smith"},
		{"Jane Q. Smith", "jane", "smith"},
		{"Prince", "prince", ""},
		{"  ", "", ""},
	}
	for _, tt := range tests {
		first, last := SplitName(tt.in)
		assert.Equal(t, tt.first, first, "input %q", tt.in)
		assert.Equal(t, tt.last, last, "input %q", tt.in)
	}
}

func TestDiscoverDomain(t *testing.T) {
	// Observed email wins over everything.
	assert.Equal(t, "alpha.example.org",
		DiscoverDomain("info@Alpha.Example.Org", "https://other.example.com", "Alpha"))

	// Website host next, www stripped.
	assert.Equal(t, "alpha.example.org",
		DiscoverDomain("", "https://www.alpha.example.org/about", "Alpha"))
	assert.Equal(t, "alpha.example.org",
		DiscoverDomain("", "alpha.example.org/contact", "Alpha"))

	// Normalized name fallback.
	assert.Equal(t, "alphapensiontrust.com",
		DiscoverDomain("", "", "Alpha Pension Trust"))

	assert.Equal(t, "", DiscoverDomain("", "", "!!!"))
}

func TestCandidates(t *testing.T) {
	cands := Candidates("Jane Smith", "alpha.example.org")
	require.Len(t, cands, 5)

	byPattern := make(map[string]Candidate, len(cands))
	for _, c := range cands {
		byPattern[c.Pattern] = c
	}
	assert.Equal(t, "jane.smith@alpha.example.org", byPattern["first.last"].Address)
	assert.Equal(t, 0.4, byPattern["first.last"].Confidence)
	assert.Equal(t, "jsmith@alpha.example.org", byPattern["flast"].Address)
	assert.Equal(t, 0.3, byPattern["flast"].Confidence)
	assert.Equal(t, "j.smith@alpha.example.org", byPattern["f.last"].Address)
	assert.Equal(t, "jane@alpha.example.org", byPattern["firstname"].Address)
	assert.Equal(t, "jane_smith@alpha.example.org", byPattern["first_last"].Address)
}

func TestCandidates_SingleTokenName(t *testing.T) {
	cands := Candidates("Prince", "alpha.example.org")

	// first.last, firstname, first_last collapse to prince@, and
	// flast/f.last collapse to p@; duplicates drop.
	require.Len(t, cands, 2)
	assert.Equal(t, "prince@alpha.example.org", cands[0].Address)
	assert.Equal(t, 0.4, cands[0].Confidence)
	assert.Equal(t, "p@alpha.example.org", cands[1].Address)
}

func TestCandidates_Empty(t *testing.T) {
	assert.Nil(t, Candidates("", "alpha.example.org"))
	assert.Nil(t, Candidates("Jane Smith", ""))
}

func TestBestMatch(t *testing.T) {
	cands := []Candidate{
		{Address: "a@x.com", Confidence: 0.3},
		{Address: "b@x.com", Confidence: 0.7},
		{Address: "c@x.com", Confidence: 0.7},
	}
	best, ok := BestMatch(cands)
	require.True(t, ok)
	assert.Equal(t, "b@x.com", best.Address)

	_, ok = BestMatch(nil)
	assert.False(t, ok)
}

func TestValidAddress(t *testing.T) {
	assert.True(t, ValidAddress("jane.smith@alpha.example.org"))
	assert.False(t, ValidAddress("janesmith"))
	assert.False(t, ValidAddress("jane@nodot"))
	assert.False(t, ValidAddress("jane smith@alpha.example.org"))
}
