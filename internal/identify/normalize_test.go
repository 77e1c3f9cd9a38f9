package identify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTitle_Basic(t *testing.T) {
	assert.Equal(t, "chief financial officer", NormalizeTitle("Chief Financial Officer"))
	assert.Equal(t, "general counsel", NormalizeTitle("  General   Counsel  "))
	assert.Equal(t, "vp of finance", NormalizeTitle("VP, of Finance!"))
}

func TestNormalizeTitle_AbbreviationWholeString(t *testing.T) {
	assert.Equal(t, "chief financial officer", NormalizeTitle("CFO"))
	assert.Equal(t, "general counsel", NormalizeTitle("gc"))
}

func TestNormalizeTitle_AbbreviationLeadingToken(t *testing.T) {
	assert.Equal(t, "general counsel and secretary", NormalizeTitle("GC and Secretary"))
	assert.Equal(t, "chief financial officer emea", NormalizeTitle("CFO, EMEA"))
}

func TestNormalizeTitle_NoPartialWordExpansion(t *testing.T) {
	// "gcse" contains "gc" but must not expand.
	assert.Equal(t, "gcse manager", NormalizeTitle("GCSE Manager"))
	assert.Equal(t, "cfos united", NormalizeTitle("CFOs United"))
}

func TestNormalizeTitle_Empty(t *testing.T) {
	assert.Equal(t, "", NormalizeTitle(""))
	assert.Equal(t, "", NormalizeTitle("  --  "))
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "jane smith", NormalizeName("  Jane   SMITH "))
	assert.Equal(t, "", NormalizeName("   "))
}

func TestRatio_Identical(t *testing.T) {
	assert.Equal(t, 1.0, Ratio("general counsel", "general counsel"))
}

func TestRatio_Empty(t *testing.T) {
	assert.Equal(t, 1.0, Ratio("", ""))
	assert.Equal(t, 0.0, Ratio("abc", ""))
}

func TestRatio_Disjoint(t *testing.T) {
	assert.Equal(t, 0.0, Ratio("abc", "xyz"))
}

func TestRatio_Partial(t *testing.T) {
	// One substitution in an 8-char string: 2*7/(8+8) = 0.875.
	assert.InDelta(t, 0.875, Ratio("abcdefgh", "abcdefgx"), 1e-9)
}

func TestRatio_Symmetric(t *testing.T) {
	a, b := "chief legal officer", "general counsel"
	assert.InDelta(t, Ratio(a, b), Ratio(b, a), 1e-9)
}
