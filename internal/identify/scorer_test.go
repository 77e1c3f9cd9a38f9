package identify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/contact-cli/internal/model"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestScore_NoTitleMatchShortCircuits(t *testing.T) {
	s := NewScorer(NewMatcher())
	_, ok := s.Score(model.RawContact{
		Name:   "Pat Jones",
		Title:  "Head Chef",
		Source: model.SourceWebsite,
		Email:  "pat@example.org",
	}, "CFO")
	assert.False(t, ok)
}

func TestScore_FullStack(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	updated := now.AddDate(0, 0, -100)
	s := NewScorer(NewMatcher()).WithClock(fixedClock(now))

	score, ok := s.Score(model.RawContact{
		Name:      "Jane Smith",
		Title:     "Chief Financial Officer",
		Source:    model.SourceWebsite,
		Email:     "jane@example.org",
		UpdatedAt: &updated,
	}, "CFO")
	require.True(t, ok)

	// 1.0 title + 1.0 website + 0.6 completeness + 0.2 recency = 2.8 raw.
	assert.InDelta(t, 2.8, score.Raw, 1e-9)
	// Composite clamps at 1.0.
	assert.Equal(t, 1.0, score.Composite)
}

func TestScore_CompositeIsHalfRawBelowClamp(t *testing.T) {
	s := NewScorer(NewMatcher())
	score, ok := s.Score(model.RawContact{
		Name:   "Sam Lee",
		Title:  "Finance Director",
		Source: model.SourceOther,
	}, "CFO")
	require.True(t, ok)
	// 1.0 title + 0.5 other + 0.4 completeness (name, title) = 1.9.
	assert.InDelta(t, 1.9, score.Raw, 1e-9)
	assert.InDelta(t, 0.95, score.Composite, 1e-9)
}

func TestScore_SourceWeightOrdering(t *testing.T) {
	s := NewScorer(NewMatcher())
	base := model.RawContact{Name: "A", Title: "Treasurer"}

	rawFor := func(src model.Source) float64 {
		c := base
		c.Source = src
		score, ok := s.Score(c, "CFO")
		require.True(t, ok)
		return score.Raw
	}

	website := rawFor(model.SourceWebsite)
	filing := rawFor(model.SourceFiling)
	database := rawFor(model.SourceDatabase)
	linkedin := rawFor(model.SourceLinkedIn)
	other := rawFor(model.SourceOther)

	assert.GreaterOrEqual(t, website, filing)
	assert.GreaterOrEqual(t, filing, database)
	assert.GreaterOrEqual(t, database, linkedin)
	assert.GreaterOrEqual(t, linkedin, other)
}

func TestScore_UnknownSourceFallsBackToOther(t *testing.T) {
	s := NewScorer(NewMatcher())
	known, ok := s.Score(model.RawContact{Name: "A", Title: "Treasurer", Source: model.SourceOther}, "CFO")
	require.True(t, ok)
	unknown, ok := s.Score(model.RawContact{Name: "A", Title: "Treasurer", Source: model.Source("carrier-pigeon")}, "CFO")
	require.True(t, ok)
	assert.Equal(t, known.Raw, unknown.Raw)
}

func TestScore_RecencyWindows(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	s := NewScorer(NewMatcher()).WithClock(fixedClock(now))

	rawFor := func(updated *time.Time) float64 {
		score, ok := s.Score(model.RawContact{
			Name: "A", Title: "Treasurer", Source: model.SourceOther, UpdatedAt: updated,
		}, "CFO")
		require.True(t, ok)
		return score.Raw
	}

	baseline := rawFor(nil)
	fresh := now.AddDate(0, 0, -200)
	stale := now.AddDate(0, 0, -500)
	ancient := now.AddDate(0, 0, -1000)

	assert.InDelta(t, baseline+0.2, rawFor(&fresh), 1e-9)
	assert.InDelta(t, baseline+0.1, rawFor(&stale), 1e-9)
	assert.InDelta(t, baseline, rawFor(&ancient), 1e-9)
}
