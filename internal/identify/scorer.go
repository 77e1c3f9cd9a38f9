package identify

import (
	"time"

	"github.com/sells-group/contact-cli/internal/model"
)

// Source trust weights. These are policy, not invariants: the ordering
// website >= filing >= database >= linkedin >= other is what matters.
var defaultSourceWeights = map[model.Source]float64{
	model.SourceWebsite:  1.0,
	model.SourceFiling:   0.9,
	model.SourceDatabase: 0.8,
	model.SourceLinkedIn: 0.7,
	model.SourceOther:    0.5,
}

// Completeness and recency sub-score constants.
const (
	completenessPerField = 0.2

	recencyFresh    = 0.2 // updated within the last year
	recencyStale    = 0.1 // updated within the last two years
	freshWindowDays = 365
	staleWindowDays = 730
)

// compositeDivisor normalizes the raw sub-score sum so that a perfect title
// match from a top-tier source with full completeness and recency lands at
// or above 1.0 before clamping.
const compositeDivisor = 2.0

// Score carries both the clamped composite confidence used for ranking and
// the unclamped raw sum used for tie-breaking.
type Score struct {
	Composite float64
	Raw       float64
}

// Scorer combines title-match quality, source trust, data completeness and
// recency into a single confidence value per target role.
type Scorer struct {
	matcher *Matcher
	weights map[model.Source]float64
	now     func() time.Time
}

// NewScorer builds a Scorer over the given matcher with default source
// weights and wall-clock recency.
func NewScorer(matcher *Matcher) *Scorer {
	return &Scorer{
		matcher: matcher,
		weights: defaultSourceWeights,
		now:     time.Now,
	}
}

// WithClock overrides the recency clock. Tests pin time with this.
func (s *Scorer) WithClock(now func() time.Time) *Scorer {
	s.now = now
	return s
}

// Score computes the raw and composite score of a contact for a role. The
// second return is false when the title does not match the role at any tier;
// such contacts are not candidates for the role and the remaining sub-scores
// are never computed.
func (s *Scorer) Score(c model.RawContact, role string) (Score, bool) {
	titleScore := s.matcher.TitleScore(c.Title, role)
	if titleScore == 0.0 {
		return Score{}, false
	}

	raw := titleScore
	raw += s.sourceScore(c.Source)
	raw += s.completenessScore(c)
	raw += s.recencyScore(c)

	return Score{
		Composite: min(raw/compositeDivisor, 1.0),
		Raw:       raw,
	}, true
}

func (s *Scorer) sourceScore(src model.Source) float64 {
	if w, ok := s.weights[src]; ok {
		return w
	}
	return s.weights[model.SourceOther]
}

func (s *Scorer) completenessScore(c model.RawContact) float64 {
	var score float64
	if c.Name != "" {
		score += completenessPerField
	}
	if c.Title != "" {
		score += completenessPerField
	}
	if c.Email != "" || c.Phone != "" {
		score += completenessPerField
	}
	return score
}

func (s *Scorer) recencyScore(c model.RawContact) float64 {
	if c.UpdatedAt == nil {
		return 0.0
	}
	ageDays := int(s.now().Sub(*c.UpdatedAt).Hours() / 24)
	switch {
	case ageDays < freshWindowDays:
		return recencyFresh
	case ageDays < staleWindowDays:
		return recencyStale
	default:
		return 0.0
	}
}
