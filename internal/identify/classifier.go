package identify

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/contact-cli/internal/model"
)

// Classifier picks the best-scoring contact per target role from a batch of
// raw sightings.
type Classifier struct {
	matcher *Matcher
	scorer  *Scorer
}

// NewClassifier builds a Classifier with the default taxonomy and weights.
func NewClassifier() *Classifier {
	m := NewMatcher()
	return &Classifier{matcher: m, scorer: NewScorer(m)}
}

// NewClassifierWith builds a Classifier over an existing matcher and scorer.
func NewClassifierWith(matcher *Matcher, scorer *Scorer) *Classifier {
	return &Classifier{matcher: matcher, scorer: scorer}
}

// Matcher exposes the underlying role taxonomy.
func (c *Classifier) Matcher() *Matcher { return c.matcher }

// Scorer exposes the underlying contact scorer.
func (c *Classifier) Scorer() *Scorer { return c.scorer }

// Classify matches contacts to the requested roles and returns at most one
// RoleMatch per role: the candidate with the highest (raw, composite) score
// pair, ties broken by first-seen input order. Contacts whose title does not
// match a role at any tier never enter that role's candidate pool. Contacts
// missing a name are malformed and dropped silently.
//
// An unknown role key is a configuration error and fails the whole call
// before any scoring happens.
func (c *Classifier) Classify(contacts []model.RawContact, roles []string) ([]model.RoleMatch, error) {
	if err := c.ValidateRoles(roles); err != nil {
		return nil, err
	}

	results := make([]model.RoleMatch, 0, len(roles))
	for _, role := range roles {
		var best *model.RoleMatch
		for _, contact := range contacts {
			if contact.Name == "" {
				zap.L().Debug("classify: dropping malformed contact",
					zap.String("title", contact.Title),
					zap.String("source", string(contact.Source)),
				)
				continue
			}
			score, ok := c.scorer.Score(contact, role)
			if !ok {
				continue
			}
			// Strictly-greater keeps the first-seen candidate on ties.
			if best != nil && (score.Raw < best.RawScore ||
				(score.Raw == best.RawScore && score.Composite <= best.Score)) {
				continue
			}
			best = &model.RoleMatch{
				Name:      contact.Name,
				Title:     contact.Title,
				Role:      role,
				Source:    contact.Source,
				Score:     score.Composite,
				RawScore:  score.Raw,
				Email:     contact.Email,
				Phone:     contact.Phone,
				UpdatedAt: contact.UpdatedAt,
			}
		}
		if best != nil {
			results = append(results, *best)
		}
	}
	return results, nil
}

// ValidateRoles checks every requested role against the taxonomy. Called at
// pipeline start so bad role keys fail before any source adapter runs.
func (c *Classifier) ValidateRoles(roles []string) error {
	if len(roles) == 0 {
		return eris.New("classify: no target roles given")
	}
	for _, role := range roles {
		if !c.matcher.HasRole(role) {
			return eris.Errorf("classify: unknown role %q", role)
		}
	}
	return nil
}
