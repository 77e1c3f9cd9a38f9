package source

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/contact-cli/internal/model"
	"github.com/sells-group/contact-cli/pkg/trustees"
)

// DatabaseAdapter surfaces officers recorded in the internal trustee
// database. Matching quality degrades through the client's tier cascade but
// every returned row is a real filed officer, so the source weight stays
// flat.
type DatabaseAdapter struct {
	q trustees.Querier
}

// NewDatabaseAdapter creates a database adapter over a trustee querier.
func NewDatabaseAdapter(q trustees.Querier) *DatabaseAdapter {
	return &DatabaseAdapter{q: q}
}

func (a *DatabaseAdapter) Name() model.Source { return model.SourceDatabase }

func (a *DatabaseAdapter) Fetch(ctx context.Context, org model.Organization, _ []string) ([]model.RawContact, error) {
	matches, err := a.q.FindOfficers(ctx, org.Name, org.State, org.City)
	if err != nil {
		return nil, eris.Wrapf(err, "database: lookup %s", org.Name)
	}

	contacts := make([]model.RawContact, 0, len(matches))
	for _, m := range matches {
		filedAt := m.FiledAt
		contact := model.RawContact{
			Name:   m.PersonName,
			Title:  m.Title,
			Source: model.SourceDatabase,
			Email:  m.Email,
			Phone:  m.Phone,
		}
		if !filedAt.IsZero() {
			contact.UpdatedAt = &filedAt
		}
		contacts = append(contacts, contact)
	}
	return contacts, nil
}
