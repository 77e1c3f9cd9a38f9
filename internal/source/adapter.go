// Package source adapts external collaborators (websites, public filings,
// internal databases, professional networks) into a single raw contact
// shape the discovery engine consumes.
package source

import (
	"context"

	"github.com/sells-group/contact-cli/internal/model"
)

// Adapter fetches raw contact sightings for one organization from one
// source. Implementations own all collaborator-specific behavior: the engine
// depends only on this interface, never on a concrete source type.
//
// Fetch errors are recovered by the coordinator: a failing adapter yields
// zero contacts for that organization and processing continues.
type Adapter interface {
	Name() model.Source
	Fetch(ctx context.Context, org model.Organization, roles []string) ([]model.RawContact, error)
}
