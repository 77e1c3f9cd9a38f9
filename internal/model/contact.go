package model

import "time"

// Source identifies which collaborator produced a contact sighting.
type Source string

const (
	SourceWebsite  Source = "website"
	SourceFiling   Source = "filing"
	SourceDatabase Source = "database"
	SourceLinkedIn Source = "linkedin"
	SourceOther    Source = "other"
)

// RawContact is a single sighting of a person from one source. It is
// produced per source query and consumed immediately by scoring and merge;
// it is never persisted on its own.
type RawContact struct {
	Name      string     `json:"name"`
	Title     string     `json:"title"`
	Source    Source     `json:"source"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// RoleMatch binds a RawContact to one target role with a normalized
// composite score. RawScore is the unclamped sub-score sum and exists only
// for tie-breaking; it is carried as an explicit field rather than hidden
// state so callers can see why a candidate won.
type RoleMatch struct {
	Name      string     `json:"name"`
	Title     string     `json:"title"`
	Role      string     `json:"role"`
	Source    Source     `json:"source"`
	Score     float64    `json:"score"`
	RawScore  float64    `json:"raw_score"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// ContactRecord is the durable, mergeable unit of discovered contact data.
// Records for the same (normalized name, normalized title) pair are merged
// across sources; Sources keeps the insertion-ordered set of provenance tags.
type ContactRecord struct {
	OrgEIN     int64    `json:"org_ein"`
	OrgName    string   `json:"org_name"`
	Name       string   `json:"name"`
	Title      string   `json:"title"`
	Sources    []Source `json:"sources"`
	Confidence float64  `json:"confidence"`
	Email      string   `json:"email,omitempty"`
	Phone      string   `json:"phone,omitempty"`
}

// HasSource reports whether the record already carries the given tag.
func (r *ContactRecord) HasSource(s Source) bool {
	for _, existing := range r.Sources {
		if existing == s {
			return true
		}
	}
	return false
}

// Checkpoint is the persisted processing state: EINs already completed and
// the accumulated result set. Completed is stored sorted ascending so
// checkpoint files diff cleanly between runs.
type Checkpoint struct {
	Completed []int64         `json:"completed"`
	Results   []ContactRecord `json:"results"`
}
