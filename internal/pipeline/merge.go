// Package pipeline merges contact sightings across sources, persists
// progress, and coordinates resumable batch runs.
package pipeline

import (
	"github.com/sells-group/contact-cli/internal/identify"
	"github.com/sells-group/contact-cli/internal/model"
)

// mergeDamping discounts a corroborating sighting relative to the first.
const mergeDamping = 0.5

// Key identifies a person+title within an accumulator. Both parts are
// normalized so formatting noise does not split records.
type Key struct {
	Name  string
	Title string
}

// KeyFor builds the merge key for a record.
func KeyFor(r model.ContactRecord) Key {
	return Key{
		Name:  identify.NormalizeName(r.Name),
		Title: identify.NormalizeTitle(r.Title),
	}
}

// Accumulator merges sightings of the same person+title into single records
// with corroborated confidence. Records keep their insertion order.
type Accumulator struct {
	records map[Key]*model.ContactRecord
	order   []Key
}

// NewAccumulator creates an empty Accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{records: make(map[Key]*model.ContactRecord)}
}

// Seed resets the accumulator to a previously persisted record set,
// preserving the stored confidences and provenance exactly.
func (a *Accumulator) Seed(records []model.ContactRecord) {
	a.records = make(map[Key]*model.ContactRecord, len(records))
	a.order = a.order[:0]
	for _, r := range records {
		copied := r
		copied.Sources = append([]model.Source(nil), r.Sources...)
		key := KeyFor(r)
		if _, exists := a.records[key]; exists {
			continue
		}
		a.records[key] = &copied
		a.order = append(a.order, key)
	}
}

// Merge integrates one sighting. A new person+title inserts as-is; a repeat
// sighting corroborates: confidence grows by the damped incoming score,
// clamped at 1.0, provenance unions, and missing email/phone backfill.
// Existing contact fields are never overwritten.
func (a *Accumulator) Merge(incoming model.ContactRecord) {
	key := KeyFor(incoming)
	existing, ok := a.records[key]
	if !ok {
		copied := incoming
		copied.Sources = append([]model.Source(nil), incoming.Sources...)
		a.records[key] = &copied
		a.order = append(a.order, key)
		return
	}

	confidence := existing.Confidence + incoming.Confidence*mergeDamping
	if confidence > 1.0 {
		confidence = 1.0
	}
	existing.Confidence = confidence

	for _, src := range incoming.Sources {
		if !existing.HasSource(src) {
			existing.Sources = append(existing.Sources, src)
		}
	}
	if existing.Email == "" {
		existing.Email = incoming.Email
	}
	if existing.Phone == "" {
		existing.Phone = incoming.Phone
	}
}

// Len reports how many distinct records have accumulated.
func (a *Accumulator) Len() int { return len(a.order) }

// Records returns the merged records in insertion order.
func (a *Accumulator) Records() []model.ContactRecord {
	out := make([]model.ContactRecord, 0, len(a.order))
	for _, key := range a.order {
		out = append(out, *a.records[key])
	}
	return out
}

// Filter returns the records whose confidence meets the threshold, in
// insertion order.
func (a *Accumulator) Filter(minConfidence float64) []model.ContactRecord {
	var out []model.ContactRecord
	for _, key := range a.order {
		if r := a.records[key]; r.Confidence >= minConfidence {
			out = append(out, *r)
		}
	}
	return out
}
