// Package orgs loads organization lists from CSV or XLSX input files and
// feeds them to the discovery pipeline as an in-memory queue.
package orgs

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/contact-cli/internal/fetcher"
	"github.com/sells-group/contact-cli/internal/model"
)

// Queue hands out unprocessed organizations in input order. It satisfies
// the pipeline's OrgQueue and is not safe for concurrent use; the
// coordinator is the single consumer.
type Queue struct {
	orgs []model.Organization
	next int
}

// NewQueue wraps an already-loaded organization slice.
func NewQueue(orgs []model.Organization) *Queue {
	return &Queue{orgs: orgs}
}

// Len reports the total number of organizations loaded.
func (q *Queue) Len() int { return len(q.orgs) }

// All returns the loaded organizations in input order.
func (q *Queue) All() []model.Organization { return q.orgs }

// NextBatch returns up to size unprocessed organizations, empty when the
// queue is exhausted.
func (q *Queue) NextBatch(size int) []model.Organization {
	var batch []model.Organization
	for q.next < len(q.orgs) && len(batch) < size {
		org := q.orgs[q.next]
		q.next++
		if org.Processed {
			continue
		}
		batch = append(batch, org)
	}
	return batch
}

// MarkProcessed flips the processed flag for an organization.
func (q *Queue) MarkProcessed(ein int64) {
	for i := range q.orgs {
		if q.orgs[i].EIN == ein {
			q.orgs[i].Processed = true
			return
		}
	}
}

// Load reads an organization file, dispatching on extension. CSV and XLSX
// are supported.
func Load(path string) (*Queue, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(path)
	case ".xlsx":
		return LoadXLSX(path)
	default:
		return nil, eris.Errorf("orgs: unsupported input format %q", filepath.Ext(path))
	}
}

// LoadCSV reads organizations from a headered CSV file.
func LoadCSV(path string) (*Queue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "orgs: open %s", path)
	}
	defer f.Close()
	return loadCSVReader(f)
}

func loadCSVReader(r io.Reader) (*Queue, error) {
	_, rows, err := fetcher.ReadCSV(r, fetcher.CSVOptions{TrimSpace: true})
	if err != nil {
		return nil, eris.Wrap(err, "orgs: read csv")
	}
	return fromRows(rows)
}

// LoadXLSX reads organizations from the first sheet of an XLSX workbook.
func LoadXLSX(path string) (*Queue, error) {
	_, rows, err := fetcher.ReadXLSXRows(path)
	if err != nil {
		return nil, eris.Wrap(err, "orgs: read xlsx")
	}
	return fromRows(rows)
}

// fromRows maps header-keyed rows onto organizations. Rows without a
// parseable EIN are skipped with a warning rather than failing the load.
func fromRows(rows []map[string]string) (*Queue, error) {
	orgs := make([]model.Organization, 0, len(rows))
	seen := make(map[int64]bool, len(rows))
	for i, row := range rows {
		ein, err := parseEIN(row["ein"])
		if err != nil {
			zap.L().Warn("orgs: skipping row with invalid ein",
				zap.Int("row", i+2),
				zap.String("ein", row["ein"]),
			)
			continue
		}
		if seen[ein] {
			zap.L().Warn("orgs: skipping duplicate ein", zap.Int64("ein", ein))
			continue
		}
		seen[ein] = true

		org := model.Organization{
			EIN:               ein,
			Name:              firstOf(row, "organization_name", "org_name", "name", "sponsor_dfe_name"),
			DBAName:           row["dba_name"],
			EntityType:        row["entity_type"],
			TotalParticipants: row["total_participants"],
			Address1:          row["mail_us_address1"],
			Address2:          row["mail_us_address2"],
			City:              row["mail_us_city"],
			State:             row["mail_us_state"],
			Zip:               row["mail_us_zip"],
			Phone:             row["phone_num"],
			Website:           row["website"],
		}
		if raw := row["plan_count"]; raw != "" {
			if n, convErr := strconv.Atoi(raw); convErr == nil {
				org.PlanCount = n
			}
		}
		if org.Name == "" {
			zap.L().Warn("orgs: skipping row with empty name", zap.Int64("ein", ein))
			continue
		}
		orgs = append(orgs, org)
	}
	if len(orgs) == 0 {
		return nil, eris.New("orgs: no usable organizations in input")
	}
	zap.L().Info("orgs: loaded", zap.Int("count", len(orgs)), zap.Int("skipped", len(rows)-len(orgs)))
	return NewQueue(orgs), nil
}

// parseEIN accepts plain digits or the hyphenated 12-3456789 form.
func parseEIN(raw string) (int64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), "-", "")
	if cleaned == "" {
		return 0, eris.New("orgs: empty ein")
	}
	ein, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil || ein <= 0 {
		return 0, eris.Errorf("orgs: invalid ein %q", raw)
	}
	return ein, nil
}

func firstOf(row map[string]string, keys ...string) string {
	for _, key := range keys {
		if v := row[key]; v != "" {
			return v
		}
	}
	return ""
}
