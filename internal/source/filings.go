package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/contact-cli/internal/identify"
	"github.com/sells-group/contact-cli/internal/model"
)

// Filing is one annual filing with its extracted officer list.
type Filing struct {
	EIN      int64     `json:"ein"`
	OrgName  string    `json:"organization_name"`
	Year     int       `json:"year"`
	FormType string    `json:"form_type"`
	Officers []Officer `json:"officers"`
}

// Officer is a named officer row inside a filing.
type Officer struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// FilingIndex finds filings for an organization.
type FilingIndex interface {
	Find(ctx context.Context, ein int64) ([]Filing, error)
}

// DirIndex is a FilingIndex over a directory of per-filing JSON files, the
// layout bulk form extracts land in.
type DirIndex struct {
	dir string
}

// NewDirIndex creates a filing index over a local directory.
func NewDirIndex(dir string) *DirIndex {
	return &DirIndex{dir: dir}
}

// Find loads all filings in the directory matching the EIN, newest year
// first. Unreadable files are skipped with a warning.
func (d *DirIndex) Find(_ context.Context, ein int64) ([]Filing, error) {
	paths, err := filepath.Glob(filepath.Join(d.dir, "*.json"))
	if err != nil {
		return nil, eris.Wrapf(err, "filings: list %s", d.dir)
	}

	var filings []Filing
	for _, path := range paths {
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			zap.L().Warn("filings: unreadable file", zap.String("path", path), zap.Error(readErr))
			continue
		}
		var f Filing
		if jsonErr := json.Unmarshal(data, &f); jsonErr != nil {
			zap.L().Warn("filings: malformed file", zap.String("path", path), zap.Error(jsonErr))
			continue
		}
		if f.EIN != ein {
			continue
		}
		filings = append(filings, f)
	}
	sort.Slice(filings, func(i, j int) bool { return filings[i].Year > filings[j].Year })
	return filings, nil
}

// HTTPIndex is a FilingIndex over a remote filings service exposing
// GET {base}/filings/{ein} as a JSON array of filings.
type HTTPIndex struct {
	fetch   PageFetcher
	baseURL string
}

// NewHTTPIndex creates a filing index over an HTTP endpoint.
func NewHTTPIndex(fetch PageFetcher, baseURL string) *HTTPIndex {
	return &HTTPIndex{fetch: fetch, baseURL: strings.TrimRight(baseURL, "/")}
}

// Find fetches filings for the EIN, newest year first.
func (h *HTTPIndex) Find(ctx context.Context, ein int64) ([]Filing, error) {
	url := fmt.Sprintf("%s/filings/%d", h.baseURL, ein)
	data, err := h.fetch.Get(ctx, url)
	if err != nil {
		return nil, eris.Wrapf(err, "filings: fetch %s", url)
	}
	var filings []Filing
	if err := json.Unmarshal(data, &filings); err != nil {
		return nil, eris.Wrapf(err, "filings: parse response from %s", url)
	}
	sort.Slice(filings, func(i, j int) bool { return filings[i].Year > filings[j].Year })
	return filings, nil
}

// FilingsAdapter extracts officer contacts from public filings. Filing year
// stands in for the sighting date when scoring recency.
type FilingsAdapter struct {
	index   FilingIndex
	matcher *identify.Matcher
}

// NewFilingsAdapter creates a filings adapter over an index.
func NewFilingsAdapter(index FilingIndex, matcher *identify.Matcher) *FilingsAdapter {
	return &FilingsAdapter{index: index, matcher: matcher}
}

func (a *FilingsAdapter) Name() model.Source { return model.SourceFiling }

func (a *FilingsAdapter) Fetch(ctx context.Context, org model.Organization, roles []string) ([]model.RawContact, error) {
	filings, err := a.index.Find(ctx, org.EIN)
	if err != nil {
		return nil, eris.Wrapf(err, "filings: find ein %d", org.EIN)
	}

	var contacts []model.RawContact
	for _, filing := range filings {
		filedAt := yearEnd(filing.Year)
		for _, officer := range filing.Officers {
			if !a.titleMatches(officer.Title, roles) {
				continue
			}
			contacts = append(contacts, model.RawContact{
				Name:      officer.Name,
				Title:     officer.Title,
				Source:    model.SourceFiling,
				Email:     officer.Email,
				Phone:     officer.Phone,
				UpdatedAt: filedAt,
			})
		}
	}
	return contacts, nil
}

func (a *FilingsAdapter) titleMatches(title string, roles []string) bool {
	for _, role := range roles {
		if a.matcher.TitleScore(title, role) > 0 {
			return true
		}
	}
	return false
}

// yearEnd approximates a filing's date from its year. Annual filings carry
// no finer timestamp.
func yearEnd(year int) *time.Time {
	if year <= 0 {
		return nil
	}
	t := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return &t
}
