// Package trustees queries the aggregated filing-officer database: trustee
// and officer rows extracted from plan filings, keyed by sponsoring
// organization name. Organization names in filings are typed by hand, so
// lookups cascade from exact through normalized to trigram fuzzy matching.
package trustees

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// Config configures the trustee lookup client.
type Config struct {
	URL                 string  `mapstructure:"url"`
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`
	MaxCandidates       int     `mapstructure:"max_candidates"`
}

// Match is a trustee or officer row matched to an organization.
type Match struct {
	OrgName    string    `json:"org_name"`
	PersonName string    `json:"person_name"`
	Title      string    `json:"title"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	State      string    `json:"state"`
	City       string    `json:"city"`
	FiledAt    time.Time `json:"filed_at"`
	MatchTier  int       `json:"match_tier"`
	MatchScore float64   `json:"match_score"`
}

// Querier abstracts the lookup for testing and for the database adapter.
type Querier interface {
	FindOfficers(ctx context.Context, orgName, state, city string) ([]Match, error)
	Close()
}

// pool is the minimal pool surface the client needs.
type pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
	Close()
}

// Client looks up officers in the trustee database.
type Client struct {
	pool pool
	cfg  Config
}

var _ Querier = (*Client)(nil)

// New connects to the trustee database and verifies the connection.
func New(ctx context.Context, cfg Config) (*Client, error) {
	p, err := pgxpool.New(ctx, cfg.URL)
	if err != nil {
		return nil, eris.Wrap(err, "trustees: connect")
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, eris.Wrap(err, "trustees: ping")
	}
	return &Client{pool: p, cfg: cfg}, nil
}

// NewFromPool creates a client over an existing pool. The client does not
// own the pool, so Close is a no-op.
func NewFromPool(p *pgxpool.Pool, cfg Config) *Client {
	return &Client{pool: &sharedPool{Pool: p}, cfg: cfg}
}

// sharedPool gives a borrowed pool a no-op Close.
type sharedPool struct {
	*pgxpool.Pool
}

func (s *sharedPool) Close() {}

// Close releases the connection pool.
func (c *Client) Close() { c.pool.Close() }

// FindOfficers tries 3 tiers in order and returns on the first non-empty
// result: exact name, suffix-normalized name, then trigram similarity.
func (c *Client) FindOfficers(ctx context.Context, orgName, state, city string) ([]Match, error) {
	upperName := strings.ToUpper(strings.TrimSpace(orgName))
	matches, err := c.queryExact(ctx, upperName, state)
	if err != nil {
		return nil, err
	}
	if len(matches) > 0 {
		return matches, nil
	}

	matches, err = c.queryNormalized(ctx, Normalize(orgName), state)
	if err != nil {
		return nil, err
	}
	if len(matches) > 0 {
		return matches, nil
	}

	return c.queryFuzzy(ctx, upperName, state, city)
}

const exactSQL = `
SELECT org_name, person_name, title, COALESCE(email, ''), COALESCE(phone, ''),
       state, city, filed_at
FROM fed_data.plan_officers
WHERE state = $1 AND UPPER(TRIM(org_name)) = $2
ORDER BY filed_at DESC`

func (c *Client) queryExact(ctx context.Context, upperName, state string) ([]Match, error) {
	rows, err := c.pool.Query(ctx, exactSQL, state, upperName)
	if err != nil {
		return nil, eris.Wrap(err, "trustees: exact query")
	}
	defer rows.Close()

	return scanMatches(rows, 1, 1.0)
}

const normalizedSQL = `
SELECT org_name, person_name, title, COALESCE(email, ''), COALESCE(phone, ''),
       state, city, filed_at
FROM fed_data.plan_officers
WHERE state = $1
  AND UPPER(REGEXP_REPLACE(TRIM(org_name),
      '\s*,?\s*(LLC|L\.?L\.?C\.?|INC\.?|INCORPORATED|CORP\.?|CORPORATION|CO\.?|COMPANY|LTD\.?|LIMITED|L\.?P\.?|LLP|L\.?L\.?P\.?|PLLC|P\.?L\.?L\.?C\.?|P\.?C\.?|TRUST|FUND|DBA|D/B/A)\s*\.?\s*$',
      '', 'i')) = $2
ORDER BY filed_at DESC`

func (c *Client) queryNormalized(ctx context.Context, normName, state string) ([]Match, error) {
	rows, err := c.pool.Query(ctx, normalizedSQL, state, normName)
	if err != nil {
		return nil, eris.Wrap(err, "trustees: normalized query")
	}
	defer rows.Close()

	return scanMatches(rows, 2, 0.8)
}

const fuzzySQL = `
SELECT org_name, person_name, title, COALESCE(email, ''), COALESCE(phone, ''),
       state, city, filed_at,
       similarity(UPPER(org_name), $2) AS sim_score
FROM fed_data.plan_officers
WHERE state = $1
  AND org_name %% $2
  AND ($3::text IS NULL OR city ILIKE $3)
ORDER BY sim_score DESC
LIMIT $4`

func (c *Client) queryFuzzy(ctx context.Context, upperName, state, city string) ([]Match, error) {
	var cityParam *string
	if city != "" {
		cityParam = &city
	}

	rows, err := c.pool.Query(ctx, fuzzySQL, state, upperName, cityParam, c.cfg.MaxCandidates)
	if err != nil {
		return nil, eris.Wrap(err, "trustees: fuzzy query")
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		var simScore float64
		err := rows.Scan(
			&m.OrgName, &m.PersonName, &m.Title, &m.Email, &m.Phone,
			&m.State, &m.City, &m.FiledAt, &simScore,
		)
		if err != nil {
			return nil, eris.Wrap(err, "trustees: scan fuzzy row")
		}
		if simScore < c.cfg.SimilarityThreshold {
			continue
		}
		m.MatchTier = 3
		m.MatchScore = simScore
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "trustees: rows iteration")
	}
	return matches, nil
}

func scanMatches(rows pgx.Rows, tier int, score float64) ([]Match, error) {
	var matches []Match
	for rows.Next() {
		var m Match
		err := rows.Scan(
			&m.OrgName, &m.PersonName, &m.Title, &m.Email, &m.Phone,
			&m.State, &m.City, &m.FiledAt,
		)
		if err != nil {
			return nil, eris.Wrap(err, "trustees: scan row")
		}
		m.MatchTier = tier
		m.MatchScore = score
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "trustees: rows iteration")
	}
	return matches, nil
}
