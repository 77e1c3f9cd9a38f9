package orgs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/contact-cli/internal/model"
)

const sampleCSV = `ein,organization_name,website,mail_us_city,mail_us_state
111000111,Alpha Pension Trust,https://alpha.example.org,Columbus,OH
222000222,Beta Retirement Fund,,Dayton,OH
not-a-number,Broken Row,,,
222000222,Beta Duplicate,,,
333000333,Gamma Welfare Plan,https://gamma.example.org,Akron,OH
`

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orgs.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	q, err := LoadCSV(path)
	require.NoError(t, err)

	assert.Equal(t, 3, q.Len())
	all := q.All()
	assert.Equal(t, int64(111000111), all[0].EIN)
	assert.Equal(t, "Alpha Pension Trust", all[0].Name)
	assert.Equal(t, "https://alpha.example.org", all[0].Website)
	assert.Equal(t, "OH", all[0].State)
	assert.Equal(t, "Beta Retirement Fund", all[1].Name)
	assert.Equal(t, int64(333000333), all[2].EIN)
}

func TestLoadCSV_HyphenatedEIN(t *testing.T) {
	q, err := loadCSVReader(strings.NewReader("ein,organization_name\n12-3456789,Delta Co\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(123456789), q.All()[0].EIN)
}

func TestLoadCSV_AltNameColumn(t *testing.T) {
	q, err := loadCSVReader(strings.NewReader("ein,sponsor_dfe_name\n1,Epsilon Plan\n"))
	require.NoError(t, err)
	assert.Equal(t, "Epsilon Plan", q.All()[0].Name)
}

func TestLoadCSV_NoUsableRows(t *testing.T) {
	_, err := loadCSVReader(strings.NewReader("ein,organization_name\nbogus,X\n"))
	assert.Error(t, err)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	_, err := Load("orgs.parquet")
	assert.Error(t, err)
}

func TestQueue_NextBatch(t *testing.T) {
	q := NewQueue([]model.Organization{
		{EIN: 1, Name: "A"},
		{EIN: 2, Name: "B", Processed: true},
		{EIN: 3, Name: "C"},
		{EIN: 4, Name: "D"},
	})

	batch := q.NextBatch(2)
	require.Len(t, batch, 2)
	assert.Equal(t, int64(1), batch[0].EIN)
	assert.Equal(t, int64(3), batch[1].EIN)

	batch = q.NextBatch(2)
	require.Len(t, batch, 1)
	assert.Equal(t, int64(4), batch[0].EIN)

	assert.Empty(t, q.NextBatch(2))
}

func TestQueue_MarkProcessed(t *testing.T) {
	q := NewQueue([]model.Organization{{EIN: 1, Name: "A"}, {EIN: 2, Name: "B"}})
	q.MarkProcessed(2)
	batch := q.NextBatch(10)
	require.Len(t, batch, 1)
	assert.Equal(t, int64(1), batch[0].EIN)
}
