package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/contact-cli/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestCreateAndGetRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "orgs.csv", []string{"General Counsel", "CFO"}, 42)
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "orgs.csv", got.InputFile)
	assert.Equal(t, []string{"General Counsel", "CFO"}, got.Roles)
	assert.Equal(t, 42, got.OrgsTotal)
}

func TestFinishRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "orgs.csv", []string{"CFO"}, 10)
	require.NoError(t, err)

	require.NoError(t, s.FinishRun(ctx, run.ID, model.RunStatusCompleted, 10, 7, nil))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusCompleted, got.Status)
	assert.Equal(t, 10, got.OrgsProcessed)
	assert.Equal(t, 7, got.ContactsFound)
	assert.Empty(t, got.Error)
}

func TestFinishRun_RecordsError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "orgs.csv", []string{"CFO"}, 10)
	require.NoError(t, err)

	require.NoError(t, s.FinishRun(ctx, run.ID, model.RunStatusFailed, 3, 1, errors.New("checkpoint write failed")))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, got.Status)
	assert.Equal(t, "checkpoint write failed", got.Error)
}

func TestFinishRun_UnknownID(t *testing.T) {
	s := newTestStore(t)
	err := s.FinishRun(context.Background(), "nope", model.RunStatusCompleted, 0, 0, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGetRun_UnknownID(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetRun(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListRuns_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.CreateRun(ctx, "a.csv", []string{"CFO"}, 1)
	require.NoError(t, err)
	second, err := s.CreateRun(ctx, "b.csv", []string{"CFO"}, 2)
	require.NoError(t, err)

	runs, err := s.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	ids := []string{runs[0].ID, runs[1].ID}
	assert.Contains(t, ids, first.ID)
	assert.Contains(t, ids, second.ID)
}
