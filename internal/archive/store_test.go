package archive

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "data", "rps.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(db))
	return NewStore(db)
}

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "rps.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestMigrateRollsBackBadFile(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "rps.db"))
	require.NoError(t, err)
	defer db.Close()

	fsys := fstest.MapFS{
		"001_ok.sql":  {Data: []byte(`CREATE TABLE ok (id INTEGER);`)},
		"002_bad.sql": {Data: []byte(`CREATE TABLE nope (`)},
	}
	err = migrateFS(db, fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "002_bad.sql")

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestRecordAndTotals(t *testing.T) {
	st := openTest(t)
	ctx := context.Background()

	empty, err := st.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, Totals{}, empty)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, st.Record(ctx, Result{SessionID: "a", Rounds: 10, Wins: 6, Draws: 2, Losses: 2, FinishedAt: base}))
	require.NoError(t, st.Record(ctx, Result{SessionID: "b", Rounds: 10, Wins: 2, Draws: 3, Losses: 5, FinishedAt: base.Add(time.Hour)}))
	// duplicate ignored
	require.NoError(t, st.Record(ctx, Result{SessionID: "a", Rounds: 10, Wins: 10, FinishedAt: base}))

	tot, err := st.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, tot.Sessions)
	assert.Equal(t, 20, tot.Rounds)
	assert.Equal(t, 8, tot.Wins)
	assert.Equal(t, 5, tot.Draws)
	assert.Equal(t, 7, tot.Losses)
	assert.InDelta(t, 0.4, tot.WinRate, 1e-9)
}

func TestRecentNewestFirst(t *testing.T) {
	st := openTest(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		require.NoError(t, st.Record(ctx, Result{SessionID: id, Rounds: 10, FinishedAt: base.Add(time.Duration(i) * time.Minute)}))
	}

	rows, err := st.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "new", rows[0].SessionID)
	assert.Equal(t, "mid", rows[1].SessionID)
	assert.True(t, rows[0].FinishedAt.Equal(base.Add(2*time.Minute)))
}

func TestPurge(t *testing.T) {
	st := openTest(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, st.Record(ctx, Result{SessionID: "old", Rounds: 10, FinishedAt: base.Add(-48 * time.Hour)}))
	require.NoError(t, st.Record(ctx, Result{SessionID: "new", Rounds: 10, FinishedAt: base}))

	n, err := st.Purge(ctx, base.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	rows, err := st.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "new", rows[0].SessionID)
}

func TestRecentRejectsMalformedTime(t *testing.T) {
	st := openTest(t)
	ctx := context.Background()

	require.NoError(t, st.Record(ctx, Result{SessionID: "bad", Rounds: 10, FinishedAt: time.Now()}))
	_, err := st.db.ExecContext(ctx, `UPDATE session_results SET finished_at = 'yesterday' WHERE session_id = 'bad'`)
	require.NoError(t, err)

	_, err = st.Recent(ctx, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session bad")
}
