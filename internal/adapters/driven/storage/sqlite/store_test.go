package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docdupe/internal/core/domain"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// setupTestStore creates a SQLite store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})

	return store
}

func record(a, b string, sim float64) domain.MatchRecord {
	return domain.MatchRecord{
		Type:       domain.DocumentTypeText,
		PathA:      "/corpus/" + a,
		PathB:      "/corpus/" + b,
		RelPathA:   a,
		RelPathB:   b,
		Similarity: sim,
		Exact:      sim == 1,
	}
}

func report(id string, age time.Duration, matches ...domain.MatchRecord) *domain.Report {
	if matches == nil {
		matches = []domain.MatchRecord{}
	}
	return &domain.Report{
		ID:        id,
		CreatedAt: baseTime.Add(-age),
		Result: domain.ScanResult{
			Root:      "/corpus",
			Threshold: 0.85,
			Documents: 2 * len(matches),
			Matches:   matches,
		},
	}
}

func TestNewStore_Success(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, DatabaseFile), store.Path())
	_, err = os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestNewStore_DirectoryCreation(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewStore_DefaultDirectory(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	store, err := NewStore("")
	require.NoError(t, err)
	defer store.Close()

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".docdupe", "data", DatabaseFile), store.Path())
}

func TestNewStore_Migrations(t *testing.T) {
	store := setupTestStore(t)

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)

	for _, table := range []string{"reports", "matches", "diagnostics"} {
		var name string
		err := store.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.ReportStore().Save(ctx, report("r1", 0, record("a.docx", "b.docx", 1))))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.ReportStore().Get(ctx, "r1")
	require.NoError(t, err)
	assert.Len(t, got.Result.Matches, 1)

	var count int
	require.NoError(t, reopened.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestNewStore_ForeignKeysEnabled(t *testing.T) {
	store := setupTestStore(t)

	var enabled int
	require.NoError(t, store.db.QueryRow("PRAGMA foreign_keys").Scan(&enabled))
	assert.Equal(t, 1, enabled)
}

func TestReportStore_SaveAndGet(t *testing.T) {
	store := setupTestStore(t).ReportStore()
	ctx := context.Background()
	r := report("r1", 0, record("a.docx", "b.docx", 1), record("a.docx", "c.docx", 0.9))
	r.Result.Diagnostics = []domain.Diagnostic{
		{Kind: domain.DiagnosticExtractionFailed, Path: "/corpus/bad.docx", Message: "corrupt"},
	}

	require.NoError(t, store.Save(ctx, r))

	got, err := store.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)
	assert.True(t, r.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, r.Result, got.Result)
}

func TestReportStore_Save_Replaces(t *testing.T) {
	store := setupTestStore(t).ReportStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, report("r1", 0, record("a.docx", "b.docx", 1))))
	require.NoError(t, store.Save(ctx, report("r1", 0)))

	got, err := store.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Empty(t, got.Result.Matches)
}

func TestReportStore_Save_Invalid(t *testing.T) {
	store := setupTestStore(t).ReportStore()

	assert.ErrorIs(t, store.Save(context.Background(), nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.Save(context.Background(), &domain.Report{}), domain.ErrInvalidInput)
}

func TestReportStore_Get_NotFound(t *testing.T) {
	_, err := setupTestStore(t).ReportStore().Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReportStore_Latest(t *testing.T) {
	store := setupTestStore(t).ReportStore()
	ctx := context.Background()

	_, err := store.Latest(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.Save(ctx, report("old", time.Hour)))
	require.NoError(t, store.Save(ctx, report("new", 0)))

	got, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", got.ID)
}

func TestReportStore_List(t *testing.T) {
	store := setupTestStore(t).ReportStore()
	ctx := context.Background()

	old := report("old", time.Hour, record("a.docx", "b.docx", 1))
	old.Result.Diagnostics = []domain.Diagnostic{{Kind: domain.DiagnosticWalkFailed, Path: "/corpus/x"}}
	require.NoError(t, store.Save(ctx, old))
	require.NoError(t, store.Save(ctx, report("new", 0)))

	summaries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "new", summaries[0].ID)
	assert.Equal(t, "old", summaries[1].ID)
	assert.Equal(t, 1, summaries[1].Matches)
	assert.Equal(t, 1, summaries[1].Diagnostics)
	assert.Equal(t, "/corpus", summaries[1].Root)
}

func TestReportStore_Delete(t *testing.T) {
	store := setupTestStore(t)
	reports := store.ReportStore()
	ctx := context.Background()

	require.NoError(t, reports.Save(ctx, report("r1", 0, record("a.docx", "b.docx", 1))))
	require.NoError(t, reports.Delete(ctx, "r1"))

	_, err := reports.Get(ctx, "r1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, reports.Delete(ctx, "r1"), domain.ErrNotFound)

	var orphans int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM matches").Scan(&orphans))
	assert.Zero(t, orphans)
}

func TestReportStore_PurgePath(t *testing.T) {
	store := setupTestStore(t).ReportStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, report("r1", time.Hour,
		record("a.docx", "b.docx", 1), record("b.docx", "c.docx", 0.9), record("c.docx", "d.docx", 0.88))))
	require.NoError(t, store.Save(ctx, report("r2", 0, record("a.docx", "b.docx", 1))))

	n, err := store.PurgePath(ctx, "/corpus/b.docx")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	r1, err := store.Get(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, r1.Result.Matches, 1)
	assert.Equal(t, "c.docx", r1.Result.Matches[0].RelPathA)

	n, err = store.PurgePath(ctx, "/corpus/b.docx")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestReportStore_Prune(t *testing.T) {
	store := setupTestStore(t).ReportStore()
	ctx := context.Background()

	for i, id := range []string{"r1", "r2", "r3"} {
		require.NoError(t, store.Save(ctx, report(id, time.Duration(3-i)*time.Hour)))
	}

	n, err := store.Prune(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = store.Prune(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	summaries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "r3", summaries[0].ID)
	assert.Equal(t, "r2", summaries[1].ID)
}
