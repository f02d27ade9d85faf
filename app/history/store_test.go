package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/jobwatch/app/enums"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })
	return store
}

func TestNewStore(t *testing.T) {
	t.Run("successful creation", func(t *testing.T) {
		store := newTestStore(t)
		var count int
		err := store.db.Get(&count, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='jobs_history'")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("invalid path", func(t *testing.T) {
		store, err := NewStore("/invalid/path/that/does/not/exist/history.db")
		assert.Error(t, err)
		assert.Nil(t, store)
	})
}

func TestStore_SaveGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	created := time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC)

	rec := Record{
		JobID: "j1", Name: "nightly", Kind: enums.JobKindFull, Status: enums.JobStatusFailed, Error: "disk full",
		CreatedAt: created, StartedAt: created.Add(time.Minute), Percentage: 42.5, ProcessedItems: 42, TotalItems: 100,
	}
	require.NoError(t, store.Save(ctx, rec))

	got, err := store.Get(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, "nightly", got.Name)
	assert.Equal(t, enums.JobKindFull, got.Kind)
	assert.Equal(t, enums.JobStatusFailed, got.Status)
	assert.Equal(t, "disk full", got.Error)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, created.Add(time.Minute), got.StartedAt)
	assert.True(t, got.CompletedAt.IsZero())
	assert.InDelta(t, 42.5, got.Percentage, 0.001)
	assert.Equal(t, int64(100), got.TotalItems)
	assert.False(t, got.RecordedAt.IsZero())

	// replaced on the second save
	rec.Status = enums.JobStatusCancelled
	require.NoError(t, store.Save(ctx, rec))
	got, err = store.Get(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, enums.JobStatusCancelled, got.Status)

	_, err = store.Get(ctx, "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStore_List(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC)

	recs := []Record{
		{JobID: "a", Kind: enums.JobKindFull, Status: enums.JobStatusCompleted, RecordedAt: base},
		{JobID: "b", Kind: enums.JobKindRestore, Status: enums.JobStatusFailed, RecordedAt: base.Add(time.Hour)},
		{JobID: "c", Kind: enums.JobKindFull, Status: enums.JobStatusFailed, RecordedAt: base.Add(2 * time.Hour)},
	}
	for _, r := range recs {
		require.NoError(t, store.Save(ctx, r))
	}

	tbl := []struct {
		name string
		q    Query
		ids  []string
	}{
		{"all", Query{}, []string{"c", "b", "a"}},
		{"failed", Query{Status: enums.JobStatusFailed}, []string{"c", "b"}},
		{"full", Query{Kind: enums.JobKindFull}, []string{"c", "a"}},
		{"failed full", Query{Status: enums.JobStatusFailed, Kind: enums.JobKindFull}, []string{"c"}},
		{"since", Query{Since: base.Add(30 * time.Minute)}, []string{"c", "b"}},
		{"limit", Query{Limit: 1}, []string{"c"}},
		{"nothing", Query{Status: enums.JobStatusCancelled}, []string{}},
	}
	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			res, err := store.List(ctx, tt.q)
			require.NoError(t, err)
			ids := []string{}
			for _, r := range res {
				ids = append(ids, r.JobID)
			}
			assert.Equal(t, tt.ids, ids)
		})
	}
}

func TestStore_Cleanup(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, store.Save(ctx, Record{JobID: "old", Status: enums.JobStatusCompleted, Kind: enums.JobKindFull,
		RecordedAt: now.Add(-48 * time.Hour)}))
	require.NoError(t, store.Save(ctx, Record{JobID: "new", Status: enums.JobStatusCompleted, Kind: enums.JobKindFull,
		RecordedAt: now}))

	n, err := store.Cleanup(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	res, err := store.List(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "new", res[0].JobID)
}
