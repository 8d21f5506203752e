// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/docmend/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(types.HistoryConfig{HistoryDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	run, err := store.Record(ctx, &types.Document{
		Path:         "a.docx",
		OutputPath:   "a.repaired.docx",
		Author:       "AutoFix",
		Title:        "Report",
		Subject:      "Document repair",
		RepairStatus: types.RepairDone,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.False(t, run.CreatedAt.IsZero())

	_, err = store.Record(ctx, &types.Document{
		Path:         "b.docx",
		RepairStatus: types.RepairFailed,
	})
	require.NoError(t, err)

	runs, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Newest first.
	assert.Equal(t, "b.docx", runs[0].InputPath)
	assert.Equal(t, types.RepairFailed, runs[0].Status)
	assert.Equal(t, "a.docx", runs[1].InputPath)
	assert.Equal(t, "Report", runs[1].Title)
	assert.Equal(t, types.RepairDone, runs[1].Status)
}

func TestListLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"a.docx", "b.docx", "c.docx"} {
		_, err := store.Record(ctx, &types.Document{Path: name, RepairStatus: types.RepairDone})
		require.NoError(t, err)
	}

	runs, err := store.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestListEmpty(t *testing.T) {
	store := newTestStore(t)

	runs, err := store.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStoreReopens(t *testing.T) {
	dir := t.TempDir()
	cfg := types.HistoryConfig{HistoryDir: dir}

	store, err := NewStore(cfg)
	require.NoError(t, err)
	_, err = store.Record(context.Background(), &types.Document{Path: "a.docx", RepairStatus: types.RepairDone})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := NewStore(cfg)
	require.NoError(t, err)
	defer reopened.Close()

	runs, err := reopened.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
