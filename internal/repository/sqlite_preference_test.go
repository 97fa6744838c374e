package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trygginn/trygginn/internal/testutil"
)

func TestPreferenceRepo_GetMissing(t *testing.T) {
	repo := NewSQLitePreferenceRepo(testutil.NewTestDB(t))

	_, err := repo.Get(context.Background(), "theme")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPreferenceRepo_SetThenGet(t *testing.T) {
	repo := NewSQLitePreferenceRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "theme", "dark"))
	got, err := repo.Get(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", got)
}

func TestPreferenceRepo_SetOverwrites(t *testing.T) {
	repo := NewSQLitePreferenceRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "language", "nb"))
	require.NoError(t, repo.Set(ctx, "language", "en"))

	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"language": "en"}, all)
}

func TestPreferenceRepo_Delete(t *testing.T) {
	repo := NewSQLitePreferenceRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "theme", "dark"))
	require.NoError(t, repo.Set(ctx, "language", "en"))
	require.NoError(t, repo.Set(ctx, "other", "x"))

	require.NoError(t, repo.Delete(ctx, "theme", "language", "missing"))
	require.NoError(t, repo.Delete(ctx))

	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"other": "x"}, all)
}

func TestPreferenceRepo_WorksInsideTx(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	tx, err := database.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, NewSQLitePreferenceRepo(tx).Set(ctx, "theme", "dark"))
	require.NoError(t, tx.Rollback())

	_, err = NewSQLitePreferenceRepo(database).Get(ctx, "theme")
	assert.ErrorIs(t, err, ErrNotFound, "rolled back write must not persist")
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "", placeholders(0))
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?, ?, ?", placeholders(3))
}
