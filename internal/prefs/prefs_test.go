package prefs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trygginn/trygginn/internal/repository"
	"github.com/trygginn/trygginn/internal/testutil"
)

func dark() bool  { return true }
func light() bool { return false }

func newRepo(t *testing.T) *repository.SQLitePreferenceRepo {
	t.Helper()
	return repository.NewSQLitePreferenceRepo(testutil.NewTestDB(t))
}

func TestOpen_Defaults(t *testing.T) {
	s, err := Open(context.Background(), newRepo(t), nil)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, s.Theme())
	assert.Equal(t, LanguageNB, s.Language())
}

func TestOpen_SystemDarkPreference(t *testing.T) {
	s, err := Open(context.Background(), newRepo(t), dark)
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, s.Theme())
}

func TestOpen_StoredValueWinsOverSystem(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, KeyTheme, "light"))
	require.NoError(t, repo.Set(ctx, KeyLanguage, "en"))

	s, err := Open(ctx, repo, dark)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, s.Theme())
	assert.Equal(t, LanguageEN, s.Language())
}

func TestOpen_GarbageStoredValueFallsBack(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, KeyTheme, "sepia"))
	require.NoError(t, repo.Set(ctx, KeyLanguage, "sv"))

	s, err := Open(ctx, repo, dark)
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, s.Theme())
	assert.Equal(t, LanguageNB, s.Language())
}

func TestToggleTheme_TwiceRoundTripsAndPersists(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	s, err := Open(ctx, repo, light)
	require.NoError(t, err)
	original := s.Theme()

	for i := 0; i < 2; i++ {
		got, err := s.ToggleTheme(ctx)
		require.NoError(t, err)
		assert.Equal(t, got, s.Theme())

		stored, err := repo.Get(ctx, KeyTheme)
		require.NoError(t, err)
		assert.Equal(t, string(s.Theme()), stored, "persisted value matches memory after toggle %d", i+1)
	}
	assert.Equal(t, original, s.Theme())
}

func TestSetters_FailedWriteLeavesMemoryUnchanged(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewFailingPreferenceRepo(newRepo(t), 0)
	s, err := Open(ctx, repo, light)
	require.NoError(t, err)

	_, err = s.ToggleTheme(ctx)
	assert.ErrorIs(t, err, testutil.ErrInjected)
	assert.Equal(t, ThemeLight, s.Theme())

	err = s.SetLanguage(ctx, LanguageEN)
	assert.ErrorIs(t, err, testutil.ErrInjected)
	assert.Equal(t, LanguageNB, s.Language())
	assert.Equal(t, 2, repo.Sets())
}

func TestSetLanguage_RejectsUnknown(t *testing.T) {
	s, err := Open(context.Background(), newRepo(t), nil)
	require.NoError(t, err)

	err = s.SetLanguage(context.Background(), Language("de"))
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.ErrorIs(t, s.SetTheme(context.Background(), Theme("blue")), ErrInvalidValue)
}

func TestStore_SurvivesReopen(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	s, err := Open(ctx, repo, nil)
	require.NoError(t, err)
	require.NoError(t, s.SetTheme(ctx, ThemeDark))
	require.NoError(t, s.SetLanguage(ctx, LanguageEN))

	again, err := Open(ctx, repo, nil)
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, again.Theme())
	assert.Equal(t, LanguageEN, again.Language())
}

func TestReset(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	s, err := Open(ctx, repo, nil)
	require.NoError(t, err)
	require.NoError(t, s.SetTheme(ctx, ThemeDark))

	require.NoError(t, s.Reset(ctx, light))
	assert.Equal(t, ThemeLight, s.Theme())
	_, err = repo.Get(ctx, KeyTheme)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestLanguage_FormatDate(t *testing.T) {
	d := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "5.3.2024", LanguageNB.FormatDate(d))
	assert.Equal(t, "Mar 5, 2024", LanguageEN.FormatDate(d))
}
