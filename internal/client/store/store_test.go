package store

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/Bridge56751/Pocket-Pricer-replit-sub000/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE prefs (
  key   TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

func TestSQLiteRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupDB(t))

	v, err := repo.Get(ctx, KeyAuthToken)
	require.NoError(t, err)
	require.Empty(t, v)

	require.NoError(t, repo.Set(ctx, KeyAuthToken, "T1"))
	require.NoError(t, repo.Set(ctx, KeyAuthToken, "T2")) // upsert

	v, err = repo.Get(ctx, KeyAuthToken)
	require.NoError(t, err)
	require.Equal(t, "T2", v)

	require.NoError(t, repo.Delete(ctx, KeyAuthToken))
	v, err = repo.Get(ctx, KeyAuthToken)
	require.NoError(t, err)
	require.Empty(t, v)
}

func TestSQLiteRepository_Clear(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupDB(t))

	require.NoError(t, repo.Set(ctx, KeyDeviceID, "dev1"))
	require.NoError(t, repo.Set(ctx, KeyThemeMode, "dark"))
	require.NoError(t, repo.Clear(ctx))

	v, err := repo.Get(ctx, KeyDeviceID)
	require.NoError(t, err)
	require.Empty(t, v)
}

// failingRepo simulates unavailable storage.
type failingRepo struct{}

var errStorage = errors.New("storage unavailable")

func (failingRepo) Get(ctx context.Context, key string) (string, error) { return "", errStorage }
func (failingRepo) Set(ctx context.Context, key, value string) error    { return errStorage }
func (failingRepo) Delete(ctx context.Context, key string) error        { return errStorage }
func (failingRepo) Clear(ctx context.Context) error                     { return errStorage }

func TestStore_SwallowsStorageFailures(t *testing.T) {
	ctx := context.Background()
	s := New(failingRepo{}, testLogger())

	// Reads degrade to absent, writes to no-ops; nothing panics or errors.
	require.Empty(t, s.Get(ctx, KeyAuthToken))
	s.Set(ctx, KeyAuthToken, "T1")
	s.Remove(ctx, KeyAuthToken)
	s.WipeSessionKeys(ctx)
	require.Equal(t, ThemeDefault, s.ThemeMode(ctx))
	require.False(t, s.LegalAccepted(ctx))
}

func TestStore_ThemeFallback(t *testing.T) {
	ctx := context.Background()
	s := New(NewSQLiteRepository(setupDB(t)), testLogger())

	require.Equal(t, "system", s.ThemeMode(ctx))

	s.SetThemeMode(ctx, "Dark")
	require.Equal(t, "dark", s.ThemeMode(ctx))

	// Unknown modes are not persisted.
	s.SetThemeMode(ctx, "solarized")
	require.Equal(t, "dark", s.ThemeMode(ctx))

	// Malformed stored value falls back to system.
	s.Set(ctx, KeyThemeMode, "42")
	require.Equal(t, "system", s.ThemeMode(ctx))
}

func TestStore_SentinelFlags(t *testing.T) {
	ctx := context.Background()
	s := New(NewSQLiteRepository(setupDB(t)), testLogger())

	require.False(t, s.LegalAccepted(ctx))
	require.False(t, s.OnboardingComplete(ctx))

	s.SetLegalAccepted(ctx)
	s.SetOnboardingComplete(ctx)

	require.True(t, s.LegalAccepted(ctx))
	require.True(t, s.OnboardingComplete(ctx))
	require.Equal(t, "true", s.Get(ctx, KeyLegalAccepted))
}

func TestStore_WipeSessionKeysKeepsDeviceAndPrefs(t *testing.T) {
	ctx := context.Background()
	s := New(NewSQLiteRepository(setupDB(t)), testLogger())

	s.Set(ctx, KeyAuthToken, "T1")
	s.Set(ctx, KeyDeviceID, "dev1")
	s.SetThemeMode(ctx, "light")

	s.WipeSessionKeys(ctx)

	require.Empty(t, s.Get(ctx, KeyAuthToken))
	require.Equal(t, "dev1", s.Get(ctx, KeyDeviceID))
	require.Equal(t, "light", s.ThemeMode(ctx))
}
