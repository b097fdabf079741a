package db

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talentmatrix/internal/types"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "state path is empty")
}

func TestGetSetDelete(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	database.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	_, ok, err := database.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, database.Set(ctx, "k", "v1"))
	require.NoError(t, database.Set(ctx, "k", "v2"))
	v, ok, err := database.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", v)

	var updated string
	require.NoError(t, database.conn.QueryRowContext(ctx, `SELECT updated_at FROM settings WHERE key = 'k'`).Scan(&updated))
	assert.Equal(t, "2026-01-02T03:04:05Z", updated)

	require.NoError(t, database.Delete(ctx, "k"))
	require.NoError(t, database.Delete(ctx, "k"))
	_, ok, err = database.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserID_PersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	first, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, first.SetUserID(ctx, "42"))
	require.NoError(t, first.Close())

	second, err := Open(ctx, path)
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	id, err := second.UserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.ID("42"), id)

	require.NoError(t, second.ClearUserID(ctx))
	id, err = second.UserID(ctx)
	require.NoError(t, err)
	assert.True(t, id.IsZero())
}

func TestSetUserID_RejectsEmpty(t *testing.T) {
	assert.Error(t, openTestDB(t).SetUserID(context.Background(), ""))
}

func TestTheme(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	theme, err := database.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.ThemeLight, theme)

	require.NoError(t, database.SetTheme(ctx, types.ThemeDark))
	theme, err = database.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.ThemeDark, theme)

	assert.Error(t, database.SetTheme(ctx, "sepia"))

	require.NoError(t, database.Set(ctx, KeyTheme, "garbage"))
	theme, err = database.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.ThemeLight, theme)
}

func TestSignupData(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	_, ok, err := database.SignupData(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	rec := types.SignupRecord{Raw: json.RawMessage(`{"user":{"id":9},"FullName":"Asha"}`)}
	require.NoError(t, database.SetSignupData(ctx, rec))

	got, ok, err := database.SignupData(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, types.ID("9"), got.UserID())
	assert.Equal(t, "Asha", got.FullName())

	require.NoError(t, database.ClearSignupData(ctx))
	_, ok, err = database.SignupData(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Error(t, database.SetSignupData(ctx, types.SignupRecord{Raw: json.RawMessage(`{bad`)}))
}
