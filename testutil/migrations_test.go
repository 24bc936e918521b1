package testutil_test

import (
	"context"
	"database/sql"
	"io/fs"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/maple-planner/migrations"
	"github.com/pkordes/maple-planner/testutil"
)

// schema lists every table the migrations create with a few columns that
// the repos depend on.
var schema = map[string][]string{
	"users":         {"email", "password_hash", "provider"},
	"user_profiles": {"name", "profile_picture"},
	"auth_sessions": {"refresh_token_hash", "expires_at", "revoked_at"},
	"saved_trips":   {"user_id", "start_date", "end_date", "interests", "itinerary"},
	"trip_items":    {"trip_id", "day_number", "scheduled_time", "place_id"},
	"saved_places":  {"user_id", "place_id", "added_at"},
}

// TestMigrations applies the schema with migrations.Up, checks it, then
// rolls everything back and checks the tables are gone. Other packages may
// have migrated the shared database already, so it starts from version 0.
func TestMigrations(t *testing.T) {
	db := testutil.NewSQLDB(t)
	ctx := context.Background()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	require.NoError(t, err)
	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "reset to version 0")

	n, err := migrations.Up(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, len(migrationFiles(t)), n)

	for table, cols := range schema {
		assert.True(t, tableExists(t, db, table), "table %q", table)
		for _, col := range cols {
			assert.True(t, columnExists(t, db, table, col), "column %s.%s", table, col)
		}
	}

	again, err := migrations.Up(ctx, db)
	require.NoError(t, err)
	assert.Zero(t, again, "second Up must be a no-op")

	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err)
	for table := range schema {
		assert.False(t, tableExists(t, db, table), "table %q should be dropped", table)
	}
}

func migrationFiles(t *testing.T) []string {
	t.Helper()
	names, err := fs.Glob(migrations.FS, "*.sql")
	require.NoError(t, err)
	return names
}

func tableExists(t *testing.T, db *sql.DB, table string) bool {
	t.Helper()
	var ok bool
	err := db.QueryRowContext(context.Background(), `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = $1
		)`, table).Scan(&ok)
	require.NoError(t, err)
	return ok
}

func columnExists(t *testing.T, db *sql.DB, table, column string) bool {
	t.Helper()
	var ok bool
	err := db.QueryRowContext(context.Background(), `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.columns
			WHERE table_schema = 'public' AND table_name = $1 AND column_name = $2
		)`, table, column).Scan(&ok)
	require.NoError(t, err)
	return ok
}
