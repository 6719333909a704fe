package postgresql_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alturath/hr-audit/internal/pkg/database"
	"github.com/alturath/hr-audit/migrations"
)

// newTestDatabase connects to TEST_DATABASE_URL, applies the schema and
// empties the registry. Tests are skipped when no database is configured.
func newTestDatabase(t *testing.T) *database.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.Migrate(ctx, migrations.FS))
	_, err = db.Exec(ctx, "TRUNCATE TABLE leave_records")
	require.NoError(t, err)
	return db
}
