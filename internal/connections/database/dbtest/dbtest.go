// Package dbtest opens the Postgres database used by store tests.
package dbtest

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cafesync/internal/connections/database"
)

// EnvDSN names the variable holding the test database DSN.
const EnvDSN = "CAFESYNC_TEST_DATABASE_URL"

// Open connects to the test database and applies the schema. The test is
// skipped when EnvDSN is unset.
func Open(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv(EnvDSN)
	if dsn == "" {
		t.Skipf("%s not set", EnvDSN)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.PingContext(ctx))
	require.NoError(t, database.Migrate(ctx, db))
	return db
}
