package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/ismo-hris/hris-backend-go/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSetup wraps a migrated test database.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies migrations.
// The calling test is skipped when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 4, MinConns: 1})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(ctx, db))

	setup := &TestDatabaseSetup{DB: db}
	require.NoError(t, setup.TruncateAllTables(ctx))
	t.Cleanup(setup.Close)
	return setup
}

// TruncateAllTables removes every row written by a previous run.
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"letter_logs",
		"letters",
		"attendance",
		"leave_requests",
		"revoked_tokens",
		"users",
		"employees",
		"public_holidays",
		"designations",
		"grades",
		"locations",
		"sections",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// SeedMasterData inserts one row in each lookup table and returns their ids.
func (t *TestDatabaseSetup) SeedMasterData(ctx context.Context) (sectionID, locationID, gradeID, designationID int64, err error) {
	if err = t.DB.QueryRow(ctx, `INSERT INTO sections (name) VALUES ('Registry') RETURNING id`).Scan(&sectionID); err != nil {
		return
	}
	if err = t.DB.QueryRow(ctx, `INSERT INTO locations (name) VALUES ('Head Office') RETURNING id`).Scan(&locationID); err != nil {
		return
	}
	gradeID = 7
	if _, err = t.DB.Exec(ctx, `INSERT INTO grades (id, name) VALUES ($1, 'Grade 7')`, gradeID); err != nil {
		return
	}
	err = t.DB.QueryRow(ctx, `INSERT INTO designations (title) VALUES ('Assistant') RETURNING id`).Scan(&designationID)
	return
}

func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
