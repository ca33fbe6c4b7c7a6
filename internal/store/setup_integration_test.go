//go:build integration

package store_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/safar/shop-admin/internal/database"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var dialects = []database.Dialect{database.Postgres, database.MySQL}

// forEachDialect runs fn against a freshly migrated database per dialect.
func forEachDialect(t *testing.T, fn func(t *testing.T, db *database.DB)) {
	for _, dialect := range dialects {
		t.Run(string(dialect), func(t *testing.T) {
			db, cleanup := setupTestDB(t, dialect)
			defer cleanup()
			fn(t, db)
		})
	}
}

func setupTestDB(t *testing.T, dialect database.Dialect) (*database.DB, func()) {
	ctx := context.Background()

	var (
		container testcontainers.Container
		dsn       string
		err       error
	)

	switch dialect {
	case database.Postgres:
		var pg *postgres.PostgresContainer
		pg, err = postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("testdb"),
			postgres.WithUsername("testuser"),
			postgres.WithPassword("testpass"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second)),
		)
		if err == nil {
			container = pg
			dsn, err = pg.ConnectionString(ctx, "sslmode=disable")
		}
	case database.MySQL:
		var my *mysql.MySQLContainer
		my, err = mysql.Run(ctx,
			"mysql:8.0",
			mysql.WithDatabase("testdb"),
			mysql.WithUsername("testuser"),
			mysql.WithPassword("testpass"),
		)
		if err == nil {
			container = my
			dsn, err = my.ConnectionString(ctx, "parseTime=true", "clientFoundRows=true")
		}
	}
	if err != nil {
		t.Fatalf("Failed to start %s container: %v", dialect, err)
	}

	sqlDB, err := sql.Open(string(dialect), dsn)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	db := database.Wrap(sqlDB, dialect)
	if _, err := database.Migrate(ctx, db, database.Up, 0, nil); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	cleanup := func() {
		if err := db.Close(); err != nil {
			t.Logf("Failed to close database: %v", err)
		}
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}

	return db, cleanup
}
