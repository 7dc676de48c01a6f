// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package postgrestest starts a throwaway PostgreSQL container with the
// application schema applied, for repository integration tests.
package postgrestest

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	pgmodule "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/taibuivan/bloglist/internal/platform/migration"
	"github.com/taibuivan/bloglist/internal/platform/postgres"
)

// Start returns a pool connected to a fresh, migrated database.
//
// The test is skipped under -short, when SKIP_INTEGRATION=true, or when no
// container runtime is reachable.
func Start(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if testing.Short() || os.Getenv("SKIP_INTEGRATION") == "true" {
		t.Skip("skipping PostgreSQL integration test")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := pgmodule.Run(ctx,
		"postgres:16-alpine",
		pgmodule.WithDatabase("bloglist_test"),
		pgmodule.WithUsername("test"),
		pgmodule.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Skipf("skipping: could not start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("getting connection string: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := migration.RunUp(dsn, migrationsDir(t), logger); err != nil {
		t.Fatalf("applying migrations: %v", err)
	}

	opts := postgres.DefaultOptions()
	opts.MaxConns = 4
	opts.MinConns = 0

	pool, err := postgres.NewPoolWithOptions(ctx, dsn, opts, logger)
	if err != nil {
		t.Fatalf("connecting pool: %v", err)
	}
	t.Cleanup(pool.Close)

	return pool
}

// migrationsDir resolves data/migrations relative to this source file.
func migrationsDir(t *testing.T) string {
	t.Helper()

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot resolve migrations directory")
	}
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "data", "migrations")
}
