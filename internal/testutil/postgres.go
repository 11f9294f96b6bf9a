// AngelaMos | 2026
// postgres.go

//go:build integration

package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/bythepixel/propixel/internal/config"
	"github.com/bythepixel/propixel/internal/core"
)

// Postgres starts a disposable PostgreSQL container, applies the embedded
// migrations and returns a connected handle. The container is terminated
// when the test ends.
//
// Run with: go test -tags=integration ./...
func Postgres(t *testing.T) *sqlx.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("propixel"),
		postgres.WithUsername("propixel"),
		postgres.WithPassword("propixel"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := core.NewDatabase(ctx, config.DatabaseConfig{
		URL:             url,
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = core.Migrate(ctx, db.DB)
	require.NoError(t, err)

	return db.DB
}
