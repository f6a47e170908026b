package testutil

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"webhost-storefront/internal/db"
	"webhost-storefront/internal/migrate"
)

var (
	containerOnce sync.Once
	containerDSN  string
	containerErr  error
)

// Postgres returns a migrated, empty database. TEST_DB_DSN wins when set;
// otherwise a postgres container is started once per test binary. The test
// is skipped under -short or when no container runtime is available.
func Postgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		containerOnce.Do(func() {
			containerDSN, containerErr = startPostgres()
		})
		if containerErr != nil {
			t.Skipf("postgres container unavailable: %v", containerErr)
		}
		dsn = containerDSN
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := db.Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, migrate.Apply(ctx, dsn))
	Truncate(t, pool)
	return pool
}

// Truncate empties every application table.
func Truncate(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(), `
TRUNCATE ticket_messages, tickets, payment_events, invoices, orders, cart_items, carts,
         addons, wordpress_plans, hosting_plans, domains, user_tokens, users
RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
}

func startPostgres() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		Env:          map[string]string{"POSTGRES_PASSWORD": "webhost", "POSTGRES_USER": "webhost", "POSTGRES_DB": "webhost_test"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(90 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", err
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", err
	}
	mappedPort, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return "", err
	}
	// The container is reaped by testcontainers' ryuk sidecar when the test binary exits.
	return fmt.Sprintf("postgres://webhost:webhost@%s:%s/webhost_test?sslmode=disable", host, mappedPort.Port()), nil
}
