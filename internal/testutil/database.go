package testutil

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dimitrije/stockroom/internal/database"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testDBName = "stockroom_test"
	testDBUser = "stockroom"
)

// tenantTables lists every org-scoped table, children first.
var tenantTables = []string{
	"item_requests",
	"items",
	"locations",
	"user_profiles",
	"organizations",
}

type TestDB struct {
	DB        *database.DB
	Container testcontainers.Container
	DSN       string
}

// SetupTestDB starts a throwaway Postgres, migrates it and tears it down with the test.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     testDBUser,
				"POSTGRES_PASSWORD": testDBUser,
				"POSTGRES_DB":       testDBName,
			},
			// postgres logs readiness once for the init server and once for the real one
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	endpoint, err := container.PortEndpoint(ctx, "5432/tcp", "")
	require.NoError(t, err, "resolve postgres endpoint")

	dsn := fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable", testDBUser, testDBUser, endpoint, testDBName)
	db, err := database.New(ctx, dsn)
	require.NoError(t, err, "connect to test database")
	t.Cleanup(db.Close)

	require.NoError(t, db.Migrate(ctx), "migrate test database")
	// a second run must be a no-op
	require.NoError(t, db.Migrate(ctx), "re-run migrations")

	return &TestDB{DB: db, Container: container, DSN: dsn}
}

// CleanTables empties every tenant table in one statement.
func (tdb *TestDB) CleanTables(t *testing.T) {
	t.Helper()
	_, err := tdb.DB.Pool.Exec(context.Background(),
		"TRUNCATE TABLE "+strings.Join(tenantTables, ", ")+" CASCADE")
	require.NoError(t, err, "truncate tenant tables")
}
