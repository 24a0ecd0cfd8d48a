package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// pgDSN — DSN общего PostgreSQL-контейнера.
// Пусто, если интеграционные тесты выключены (DEPTHS_INTEGRATION не задан).
var pgDSN string

func TestMain(m *testing.M) {
	if os.Getenv("DEPTHS_INTEGRATION") == "" {
		os.Exit(m.Run())
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:17-alpine",
		postgres.WithDatabase("depths_test"),
		postgres.WithUsername("depths"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start postgres container: %v\n", err)
		os.Exit(1)
	}

	pgDSN, err = container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to get connection string: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	if err := container.Terminate(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to terminate container: %v\n", err)
	}
	os.Exit(code)
}

// requireIntegration пропускает тест, если контейнер не поднят.
func requireIntegration(t *testing.T) {
	t.Helper()
	if pgDSN == "" {
		t.Skip("integration tests disabled; set DEPTHS_INTEGRATION=1")
	}
}
