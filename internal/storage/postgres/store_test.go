package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"taskManager/internal/storage"
	"taskManager/internal/storage/postgres"
	"taskManager/internal/storage/storagetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres поднимает контейнер с PostgreSQL и возвращает строку подключения
func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(30 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())
}

func TestPostgresStore(t *testing.T) {
	if testing.Short() {
		t.Skip("Пропускаем интеграционные тесты в коротком режиме")
	}

	ctx := context.Background()
	cfg := postgres.Config{URL: startPostgres(t), ConnectRetries: 10}

	migrator, err := postgres.New(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, migrator.Migrate(ctx))
	// повторный запуск миграций не должен падать
	require.NoError(t, migrator.Migrate(ctx))
	require.NoError(t, migrator.Close())

	suite.Run(t, &storagetest.StoreSuite{
		NewStore: func() storage.Store {
			store, err := postgres.New(ctx, cfg)
			require.NoError(t, err)
			return store
		},
	})
}

func TestPostgresStore_BadURL(t *testing.T) {
	_, err := postgres.New(context.Background(), postgres.Config{URL: "not a url ::"})
	assert.Error(t, err)
}
