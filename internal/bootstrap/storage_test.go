package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/planner/domain"
	"github.com/fastygo/planner/internal/config"
	"github.com/fastygo/planner/internal/schedlock"
	"github.com/fastygo/planner/repository"
)

func TestOpenStorage_Bolt(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{}
	cfg.Storage.Driver = config.DriverBolt
	cfg.Bolt.Path = filepath.Join(t.TempDir(), "nested", "planner.db")

	storage, err := OpenStorage(ctx, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close(ctx) })

	assert.Equal(t, "bolt", storage.Probe.Name)
	require.NoError(t, storage.Probe.Check(ctx))

	require.NoError(t, storage.Users.Create(ctx, &domain.User{Username: "a", Email: "a@example.com"}))
	_, err = storage.Tasks.Create(ctx, &domain.Task{UserID: "u1", Title: "t", Date: "2025-12-27", StartTime: "10:00", EndTime: "11:00"})
	require.NoError(t, err)

	require.NoError(t, storage.Reset(ctx))

	_, err = storage.Users.GetByEmail(ctx, "a@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	tasks, err := storage.Tasks.List(ctx, repository.TaskFilter{UserID: "u1"})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestOpenStorage_UnknownDriver(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Driver = "sqlite"
	_, err := OpenStorage(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestOpenCoordination_WithoutRedis(t *testing.T) {
	coord, err := OpenCoordination(context.Background(), &config.Config{}, nil)
	require.NoError(t, err)
	assert.Nil(t, coord.Sessions)
	assert.IsType(t, &schedlock.Local{}, coord.Locker)
	assert.NoError(t, coord.Close())
}
