//go:build integration

package mongo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/planner/domain"
	"github.com/fastygo/planner/internal/config"
	mongoInfra "github.com/fastygo/planner/internal/infrastructure/mongo"
	"github.com/fastygo/planner/repository"
)

func newTestEnv(t *testing.T) (context.Context, repository.UserRepository, repository.TaskRepository) {
	t.Helper()
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	client, db, err := mongoInfra.Connect(ctx, config.MongoConfig{
		URI:      uri,
		Database: "planner_test_" + uuid.NewString()[:8],
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	require.NoError(t, mongoInfra.EnsureIndexes(ctx, db))

	return ctx, NewUserRepository(db), NewTaskRepository(db)
}

func TestIntegrationMongo_Users(t *testing.T) {
	ctx, users, _ := newTestEnv(t)

	user := &domain.User{Username: "alice", Email: "alice@example.com", PasswordHash: "h"}
	require.NoError(t, users.Create(ctx, user))
	assert.Len(t, user.ID, 24)

	got, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)

	assert.ErrorIs(t, users.Create(ctx, &domain.User{Username: "x", Email: "alice@example.com"}), domain.ErrEmailTaken)
	assert.ErrorIs(t, users.Create(ctx, &domain.User{Username: "alice", Email: "y@example.com"}), domain.ErrUsernameTaken)

	_, err = users.GetByID(ctx, "zzz")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestIntegrationMongo_Tasks(t *testing.T) {
	ctx, _, tasks := newTestEnv(t)

	late, err := tasks.Create(ctx, &domain.Task{UserID: "u1", Title: "late", Date: "2025-12-27", StartTime: "15:00", EndTime: "16:00"})
	require.NoError(t, err)
	_, err = tasks.Create(ctx, &domain.Task{UserID: "u1", Title: "early", Date: "2025-12-27", StartTime: "08:00", EndTime: "09:00"})
	require.NoError(t, err)

	list, err := tasks.List(ctx, repository.TaskFilter{UserID: "u1", Date: "2025-12-27"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "early", list[0].Title)

	_, err = tasks.GetByID(ctx, "u2", late.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	late.Desc = "moved"
	require.NoError(t, tasks.Update(ctx, late))
	got, err := tasks.GetByID(ctx, "u1", late.ID)
	require.NoError(t, err)
	assert.Equal(t, "moved", got.Desc)

	require.NoError(t, tasks.Delete(ctx, "u1", late.ID))
	assert.ErrorIs(t, tasks.Delete(ctx, "u1", late.ID), domain.ErrTaskNotFound)
}
