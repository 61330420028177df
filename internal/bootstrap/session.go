package bootstrap

import (
	"context"
	"fmt"

	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fastygo/planner/internal/config"
	redisInfra "github.com/fastygo/planner/internal/infrastructure/redis"
	"github.com/fastygo/planner/internal/schedlock"
	"github.com/fastygo/planner/repository"
	redisRepo "github.com/fastygo/planner/repository/redis"
)

// Coordination holds the session registry and schedule locker. With Redis
// disabled Sessions is nil and Locker is in-process.
type Coordination struct {
	Client   *redislib.Client
	Sessions repository.SessionRepository
	Locker   repository.ScheduleLocker
}

// OpenCoordination connects Redis when enabled.
func OpenCoordination(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Coordination, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Redis.Enabled {
		logger.Info("redis disabled, using in-process schedule locks")
		return &Coordination{Locker: schedlock.NewLocal()}, nil
	}

	client, err := redisInfra.NewClient(ctx, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("redis connect: %w", err)
	}
	return &Coordination{
		Client:   client,
		Sessions: redisRepo.NewSessionRepository(client, cfg.JWT.TTL),
		Locker:   redisRepo.NewScheduleLocker(client, cfg.Schedule.LockTTL, cfg.Schedule.LockWait, logger),
	}, nil
}

// Close is a no-op without Redis.
func (c *Coordination) Close() error {
	if c.Client == nil {
		return nil
	}
	return c.Client.Close()
}
