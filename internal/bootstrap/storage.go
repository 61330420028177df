// Package bootstrap opens the configured backing services for the binaries.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fastygo/planner/internal/config"
	"github.com/fastygo/planner/internal/infrastructure/boltdb"
	mongoInfra "github.com/fastygo/planner/internal/infrastructure/mongo"
	"github.com/fastygo/planner/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/planner/internal/infrastructure/postgres"
	"github.com/fastygo/planner/repository"
	boltRepo "github.com/fastygo/planner/repository/bolt"
	mongoRepo "github.com/fastygo/planner/repository/mongo"
	pgRepo "github.com/fastygo/planner/repository/postgres"
)

// Storage bundles the repositories of one storage driver.
type Storage struct {
	Driver string
	Users  repository.UserRepository
	Tasks  repository.TaskRepository
	Probe  monitor.Probe

	reset func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Reset wipes every user and task and recreates the schema.
func (s *Storage) Reset(ctx context.Context) error {
	return s.reset(ctx)
}

// Close releases the driver's connections or file handle.
func (s *Storage) Close(ctx context.Context) error {
	return s.close(ctx)
}

// OpenStorage connects the driver selected by cfg.Storage.Driver.
func OpenStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Storage, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Storage.Driver {
	case config.DriverMongo:
		return openMongo(ctx, cfg, logger)
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, logger)
	case config.DriverBolt:
		return openBolt(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func openMongo(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Storage, error) {
	client, db, err := mongoInfra.Connect(ctx, cfg.Mongo, logger)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	if err := mongoInfra.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb indexes: %w", err)
	}

	return &Storage{
		Driver: config.DriverMongo,
		Users:  mongoRepo.NewUserRepository(db),
		Tasks:  mongoRepo.NewTaskRepository(db),
		Probe:  monitor.MongoProbe(client),
		reset: func(ctx context.Context) error {
			return mongoInfra.Reset(ctx, db)
		},
		close: client.Disconnect,
	}, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Storage, error) {
	if err := pgInfra.RunMigrations(cfg, logger); err != nil {
		return nil, fmt.Errorf("postgres migrations: %w", err)
	}
	pool, err := pgInfra.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}

	return &Storage{
		Driver: config.DriverPostgres,
		Users:  pgRepo.NewUserRepository(pool),
		Tasks:  pgRepo.NewTaskRepository(pool),
		Probe:  monitor.PostgresProbe(pool),
		reset: func(context.Context) error {
			return pgInfra.Reset(cfg.Database)
		},
		close: func(context.Context) error {
			pool.Close()
			return nil
		},
	}, nil
}

func openBolt(cfg *config.Config, logger *zap.Logger) (*Storage, error) {
	store, err := boltdb.Open(cfg.Bolt.Path)
	if err != nil {
		return nil, fmt.Errorf("bolt open %s: %w", cfg.Bolt.Path, err)
	}
	logger.Info("opened bolt store", zap.String("path", cfg.Bolt.Path))

	return &Storage{
		Driver: config.DriverBolt,
		Users:  boltRepo.NewUserRepository(store),
		Tasks:  boltRepo.NewTaskRepository(store),
		Probe:  monitor.BoltProbe(store),
		reset: func(context.Context) error {
			return store.Reset()
		},
		close: func(context.Context) error {
			return store.Close()
		},
	}, nil
}
