package monitor

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redislib "github.com/redis/go-redis/v9"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/fastygo/planner/internal/infrastructure/boltdb"
)

func MongoProbe(client *mongodrv.Client) Probe {
	return Probe{
		Name: "mongodb",
		Check: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
	}
}

func PostgresProbe(pool *pgxpool.Pool) Probe {
	return Probe{
		Name:  "postgresql",
		Check: pool.Ping,
	}
}

func BoltProbe(store *boltdb.Store) Probe {
	return Probe{
		Name: "bolt",
		Check: func(context.Context) error {
			return store.Ping()
		},
	}
}

func RedisProbe(client *redislib.Client) Probe {
	return Probe{
		Name:    "redis",
		Timeout: 2 * time.Second,
		Check: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
	}
}
