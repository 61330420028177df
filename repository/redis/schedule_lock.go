package redis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fastygo/planner/repository"
)

// ErrLockTimeout is returned when the schedule stays locked past the wait budget.
var ErrLockTimeout = errors.New("schedule lock wait exceeded")

// Deletes the key only while it still holds our token.
var releaseScript = redislib.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ScheduleLocker serializes conflict-check-then-write sequences across
// server instances with a SET NX lease per (user, date).
type ScheduleLocker struct {
	client *redislib.Client
	prefix string
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
	logger *zap.Logger
}

// NewScheduleLocker builds a locker. ttl bounds how long a crashed holder can
// block others; wait bounds how long Lock blocks.
func NewScheduleLocker(client *redislib.Client, ttl, wait time.Duration, logger *zap.Logger) *ScheduleLocker {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	if wait <= 0 {
		wait = 3 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleLocker{
		client: client,
		prefix: "schedule-lock:",
		ttl:    ttl,
		wait:   wait,
		retry:  25 * time.Millisecond,
		logger: logger,
	}
}

func (l *ScheduleLocker) Lock(ctx context.Context, userID, date string) (func(), error) {
	key := l.prefix + userID + ":" + date
	token := uuid.NewString()

	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	for {
		ok, err := l.client.SetNX(waitCtx, key, token, l.ttl).Result()
		if err != nil {
			if waitCtx.Err() != nil && ctx.Err() == nil {
				return nil, ErrLockTimeout
			}
			return nil, err
		}
		if ok {
			return l.releaser(key, token), nil
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, ErrLockTimeout
		case <-time.After(l.retry):
		}
	}
}

func (l *ScheduleLocker) releaser(key, token string) func() {
	return func() {
		// The request context may already be cancelled; release regardless.
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
			l.logger.Warn("schedule lock release failed", zap.String("key", key), zap.Error(err))
		}
	}
}

var _ repository.ScheduleLocker = (*ScheduleLocker)(nil)
