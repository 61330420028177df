package repository

import (
	"context"

	"github.com/fastygo/planner/domain"
)

// SessionRepository tracks live sessions so issued tokens can be revoked.
type SessionRepository interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id string) error
}

// ScheduleLocker serializes schedule mutations of one user on one date.
// The returned release func must be called exactly once.
type ScheduleLocker interface {
	Lock(ctx context.Context, userID, date string) (release func(), err error)
}
