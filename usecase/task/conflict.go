package task

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/planner/domain"
	"github.com/fastygo/planner/pkg/logger"
	"github.com/fastygo/planner/repository"
)

// ConflictChecker finds a task of the same owner on the same date whose
// range overlaps a proposed one.
type ConflictChecker struct {
	tasks      repository.TaskRepository
	failClosed bool
	logger     *zap.Logger
}

// NewConflictChecker builds a checker. With failClosed unset, a storage fault
// during the lookup is logged and treated as "no conflict".
func NewConflictChecker(tasks repository.TaskRepository, failClosed bool, logger *zap.Logger) *ConflictChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConflictChecker{tasks: tasks, failClosed: failClosed, logger: logger}
}

// FindConflict returns the first overlapping task in start-time order, or nil.
// excludeID skips the task being updated.
func (c *ConflictChecker) FindConflict(ctx context.Context, userID, date string, proposed domain.TimeRange, excludeID string) (*domain.Task, error) {
	sameDay, err := c.tasks.List(ctx, repository.TaskFilter{UserID: userID, Date: date})
	if err != nil {
		if c.failClosed {
			return nil, domain.WrapError(domain.ErrCodeInternal, "failed to check schedule", err)
		}
		logger.WithRequestID(ctx, c.logger).Warn("conflict check skipped",
			zap.String("user_id", userID),
			zap.String("date", date),
			zap.Error(err),
		)
		return nil, nil
	}

	for i := range sameDay {
		existing := &sameDay[i]
		if excludeID != "" && existing.ID == excludeID {
			continue
		}
		if existing.Range().Overlaps(proposed) {
			return existing, nil
		}
	}
	return nil, nil
}
