package repository

import (
	"context"

	"github.com/fastygo/planner/domain"
)

// TaskFilter selects a user's tasks, optionally restricted to one date.
type TaskFilter struct {
	UserID string
	Date   string
}

// TaskRepository stores user-scoped tasks. Every lookup is keyed by the
// owner as well as the task id; a malformed id, a foreign owner and a missing
// record all yield domain.ErrTaskNotFound.
type TaskRepository interface {
	// List returns tasks ordered by date then start time.
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	GetByID(ctx context.Context, userID, id string) (*domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, userID, id string) error
}
