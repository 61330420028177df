package repository

import (
	"context"

	"github.com/fastygo/planner/domain"
)

// UserRepository persists credentials. Create must fail with
// domain.ErrEmailTaken or domain.ErrUsernameTaken on uniqueness violations.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}
