package bolt

import (
	"context"
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"
	bbolt "go.etcd.io/bbolt"

	"github.com/fastygo/planner/domain"
	"github.com/fastygo/planner/internal/infrastructure/boltdb"
	"github.com/fastygo/planner/repository"
)

type userRepository struct {
	store *boltdb.Store
}

// NewUserRepository returns a BoltDB-backed UserRepository.
func NewUserRepository(store *boltdb.Store) repository.UserRepository {
	return &userRepository{store: store}
}

type userRecord struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.store.Update(func(tx *bbolt.Tx) error {
		byEmail := tx.Bucket([]byte(boltdb.BucketUsersByEmail))
		byUsername := tx.Bucket([]byte(boltdb.BucketUsersByUsername))

		if byEmail.Get([]byte(user.Email)) != nil {
			return domain.ErrEmailTaken
		}
		if byUsername.Get([]byte(user.Username)) != nil {
			return domain.ErrUsernameTaken
		}

		user.ID = ulid.Make().String()
		if user.CreatedAt.IsZero() {
			user.CreatedAt = time.Now().UTC()
		}

		payload, err := json.Marshal(userRecord{
			ID:           user.ID,
			Username:     user.Username,
			Email:        user.Email,
			PasswordHash: user.PasswordHash,
			CreatedAt:    user.CreatedAt,
		})
		if err != nil {
			return err
		}

		id := []byte(user.ID)
		if err := tx.Bucket([]byte(boltdb.BucketUsers)).Put(id, payload); err != nil {
			return err
		}
		if err := byEmail.Put([]byte(user.Email), id); err != nil {
			return err
		}
		return byUsername.Put([]byte(user.Username), id)
	})
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if _, err := ulid.ParseStrict(id); err != nil {
		return nil, domain.ErrUserNotFound
	}
	var user *domain.User
	err := r.store.View(func(tx *bbolt.Tx) error {
		var err error
		user, err = loadUser(tx, []byte(id))
		return err
	})
	return user, err
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getByIndex(boltdb.BucketUsersByEmail, email)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getByIndex(boltdb.BucketUsersByUsername, username)
}

func (r *userRepository) getByIndex(bucket, key string) (*domain.User, error) {
	if key == "" {
		return nil, domain.ErrUserNotFound
	}
	var user *domain.User
	err := r.store.View(func(tx *bbolt.Tx) error {
		id := tx.Bucket([]byte(bucket)).Get([]byte(key))
		if id == nil {
			return domain.ErrUserNotFound
		}
		var err error
		user, err = loadUser(tx, id)
		return err
	})
	return user, err
}

func loadUser(tx *bbolt.Tx, id []byte) (*domain.User, error) {
	raw := tx.Bucket([]byte(boltdb.BucketUsers)).Get(id)
	if raw == nil {
		return nil, domain.ErrUserNotFound
	}
	var rec userRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return &domain.User{
		ID:           rec.ID,
		Username:     rec.Username,
		Email:        rec.Email,
		PasswordHash: rec.PasswordHash,
		CreatedAt:    rec.CreatedAt,
	}, nil
}
