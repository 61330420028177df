package bolt

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"
	bbolt "go.etcd.io/bbolt"

	"github.com/fastygo/planner/domain"
	"github.com/fastygo/planner/internal/infrastructure/boltdb"
	"github.com/fastygo/planner/repository"
)

// Tasks live in one nested bucket per owner under the tasks bucket, so a
// lookup can only ever reach the caller's own records.
type taskRepository struct {
	store *boltdb.Store
}

// NewTaskRepository returns a BoltDB-backed TaskRepository.
func NewTaskRepository(store *boltdb.Store) repository.TaskRepository {
	return &taskRepository{store: store}
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	if filter.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var tasks []domain.Task
	err := r.store.View(func(tx *bbolt.Tx) error {
		owner := userBucket(tx, filter.UserID)
		if owner == nil {
			return nil
		}
		return owner.ForEach(func(_, v []byte) error {
			var task domain.Task
			if err := json.Unmarshal(v, &task); err != nil {
				return err
			}
			if filter.Date != "" && task.Date != filter.Date {
				return nil
			}
			tasks = append(tasks, task)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Date != tasks[j].Date {
			return tasks[i].Date < tasks[j].Date
		}
		return tasks[i].StartTime < tasks[j].StartTime
	})
	return tasks, nil
}

func (r *taskRepository) GetByID(ctx context.Context, userID, id string) (*domain.Task, error) {
	if !validID(id) || userID == "" {
		return nil, domain.ErrTaskNotFound
	}
	var task *domain.Task
	err := r.store.View(func(tx *bbolt.Tx) error {
		owner := userBucket(tx, userID)
		if owner == nil {
			return domain.ErrTaskNotFound
		}
		raw := owner.Get([]byte(id))
		if raw == nil {
			return domain.ErrTaskNotFound
		}
		task = &domain.Task{}
		return json.Unmarshal(raw, task)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil || task.UserID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	task.ID = ulid.Make().String()
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	payload, err := json.Marshal(task)
	if err != nil {
		return nil, err
	}

	err = r.store.Update(func(tx *bbolt.Tx) error {
		owner, err := tx.Bucket([]byte(boltdb.BucketTasks)).CreateBucketIfNotExists([]byte(task.UserID))
		if err != nil {
			return err
		}
		return owner.Put([]byte(task.ID), payload)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	if !validID(task.ID) || task.UserID == "" {
		return domain.ErrTaskNotFound
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.store.Update(func(tx *bbolt.Tx) error {
		owner := userBucket(tx, task.UserID)
		if owner == nil {
			return domain.ErrTaskNotFound
		}
		raw := owner.Get([]byte(task.ID))
		if raw == nil {
			return domain.ErrTaskNotFound
		}
		var stored domain.Task
		if err := json.Unmarshal(raw, &stored); err != nil {
			return err
		}

		task.CreatedAt = stored.CreatedAt
		task.UpdatedAt = time.Now().UTC()

		payload, err := json.Marshal(task)
		if err != nil {
			return err
		}
		return owner.Put([]byte(task.ID), payload)
	})
}

func (r *taskRepository) Delete(ctx context.Context, userID, id string) error {
	if !validID(id) || userID == "" {
		return domain.ErrTaskNotFound
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.store.Update(func(tx *bbolt.Tx) error {
		owner := userBucket(tx, userID)
		if owner == nil || owner.Get([]byte(id)) == nil {
			return domain.ErrTaskNotFound
		}
		return owner.Delete([]byte(id))
	})
}

func userBucket(tx *bbolt.Tx, userID string) *bbolt.Bucket {
	return tx.Bucket([]byte(boltdb.BucketTasks)).Bucket([]byte(userID))
}

func validID(id string) bool {
	_, err := ulid.ParseStrict(id)
	return err == nil
}
