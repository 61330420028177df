package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fastygo/planner/domain"
	mongoInfra "github.com/fastygo/planner/internal/infrastructure/mongo"
	"github.com/fastygo/planner/repository"
)

type taskDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	Title     string             `bson:"title"`
	Date      string             `bson:"date"`
	StartTime string             `bson:"start_time"`
	EndTime   string             `bson:"end_time"`
	Desc      string             `bson:"desc"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d taskDocument) toDomain() domain.Task {
	return domain.Task{
		ID:        d.ID.Hex(),
		UserID:    d.UserID,
		Title:     d.Title,
		Date:      d.Date,
		StartTime: d.StartTime,
		EndTime:   d.EndTime,
		Desc:      d.Desc,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type taskRepository struct {
	coll *mongodrv.Collection
}

// NewTaskRepository returns a MongoDB-backed TaskRepository.
func NewTaskRepository(db *mongodrv.Database) repository.TaskRepository {
	return &taskRepository{coll: db.Collection(mongoInfra.CollectionTasks)}
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	if filter.UserID == "" {
		return nil, domain.ErrUnauthorized
	}

	query := bson.M{"user_id": filter.UserID}
	if filter.Date != "" {
		query["date"] = filter.Date
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start_time", Value: 1}})

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tasks []domain.Task
	for cursor.Next(ctx) {
		var doc taskDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		tasks = append(tasks, doc.toDomain())
	}
	return tasks, cursor.Err()
}

func (r *taskRepository) GetByID(ctx context.Context, userID, id string) (*domain.Task, error) {
	oid, ok := objectID(id)
	if !ok || userID == "" {
		return nil, domain.ErrTaskNotFound
	}

	var doc taskDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid, "user_id": userID}).Decode(&doc); err != nil {
		if errors.Is(err, mongodrv.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	task := doc.toDomain()
	return &task, nil
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil || task.UserID == "" {
		return nil, domain.ErrInvalidPayload
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	task.CreatedAt = now
	task.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, taskDocument{
		UserID:    task.UserID,
		Title:     task.Title,
		Date:      task.Date,
		StartTime: task.StartTime,
		EndTime:   task.EndTime,
		Desc:      task.Desc,
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	})
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		task.ID = oid.Hex()
	}
	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	oid, ok := objectID(task.ID)
	if !ok || task.UserID == "" {
		return domain.ErrTaskNotFound
	}

	task.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "user_id": task.UserID},
		bson.M{"$set": bson.M{
			"title":      task.Title,
			"date":       task.Date,
			"start_time": task.StartTime,
			"end_time":   task.EndTime,
			"desc":       task.Desc,
			"updated_at": task.UpdatedAt,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, userID, id string) error {
	oid, ok := objectID(id)
	if !ok || userID == "" {
		return domain.ErrTaskNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount != 1 {
		return domain.ErrTaskNotFound
	}
	return nil
}
