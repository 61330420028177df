package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Unique index names, also used to tell which key a duplicate error hit.
const (
	IndexUniqueEmail    = "uniq_email"
	IndexUniqueUsername = "uniq_username"
)

// EnsureIndexes creates the uniqueness and lookup indexes the repositories
// depend on. It is idempotent.
func EnsureIndexes(ctx context.Context, db *mongodrv.Database) error {
	users := db.Collection(CollectionUsers)
	if _, err := users.Indexes().CreateMany(ctx, []mongodrv.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName(IndexUniqueEmail)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true).SetName(IndexUniqueUsername)},
	}); err != nil {
		return err
	}

	tasks := db.Collection(CollectionTasks)
	_, err := tasks.Indexes().CreateMany(ctx, []mongodrv.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: 1}, {Key: "start_time", Value: 1}}, Options: options.Index().SetName("user_date_start")},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}, Options: options.Index().SetName("user_created")},
	})
	return err
}

// Reset drops both collections and recreates their indexes.
func Reset(ctx context.Context, db *mongodrv.Database) error {
	for _, name := range []string{CollectionTasks, CollectionUsers} {
		if err := db.Collection(name).Drop(ctx); err != nil {
			return err
		}
	}
	return EnsureIndexes(ctx, db)
}
