package mongo

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodrv "go.mongodb.org/mongo-driver/mongo"

	mongoInfra "github.com/fastygo/planner/internal/infrastructure/mongo"
)

// objectID converts the wire form of an id. Malformed ids report ok=false and
// callers translate that into not-found.
func objectID(hex string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// duplicateKeyField returns the index field named in a duplicate key error.
func duplicateKeyField(err error) (string, bool) {
	if !mongodrv.IsDuplicateKeyError(err) {
		return "", false
	}
	var we mongodrv.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			switch {
			case strings.Contains(e.Message, mongoInfra.IndexUniqueEmail):
				return "email", true
			case strings.Contains(e.Message, mongoInfra.IndexUniqueUsername):
				return "username", true
			}
		}
	}
	return "", true
}
