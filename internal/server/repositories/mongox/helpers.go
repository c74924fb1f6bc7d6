// Package mongox holds the small generic helpers shared by the MongoDB
// repositories: error translation and typed find wrappers.
package mongox

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/coursehub/internal/common"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// WrapError maps driver errors onto the repository sentinels.
func WrapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return common.ErrorNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", common.ErrorDuplicate, err)
	default:
		return fmt.Errorf("db error: %w", err)
	}
}

// FindOne decodes the first document matching filter.
func FindOne[T any](ctx context.Context, col *mongo.Collection, filter bson.D) (*T, error) {
	var result T
	if err := col.FindOne(ctx, filter).Decode(&result); err != nil {
		return nil, WrapError(err)
	}
	return &result, nil
}

// FindMany decodes every document matching filter. It never returns a nil
// slice on success.
func FindMany[T any](ctx context.Context, col *mongo.Collection, filter bson.D, opts ...options.Lister[options.FindOptions]) ([]T, error) {
	cursor, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, WrapError(err)
	}
	defer cursor.Close(ctx)

	results := []T{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, WrapError(err)
	}
	return results, nil
}
