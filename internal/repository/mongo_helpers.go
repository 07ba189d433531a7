package repository

import (
	"context"
	"fmt"

	"github.com/travelmate/admin-console/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// newestFirst is the listing order every collection is read in
var newestFirst = options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

// deleteByID removes one document and reports ErrNotFound when nothing matched
func deleteByID(ctx context.Context, coll *mongo.Collection, id string) error {
	result, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", coll.Name(), err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// countWhere counts documents matching a plain equality filter. A nil filter counts everything.
func countWhere(ctx context.Context, coll *mongo.Collection, filter map[string]interface{}) (int64, error) {
	query := bson.M{}
	for k, v := range filter {
		query[k] = v
	}
	n, err := coll.CountDocuments(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", coll.Name(), err)
	}
	return n, nil
}
