package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/travelmate/admin-console/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPackageRepository implements domain.PackageRepository
type MongoPackageRepository struct {
	collection *mongo.Collection
}

// NewMongoPackageRepository creates a new package repository
func NewMongoPackageRepository(db *mongo.Database) *MongoPackageRepository {
	return &MongoPackageRepository{
		collection: db.Collection("packages"),
	}
}

func (r *MongoPackageRepository) List(ctx context.Context) ([]*domain.Package, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, newestFirst)
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	defer cursor.Close(ctx)

	packages := []*domain.Package{}
	if err := cursor.All(ctx, &packages); err != nil {
		return nil, fmt.Errorf("failed to decode packages: %w", err)
	}
	return packages, nil
}

func (r *MongoPackageRepository) GetByID(ctx context.Context, id string) (*domain.Package, error) {
	var pkg domain.Package
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&pkg); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get package: %w", err)
	}
	return &pkg, nil
}

// Create inserts the draft fields only; id and timestamps are assigned here
func (r *MongoPackageRepository) Create(ctx context.Context, draft *domain.PackageDraft) (*domain.Package, error) {
	now := time.Now().UTC()
	id := ulid.Make().String()

	doc := bson.M{
		"_id":               id,
		"title":             draft.Title,
		"price":             draft.Price,
		"short_description": draft.ShortDescription,
		"destination":       draft.Destination,
		"status":            draft.Status,
		"images":            draft.Images,
		"itinerary":         draft.Itinerary,
		"inclusions":        draft.Inclusions,
		"exclusions":        draft.Exclusions,
		"created_at":        now,
		"updated_at":        now,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create package: %w", err)
	}

	// Read back so the caller holds exactly what was stored
	return r.GetByID(ctx, id)
}

// Update applies the set fields of patch and returns the stored row
func (r *MongoPackageRepository) Update(ctx context.Context, id string, patch *domain.PackagePatch) (*domain.Package, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.ShortDescription != nil {
		set["short_description"] = *patch.ShortDescription
	}
	if patch.Destination != nil {
		set["destination"] = *patch.Destination
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.Images != nil {
		set["images"] = *patch.Images
	}
	if patch.Itinerary != nil {
		set["itinerary"] = *patch.Itinerary
	}
	if patch.Inclusions != nil {
		set["inclusions"] = *patch.Inclusions
	}
	if patch.Exclusions != nil {
		set["exclusions"] = *patch.Exclusions
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var pkg domain.Package
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&pkg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update package: %w", err)
	}
	return &pkg, nil
}

func (r *MongoPackageRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.collection, id)
}

func (r *MongoPackageRepository) Count(ctx context.Context, filter map[string]interface{}) (int64, error) {
	return countWhere(ctx, r.collection, filter)
}
