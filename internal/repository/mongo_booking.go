package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/travelmate/admin-console/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoBookingRepository implements domain.BookingRepository.
// Reads join the customer's name from profiles and the title from packages.
type MongoBookingRepository struct {
	collection *mongo.Collection
}

// NewMongoBookingRepository creates a new booking repository
func NewMongoBookingRepository(db *mongo.Database) *MongoBookingRepository {
	return &MongoBookingRepository{
		collection: db.Collection("bookings"),
	}
}

// joinStages inline profiles.full_name and packages.title. Missing rows leave
// the fields empty; ApplyJoinFallbacks substitutes the display placeholders.
func joinStages() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         "profiles",
			"localField":   "user_id",
			"foreignField": "_id",
			"as":           "profile",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "packages",
			"localField":   "package_id",
			"foreignField": "_id",
			"as":           "package",
		}}},
		{{Key: "$addFields", Value: bson.M{
			"user_name":     bson.M{"$ifNull": bson.A{bson.M{"$arrayElemAt": bson.A{"$profile.full_name", 0}}, ""}},
			"package_title": bson.M{"$ifNull": bson.A{bson.M{"$arrayElemAt": bson.A{"$package.title", 0}}, ""}},
		}}},
		{{Key: "$project", Value: bson.M{"profile": 0, "package": 0}}},
	}
}

func (r *MongoBookingRepository) aggregate(ctx context.Context, head ...bson.D) ([]*domain.Booking, error) {
	pipeline := append(mongo.Pipeline{}, head...)
	pipeline = append(pipeline, joinStages()...)

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	bookings := []*domain.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	for _, b := range bookings {
		b.ApplyJoinFallbacks()
	}
	return bookings, nil
}

func (r *MongoBookingRepository) List(ctx context.Context) ([]*domain.Booking, error) {
	bookings, err := r.aggregate(ctx, bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}})
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// UpdateStatus touches only status and updated_at, then re-reads the joined row
func (r *MongoBookingRepository) UpdateStatus(ctx context.Context, id string, status string) (*domain.Booking, error) {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now().UTC(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, domain.ErrNotFound
	}

	bookings, err := r.aggregate(ctx, bson.D{{Key: "$match", Value: bson.M{"_id": id}}})
	if err != nil {
		return nil, fmt.Errorf("failed to read updated booking: %w", err)
	}
	if len(bookings) == 0 {
		return nil, domain.ErrNotFound
	}
	return bookings[0], nil
}

func (r *MongoBookingRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.collection, id)
}

func (r *MongoBookingRepository) Count(ctx context.Context, filter map[string]interface{}) (int64, error) {
	return countWhere(ctx, r.collection, filter)
}
