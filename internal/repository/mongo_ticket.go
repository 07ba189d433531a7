package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/travelmate/admin-console/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoTicketRepository implements domain.TicketRepository over help_requests
type MongoTicketRepository struct {
	collection *mongo.Collection
}

func NewMongoTicketRepository(db *mongo.Database) *MongoTicketRepository {
	return &MongoTicketRepository{
		collection: db.Collection("help_requests"),
	}
}

func (r *MongoTicketRepository) List(ctx context.Context) ([]*domain.SupportTicket, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, newestFirst)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer cursor.Close(ctx)

	tickets := []*domain.SupportTicket{}
	if err := cursor.All(ctx, &tickets); err != nil {
		return nil, fmt.Errorf("failed to decode tickets: %w", err)
	}
	return tickets, nil
}

func (r *MongoTicketRepository) UpdateStatus(ctx context.Context, id string, status string) (*domain.SupportTicket, error) {
	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now().UTC(),
		},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var ticket domain.SupportTicket
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&ticket); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update ticket status: %w", err)
	}
	return &ticket, nil
}

func (r *MongoTicketRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.collection, id)
}

func (r *MongoTicketRepository) Count(ctx context.Context, filter map[string]interface{}) (int64, error) {
	return countWhere(ctx, r.collection, filter)
}
