package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RedisSessionRevocationStore keeps the last sign-out instant per admin.
// Entries expire once every token they could revoke has expired anyway.
type RedisSessionRevocationStore struct {
	client *redis.Client
}

// NewRedisSessionRevocationStore creates a new revocation store
func NewRedisSessionRevocationStore(client *redis.Client) *RedisSessionRevocationStore {
	return &RedisSessionRevocationStore{client: client}
}

func signedOutKey(userID string) string {
	return "session:signed_out:" + userID
}

// RevokeSessions records a sign-out for userID at the given instant
func (s *RedisSessionRevocationStore) RevokeSessions(ctx context.Context, userID string, at time.Time, ttl time.Duration) error {
	ctx, span := otel.Tracer("redis").Start(ctx, "redis.RevokeSessions",
		trace.WithAttributes(attribute.String("admin.id", userID)),
	)
	defer span.End()

	if err := s.client.Set(ctx, signedOutKey(userID), at.UnixMilli(), ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to record sign-out: %w", err)
	}
	return nil
}

// SignedOutAt returns the last recorded sign-out, or the zero time
func (s *RedisSessionRevocationStore) SignedOutAt(ctx context.Context, userID string) (time.Time, error) {
	ctx, span := otel.Tracer("redis").Start(ctx, "redis.SignedOutAt",
		trace.WithAttributes(attribute.String("admin.id", userID)),
	)
	defer span.End()

	raw, err := s.client.Get(ctx, signedOutKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, nil
	}
	if err != nil {
		span.RecordError(err)
		return time.Time{}, fmt.Errorf("failed to read sign-out: %w", err)
	}

	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("corrupt sign-out entry for %s: %w", userID, err)
	}
	return time.UnixMilli(ms), nil
}
