package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travelmate/admin-console/internal/domain"
)

func newTestCache(t *testing.T) (*RedisCacheRepository, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return NewRedisCacheRepository(redis.NewClient(&redis.Options{Addr: mr.Addr()})), mr
}

func TestRedisCacheRepository_GetSetDelete(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	var out map[string]int
	assert.ErrorIs(t, cache.Get(ctx, "k", &out), ErrCacheMiss)

	require.NoError(t, cache.Set(ctx, "k", map[string]int{"a": 1}, time.Minute))
	require.NoError(t, cache.Get(ctx, "k", &out))
	assert.Equal(t, 1, out["a"])

	mr.FastForward(2 * time.Minute)
	assert.ErrorIs(t, cache.Get(ctx, "k", &out), ErrCacheMiss)

	require.NoError(t, cache.Set(ctx, "k", 1, time.Minute))
	require.NoError(t, cache.Delete(ctx, "k"))
	assert.False(t, mr.Exists("k"))
	assert.NoError(t, cache.Delete(ctx))
}

type stubDirectory struct {
	calls   int
	admins  []domain.AdminUser
	err     error
	created []string
}

func (s *stubDirectory) ListAdmins(ctx context.Context) ([]domain.AdminUser, error) {
	s.calls++
	return s.admins, s.err
}

func (s *stubDirectory) CreateAdmin(ctx context.Context, email, password string) (*domain.AdminUser, error) {
	s.created = append(s.created, email)
	return &domain.AdminUser{ID: "new", Email: email, Role: domain.RoleAdmin}, nil
}

func TestCachedAdminDirectory(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	remote := &stubDirectory{admins: []domain.AdminUser{{ID: "a1", Email: "admin@travelmate.com", Role: domain.RoleAdmin}}}
	dir := NewCachedAdminDirectory(remote, cache, time.Minute)

	first, err := dir.ListAdmins(ctx)
	require.NoError(t, err)
	second, err := dir.ListAdmins(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, remote.calls, "second read served from cache")

	_, err = dir.CreateAdmin(ctx, "ops@travelmate.com", "Str0ng!pass")
	require.NoError(t, err)
	_, err = dir.ListAdmins(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, remote.calls, "create invalidates the cached list")
}

func TestCachedAdminDirectory_RemoteErrorNotCached(t *testing.T) {
	cache, mr := newTestCache(t)
	remote := &stubDirectory{err: errors.New("permission denied")}
	dir := NewCachedAdminDirectory(remote, cache, time.Minute)

	_, err := dir.ListAdmins(context.Background())
	assert.Error(t, err)
	assert.False(t, mr.Exists(adminListKey))
}
