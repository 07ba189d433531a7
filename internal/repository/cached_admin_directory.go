package repository

import (
	"context"
	"time"

	"github.com/travelmate/admin-console/internal/domain"
)

const adminListKey = "admin:list"

// CachedAdminDirectory wraps a remote admin directory with a short-lived Redis copy
type CachedAdminDirectory struct {
	remote domain.AdminDirectory
	cache  *RedisCacheRepository
	ttl    time.Duration
}

// NewCachedAdminDirectory creates a cached admin directory
func NewCachedAdminDirectory(remote domain.AdminDirectory, cache *RedisCacheRepository, ttl time.Duration) *CachedAdminDirectory {
	return &CachedAdminDirectory{
		remote: remote,
		cache:  cache,
		ttl:    ttl,
	}
}

// ListAdmins returns the cached list when present, otherwise asks the remote
func (d *CachedAdminDirectory) ListAdmins(ctx context.Context) ([]domain.AdminUser, error) {
	var admins []domain.AdminUser
	if err := d.cache.Get(ctx, adminListKey, &admins); err == nil {
		return admins, nil
	}

	admins, err := d.remote.ListAdmins(ctx)
	if err != nil {
		return nil, err
	}

	// Store in cache (ignore cache errors)
	_ = d.cache.Set(ctx, adminListKey, admins, d.ttl)

	return admins, nil
}

// CreateAdmin creates the account remotely and drops the cached list
func (d *CachedAdminDirectory) CreateAdmin(ctx context.Context, email, password string) (*domain.AdminUser, error) {
	admin, err := d.remote.CreateAdmin(ctx, email, password)
	if err != nil {
		return nil, err
	}

	_ = d.cache.Delete(ctx, adminListKey)

	return admin, nil
}
