package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/travelmate/admin-console/internal/domain"
)

// AdminDirectoryService lists console operators and never returns an empty list.
// The remote lookup may be absent (no admin credentials) or fail; it then falls
// back to the configured fixture set, and finally to the signed-in admin alone.
type AdminDirectoryService struct {
	remote        domain.AdminDirectory
	fixtureEmails []string
	now           func() time.Time
}

// NewAdminDirectoryService creates the service. remote may be nil.
func NewAdminDirectoryService(remote domain.AdminDirectory, fixtureEmails []string, now func() time.Time) *AdminDirectoryService {
	if now == nil {
		now = time.Now
	}
	return &AdminDirectoryService{
		remote:        remote,
		fixtureEmails: fixtureEmails,
		now:           now,
	}
}

// List returns the admin users as seen by current
func (s *AdminDirectoryService) List(ctx context.Context, current domain.Identity) (admins []domain.AdminUser) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[AdminDirectory] lookup panicked, using current admin only: %v", r)
			admins = []domain.AdminUser{domain.CurrentAdminFixture(current, s.now())}
		}
	}()

	if s.remote != nil {
		remote, err := s.remote.ListAdmins(ctx)
		if err == nil && len(remote) > 0 {
			return remote
		}
		if err != nil {
			log.Printf("[AdminDirectory] remote lookup failed, using fixtures: %v", err)
		}
	}

	if fixtures := domain.FixtureAdminUsers(s.fixtureEmails, s.now()); len(fixtures) > 0 {
		return fixtures
	}

	return []domain.AdminUser{domain.CurrentAdminFixture(current, s.now())}
}

// Create validates and creates a new admin account. It fails when no remote
// directory is configured.
func (s *AdminDirectoryService) Create(ctx context.Context, email, password, confirmPassword string) (*domain.AdminUser, error) {
	if err := domain.ValidateNewAdmin(email, password, confirmPassword); err != nil {
		return nil, err
	}
	if s.remote == nil {
		return nil, fmt.Errorf("admin directory unavailable: %w", domain.ErrForbidden)
	}

	admin, err := s.remote.CreateAdmin(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	log.Printf("[AdminDirectory] created admin %s", admin.Email)
	return admin, nil
}
