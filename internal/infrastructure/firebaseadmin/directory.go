// Package firebaseadmin reads and creates console operators through the
// Firebase Auth admin API. Admins are accounts carrying the custom claim
// role=admin.
package firebaseadmin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/travelmate/admin-console/internal/domain"
	"google.golang.org/api/iterator"
)

// UserAdmin is the subset of *auth.Client the directory needs
type UserAdmin interface {
	Users(ctx context.Context, nextPageToken string) *auth.UserIterator
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	SetCustomUserClaims(ctx context.Context, uid string, customClaims map[string]interface{}) error
}

// Directory implements domain.AdminDirectory
type Directory struct {
	client UserAdmin
}

// NewDirectory creates a directory over the Firebase Auth admin client
func NewDirectory(client UserAdmin) *Directory {
	return &Directory{client: client}
}

// ListAdmins walks every account and keeps those with the admin role claim
func (d *Directory) ListAdmins(ctx context.Context) ([]domain.AdminUser, error) {
	admins := []domain.AdminUser{}

	iter := d.client.Users(ctx, "")
	for {
		record, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list firebase users: %w", err)
		}
		if record == nil || record.UserRecord == nil || !IsAdminRecord(record.UserRecord) {
			continue
		}
		admins = append(admins, ToAdminUser(record.UserRecord))
	}

	return admins, nil
}

// CreateAdmin creates a verified account and grants it the admin claim
func (d *Directory) CreateAdmin(ctx context.Context, email, password string) (*domain.AdminUser, error) {
	params := (&auth.UserToCreate{}).
		Email(strings.TrimSpace(email)).
		Password(password).
		EmailVerified(true)

	record, err := d.client.CreateUser(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create firebase user: %w", err)
	}

	claims := map[string]interface{}{"role": domain.RoleAdmin}
	if err := d.client.SetCustomUserClaims(ctx, record.UID, claims); err != nil {
		return nil, fmt.Errorf("failed to grant admin role to %s: %w", record.UID, err)
	}
	record.CustomClaims = claims

	admin := ToAdminUser(record)
	return &admin, nil
}

// IsAdminRecord reports whether the account carries role=admin
func IsAdminRecord(record *auth.UserRecord) bool {
	role, _ := record.CustomClaims["role"].(string)
	return role == domain.RoleAdmin
}

// ToAdminUser maps a Firebase account to the console representation.
// Firebase keeps no verification timestamp, so a verified account reports its
// creation time as EmailConfirmedAt.
func ToAdminUser(record *auth.UserRecord) domain.AdminUser {
	admin := domain.AdminUser{
		ID:   record.UID,
		Role: domain.RoleAdmin,
	}
	if record.UserInfo != nil {
		admin.Email = record.Email
	}

	if md := record.UserMetadata; md != nil {
		if md.CreationTimestamp > 0 {
			admin.CreatedAt = time.UnixMilli(md.CreationTimestamp).UTC()
		}
		if md.LastLogInTimestamp > 0 {
			last := time.UnixMilli(md.LastLogInTimestamp).UTC()
			admin.LastSignInAt = &last
		}
	}
	if record.EmailVerified && !admin.CreatedAt.IsZero() {
		confirmed := admin.CreatedAt
		admin.EmailConfirmedAt = &confirmed
	}

	return admin
}
