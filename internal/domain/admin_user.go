package domain

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// RoleAdmin is the role claim that grants access to the console
const RoleAdmin = "admin"

// MinAdminPasswordLength is the shortest password accepted for a new admin
const MinAdminPasswordLength = 8

// AdminUser is an operator account as reported by the privileged lookup
type AdminUser struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	CreatedAt        time.Time  `json:"created_at"`
	LastSignInAt     *time.Time `json:"last_sign_in_at,omitempty"`
	EmailConfirmedAt *time.Time `json:"email_confirmed_at,omitempty"`
	Role             string     `json:"role"`
}

// AdminDirectory is the privileged lookup over operator accounts.
// Implementations may be unavailable when the server lacks admin credentials.
type AdminDirectory interface {
	ListAdmins(ctx context.Context) ([]AdminUser, error)
	CreateAdmin(ctx context.Context, email, password string) (*AdminUser, error)
}

var fixtureEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// FixtureAdminUsers builds the placeholder set served when the directory is unreachable
func FixtureAdminUsers(emails []string, now time.Time) []AdminUser {
	users := make([]AdminUser, 0, len(emails))
	for _, email := range emails {
		email = strings.TrimSpace(email)
		if email == "" {
			continue
		}
		lastSignIn := now
		confirmed := fixtureEpoch
		users = append(users, AdminUser{
			ID:               fmt.Sprintf("admin-%d", len(users)+1),
			Email:            email,
			CreatedAt:        fixtureEpoch,
			LastSignInAt:     &lastSignIn,
			EmailConfirmedAt: &confirmed,
			Role:             RoleAdmin,
		})
	}
	return users
}

// CurrentAdminFixture is the single-entry fallback representing the signed-in admin
func CurrentAdminFixture(id Identity, now time.Time) AdminUser {
	lastSignIn := now
	return AdminUser{
		ID:           id.UserID,
		Email:        id.Email,
		CreatedAt:    id.CreatedAt,
		LastSignInAt: &lastSignIn,
		Role:         RoleAdmin,
	}
}

var (
	upperRe   = regexp.MustCompile(`[A-Z]`)
	lowerRe   = regexp.MustCompile(`[a-z]`)
	digitRe   = regexp.MustCompile(`\d`)
	specialRe = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// ValidateNewAdmin checks the email and password of an admin account request
func ValidateNewAdmin(email, password, confirmPassword string) error {
	verr := &ValidationError{}

	email = strings.TrimSpace(email)
	switch {
	case email == "":
		verr.Add("email", "Email is required")
	case !strings.Contains(email, "@"):
		verr.Add("email", "Please enter a valid email address")
	}

	switch {
	case strings.TrimSpace(password) == "":
		verr.Add("password", "Password is required")
	case len(password) < MinAdminPasswordLength:
		verr.Add("password", fmt.Sprintf("Password must be at least %d characters long", MinAdminPasswordLength))
	case password != confirmPassword:
		verr.Add("password", "Passwords do not match")
	case !upperRe.MatchString(password) || !lowerRe.MatchString(password) ||
		!digitRe.MatchString(password) || !specialRe.MatchString(password):
		verr.Add("password", "Password must contain at least one uppercase letter, one lowercase letter, one number, and one special character")
	}

	return verr.OrNil()
}
