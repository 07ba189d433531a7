package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/travelmate/admin-console/internal/domain"
)

// FirebaseAuthClient defines the interface for Firebase Auth operations
// This allows mocking for tests
type FirebaseAuthClient interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// AuthService turns Firebase sign-ins into console sessions
type AuthService struct {
	authClient    FirebaseAuthClient
	sessions      *SessionManager
	revocations   domain.SessionRevocationStore
	jwtSecret     string
	jwtExpiry     time.Duration
	allowedEmails map[string]struct{}
	now           func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(
	authClient FirebaseAuthClient,
	sessions *SessionManager,
	revocations domain.SessionRevocationStore,
	jwtSecret string,
	jwtExpiry time.Duration,
	allowedEmails []string,
) *AuthService {
	allowed := make(map[string]struct{}, len(allowedEmails))
	for _, e := range allowedEmails {
		allowed[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}
	if jwtExpiry <= 0 {
		jwtExpiry = 12 * time.Hour
	}
	return &AuthService{
		authClient:    authClient,
		sessions:      sessions,
		revocations:   revocations,
		jwtSecret:     jwtSecret,
		jwtExpiry:     jwtExpiry,
		allowedEmails: allowed,
		now:           time.Now,
	}
}

// LoginResponse is returned to the console after a successful sign-in
type LoginResponse struct {
	Identity  domain.Identity `json:"user"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// Login verifies the Firebase ID token, refuses non-admins, issues a console
// token and signs the admin in.
func (s *AuthService) Login(ctx context.Context, firebaseToken string) (*LoginResponse, error) {
	token, err := s.authClient.VerifyIDToken(ctx, firebaseToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	identity, err := s.identityFromToken(token)
	if err != nil {
		return nil, err
	}

	signed, expiresAt, err := s.GenerateAdminToken(identity)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.sessions.HandleEvent(domain.EventSignedIn, identity); err != nil {
		return nil, err
	}

	return &LoginResponse{
		Identity:  identity,
		Token:     signed,
		ExpiresAt: expiresAt,
	}, nil
}

// Logout signs the admin out, drops their workspace and revokes every console
// token issued so far, so a stale token cannot restore the session.
func (s *AuthService) Logout(ctx context.Context, identity domain.Identity) error {
	if err := s.sessions.HandleEvent(domain.EventSignedOut, identity); err != nil {
		return err
	}
	if s.revocations == nil {
		return nil
	}
	if err := s.revocations.RevokeSessions(ctx, identity.UserID, s.now(), s.jwtExpiry); err != nil {
		return fmt.Errorf("failed to revoke console tokens: %w", err)
	}
	return nil
}

// IsAdmin reports whether email is allow-listed or role is the admin role
func (s *AuthService) IsAdmin(email, role string) bool {
	if role == domain.RoleAdmin {
		return true
	}
	_, ok := s.allowedEmails[strings.ToLower(strings.TrimSpace(email))]
	return ok
}

func (s *AuthService) identityFromToken(token *auth.Token) (domain.Identity, error) {
	email, _ := token.Claims["email"].(string)
	role, _ := token.Claims["role"].(string)

	if !s.IsAdmin(email, role) {
		return domain.Identity{}, domain.ErrNotAdmin
	}

	identity := domain.Identity{
		UserID: token.UID,
		Email:  email,
		Role:   domain.RoleAdmin,
	}
	if token.IssuedAt > 0 {
		identity.CreatedAt = time.Unix(token.IssuedAt, 0).UTC()
	}
	return identity, nil
}

// GenerateAdminToken creates a signed console token for identity
func (s *AuthService) GenerateAdminToken(identity domain.Identity) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.jwtExpiry)

	claims := domain.AdminClaims{
		UserID: identity.UserID,
		Email:  identity.Email,
		Role:   identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        ulid.MustNew(ulid.Timestamp(now), rand.Reader).String(),
			Subject:   identity.UserID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	if !identity.CreatedAt.IsZero() {
		claims.CreatedAt = jwt.NewNumericDate(identity.CreatedAt)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, expiresAt, nil
}
