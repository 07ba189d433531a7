package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travelmate/admin-console/internal/domain"
)

type stubAuthClient struct {
	tokens map[string]*auth.Token
}

func (s *stubAuthClient) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	if tok, ok := s.tokens[idToken]; ok {
		return tok, nil
	}
	return nil, fmt.Errorf("token rejected")
}

type memoryRevocations struct {
	signedOut map[string]time.Time
}

func (m *memoryRevocations) RevokeSessions(ctx context.Context, userID string, at time.Time, ttl time.Duration) error {
	m.signedOut[userID] = at
	return nil
}

func (m *memoryRevocations) SignedOutAt(ctx context.Context, userID string) (time.Time, error) {
	return m.signedOut[userID], nil
}

func newTestAuth(t *testing.T) (*AuthService, *SessionManager) {
	svc, sessions, _ := newTestAuthWithRevocations(t)
	return svc, sessions
}

func newTestAuthWithRevocations(t *testing.T) (*AuthService, *SessionManager, *memoryRevocations) {
	t.Helper()
	client := &stubAuthClient{tokens: map[string]*auth.Token{
		"allow-listed": {UID: "uid-1", IssuedAt: 1704067200, Claims: map[string]interface{}{"email": "Admin@TravelMate.com"}},
		"role-claim":   {UID: "uid-2", Claims: map[string]interface{}{"email": "ops@travelmate.com", "role": "admin"}},
		"customer":     {UID: "uid-3", Claims: map[string]interface{}{"email": "guest@example.com"}},
	}}
	sessions := newTestSessions(seededGateway())
	revocations := &memoryRevocations{signedOut: map[string]time.Time{}}
	svc := NewAuthService(client, sessions, revocations, "test-secret", time.Hour, []string{"admin@travelmate.com"})
	return svc, sessions, revocations
}

func parseConsoleToken(t *testing.T, token string) *domain.AdminClaims {
	t.Helper()
	parsed, err := jwt.ParseWithClaims(token, &domain.AdminClaims{}, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}, jwt.WithoutClaimsValidation())
	require.NoError(t, err)
	return parsed.Claims.(*domain.AdminClaims)
}

func TestAuthService_LoginAllowListed(t *testing.T) {
	svc, sessions := newTestAuth(t)

	resp, err := svc.Login(context.Background(), "allow-listed")
	require.NoError(t, err)
	sessions.Wait()

	assert.Equal(t, "uid-1", resp.Identity.UserID)
	assert.Equal(t, domain.RoleAdmin, resp.Identity.Role)
	assert.Equal(t, time.Unix(1704067200, 0).UTC(), resp.Identity.CreatedAt)
	assert.NotEmpty(t, resp.Token)

	ws, ok := sessions.Lookup("uid-1")
	require.True(t, ok)
	assert.Len(t, ws.Snapshot().Packages, 2)

	claims := parseConsoleToken(t, resp.Token)
	assert.Equal(t, resp.Identity, claims.Identity())
	assert.NotEmpty(t, claims.ID)
}

func TestAuthService_LoginRoleClaim(t *testing.T) {
	svc, sessions := newTestAuth(t)

	resp, err := svc.Login(context.Background(), "role-claim")
	require.NoError(t, err)
	sessions.Wait()
	assert.Equal(t, "ops@travelmate.com", resp.Identity.Email)
}

func TestAuthService_LoginRefusesNonAdmin(t *testing.T) {
	svc, sessions := newTestAuth(t)

	_, err := svc.Login(context.Background(), "customer")
	assert.ErrorIs(t, err, domain.ErrNotAdmin)

	_, ok := sessions.Lookup("uid-3")
	assert.False(t, ok)
}

func TestAuthService_LoginInvalidToken(t *testing.T) {
	svc, _ := newTestAuth(t)

	_, err := svc.Login(context.Background(), "forged")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthService_LogoutRevokesIssuedTokens(t *testing.T) {
	svc, sessions, revocations := newTestAuthWithRevocations(t)

	resp, err := svc.Login(context.Background(), "role-claim")
	require.NoError(t, err)
	sessions.Wait()

	require.NoError(t, svc.Logout(context.Background(), resp.Identity))
	_, ok := sessions.Lookup(resp.Identity.UserID)
	assert.False(t, ok)

	signedOutAt, err := revocations.SignedOutAt(context.Background(), resp.Identity.UserID)
	require.NoError(t, err)
	assert.True(t, parseConsoleToken(t, resp.Token).RevokedBy(signedOutAt), "old token ends with the session")

	// signing in again mints a token the earlier sign-out does not cover
	svc.now = func() time.Time { return signedOutAt.Add(time.Second) }
	again, err := svc.Login(context.Background(), "role-claim")
	require.NoError(t, err)
	sessions.Wait()
	assert.False(t, parseConsoleToken(t, again.Token).RevokedBy(signedOutAt))
}
