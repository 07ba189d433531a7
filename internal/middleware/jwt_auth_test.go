package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travelmate/admin-console/internal/domain"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims domain.AdminClaims, secret string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func adminClaims(expiresIn time.Duration) domain.AdminClaims {
	now := time.Now()
	return domain.AdminClaims{
		UserID: "admin-uid",
		Email:  "admin@travelmate.com",
		Role:   domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
}

type memoryRevocations struct {
	signedOut map[string]time.Time
	err       error
}

func (m *memoryRevocations) RevokeSessions(ctx context.Context, userID string, at time.Time, ttl time.Duration) error {
	m.signedOut[userID] = at
	return nil
}

func (m *memoryRevocations) SignedOutAt(ctx context.Context, userID string) (time.Time, error) {
	return m.signedOut[userID], m.err
}

func protectedApp() *fiber.App {
	return protectedAppWith(nil)
}

func protectedAppWith(revocations domain.SessionRevocationStore) *fiber.App {
	app := fiber.New()
	app.Get("/me", VerifyAdminToken(testSecret, revocations), AuthorizeRole(domain.RoleAdmin), func(c *fiber.Ctx) error {
		identity, ok := GetIdentity(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendString(identity.Email)
	})
	return app
}

func TestVerifyAdminToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid token", "Bearer " + signToken(t, adminClaims(time.Hour), testSecret), fiber.StatusOK},
		{"missing header", "", fiber.StatusUnauthorized},
		{"expired token", "Bearer " + signToken(t, adminClaims(-time.Hour), testSecret), fiber.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, adminClaims(time.Hour), "other"), fiber.StatusUnauthorized},
		{"garbage", "Bearer not-a-jwt", fiber.StatusUnauthorized},
		{"missing bearer scheme", signToken(t, adminClaims(time.Hour), testSecret), fiber.StatusUnauthorized},
		{"basic scheme", "Basic " + signToken(t, adminClaims(time.Hour), testSecret), fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := protectedApp().Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestAuthorizeRole_RejectsOtherRoles(t *testing.T) {
	claims := adminClaims(time.Hour)
	claims.Role = "customer"

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, claims, testSecret))

	resp, err := protectedApp().Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireFirebaseToken(t *testing.T) {
	app := fiber.New()
	app.Post("/login", RequireFirebaseToken(), func(c *fiber.Ctx) error {
		return c.SendString(GetFirebaseToken(c))
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest("POST", "/login", nil)
	req.Header.Set("Authorization", "Bearer firebase-id-token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestVerifyAdminToken_SignedOutTokenIsRefused(t *testing.T) {
	issued := time.Now().Add(-time.Minute)
	claims := adminClaims(time.Hour)
	claims.ID = ulid.MustNew(ulid.Timestamp(issued), ulid.DefaultEntropy()).String()
	token := "Bearer " + signToken(t, claims, testSecret)

	store := &memoryRevocations{signedOut: map[string]time.Time{}}
	app := protectedAppWith(store)

	request := func() int {
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusOK, request())

	store.signedOut["admin-uid"] = time.Now()
	assert.Equal(t, fiber.StatusUnauthorized, request())

	// a token minted after the sign-out is accepted again
	claims.ID = ulid.MustNew(ulid.Timestamp(time.Now().Add(time.Second)), ulid.DefaultEntropy()).String()
	token = "Bearer " + signToken(t, claims, testSecret)
	assert.Equal(t, fiber.StatusOK, request())
}

func TestVerifyAdminToken_RevocationStoreDown(t *testing.T) {
	store := &memoryRevocations{signedOut: map[string]time.Time{}, err: errors.New("redis down")}

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, adminClaims(time.Hour), testSecret))
	resp, err := protectedAppWith(store).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
