package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/travelmate/admin-console/internal/domain"
)

// Context keys for storing the session identity
const (
	UserIDKey   = "userID"
	RoleKey     = "role"
	IdentityKey = "identity"
)

// VerifyAdminToken validates the console JWT and stores the identity in context.
// With a revocation store, tokens minted before the admin's last sign-out are
// refused.
func VerifyAdminToken(jwtSecret string, revocations domain.SessionRevocationStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization token",
			})
		}

		token, err := jwt.ParseWithClaims(tokenString, &domain.AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(jwtSecret), nil
		})
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		claims, ok := token.Claims.(*domain.AdminClaims)
		if !ok || !token.Valid || claims.UserID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token claims",
			})
		}

		if revocations != nil {
			signedOutAt, err := revocations.SignedOutAt(c.UserContext(), claims.UserID)
			if err != nil {
				log.Printf("[Auth] sign-out lookup failed for %s: %v", claims.UserID, err)
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error": "Session store unavailable",
				})
			}
			if claims.RevokedBy(signedOutAt) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Session has been signed out",
				})
			}
		}

		c.Locals(UserIDKey, claims.UserID)
		c.Locals(RoleKey, claims.Role)
		c.Locals(IdentityKey, claims.Identity())

		return c.Next()
	}
}

// AuthorizeRole checks the token role is one of the allowed roles
func AuthorizeRole(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(RoleKey).(string)
		if !ok || role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "No role found in token",
			})
		}

		for _, allowed := range allowedRoles {
			if role == allowed {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":          "Insufficient permissions",
			"required_roles": allowedRoles,
		})
	}
}

// GetIdentity returns the identity stored by VerifyAdminToken
func GetIdentity(c *fiber.Ctx) (domain.Identity, bool) {
	identity, ok := c.Locals(IdentityKey).(domain.Identity)
	return identity, ok
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// Any other header shape yields "".
func bearerToken(c *fiber.Ctx) string {
	token, ok := strings.CutPrefix(c.Get("Authorization"), "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}
