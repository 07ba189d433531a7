package middleware

import (
	"context"
	"encoding/base64"
	"encoding/json"

	firebase "firebase.google.com/go/v4"
	"github.com/gofiber/fiber/v2"
	"google.golang.org/api/option"
)

// FirebaseTokenKey holds the raw Firebase ID token for the login handler
const FirebaseTokenKey = "firebaseToken"

// RequireFirebaseToken extracts the Firebase ID token from the Bearer header.
// Verification happens in the auth service so the admin check can run on the
// decoded claims.
func RequireFirebaseToken() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing authorization header",
			})
		}
		c.Locals(FirebaseTokenKey, token)
		return c.Next()
	}
}

// GetFirebaseToken returns the token stored by RequireFirebaseToken
func GetFirebaseToken(c *fiber.Ctx) string {
	token, _ := c.Locals(FirebaseTokenKey).(string)
	return token
}

// InitFirebase initializes Firebase Admin SDK with environment variables
func InitFirebase(projectID, privateKeyB64, clientEmail string) (*firebase.App, error) {
	privateKey, err := base64.StdEncoding.DecodeString(privateKeyB64)
	if err != nil {
		return nil, err
	}

	credentialsJSON := map[string]interface{}{
		"type":         "service_account",
		"project_id":   projectID,
		"private_key":  string(privateKey),
		"client_email": clientEmail,
	}

	config := &firebase.Config{ProjectID: projectID}
	app, err := firebase.NewApp(context.Background(), config, option.WithCredentialsJSON(mustMarshalJSON(credentialsJSON)))
	if err != nil {
		return nil, err
	}

	return app, nil
}

func mustMarshalJSON(v interface{}) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
