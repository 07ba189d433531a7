package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvAsList(t *testing.T) {
	t.Setenv("TEST_LIST", " a@x.com, ,b@x.com ")
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, getEnvAsList("TEST_LIST", nil))

	t.Setenv("TEST_LIST", " , ")
	assert.Equal(t, []string{"fallback"}, getEnvAsList("TEST_LIST", []string{"fallback"}))
}

func TestGetEnvAsDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "90s")
	assert.Equal(t, 90*time.Second, getEnvAsDuration("TEST_DURATION", time.Minute))

	t.Setenv("TEST_DURATION", "soon")
	assert.Equal(t, time.Minute, getEnvAsDuration("TEST_DURATION", time.Minute))
}

func TestGetEnvAsBool(t *testing.T) {
	t.Setenv("TEST_BOOL", "true")
	assert.True(t, getEnvAsBool("TEST_BOOL", false))

	t.Setenv("TEST_BOOL", "nope")
	assert.False(t, getEnvAsBool("TEST_BOOL", false))
}

func TestLoad_RequiresSecrets(t *testing.T) {
	t.Setenv("FIREBASE_PROJECT_ID", "travelmate")
	t.Setenv("FIREBASE_PRIVATE_KEY", "a2V5")
	t.Setenv("FIREBASE_CLIENT_EMAIL", "svc@travelmate.iam.gserviceaccount.com")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ADMIN_ALLOWED_EMAILS", "root@travelmate.com")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"root@travelmate.com"}, cfg.Admin.AllowedEmails)
	assert.Equal(t, 12*time.Hour, cfg.JWT.Expiry)
}
