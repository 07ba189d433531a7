package middleware

import (
	"io"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupIdempotency(t *testing.T) (*fiber.App, *miniredis.Miniredis, *int32) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	var calls int32
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(UserIDKey, c.Get("X-User"))
		return c.Next()
	})
	app.Use(IdempotencyMiddleware(client, time.Minute, "/refresh"))
	app.Post("/packages", func(c *fiber.Ctx) error {
		n := atomic.AddInt32(&calls, 1)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"call": n})
	})
	app.Post("/refresh", func(c *fiber.Ctx) error {
		n := atomic.AddInt32(&calls, 1)
		return c.JSON(fiber.Map{"call": n})
	})
	app.Get("/packages", func(c *fiber.Ctx) error {
		atomic.AddInt32(&calls, 1)
		return c.JSON(fiber.Map{})
	})
	return app, mr, &calls
}

func post(t *testing.T, app *fiber.App, user, correlationID string) (int, string, string) {
	t.Helper()
	return postTo(t, app, "/packages", user, correlationID)
}

func postTo(t *testing.T, app *fiber.App, path, user, correlationID string) (int, string, string) {
	t.Helper()
	req := httptest.NewRequest("POST", path, nil)
	req.Header.Set("X-User", user)
	if correlationID != "" {
		req.Header.Set("X-Correlation-ID", correlationID)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body), resp.Header.Get("X-Idempotent-Replay")
}

func TestIdempotency_ReplaysCachedResponse(t *testing.T) {
	app, _, calls := setupIdempotency(t)

	status, body, replay := post(t, app, "admin-1", "corr-1")
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Empty(t, replay)

	_, replayed, replay := post(t, app, "admin-1", "corr-1")
	assert.Equal(t, "true", replay)
	assert.JSONEq(t, body, replayed)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestIdempotency_ScopedPerAdmin(t *testing.T) {
	app, _, calls := setupIdempotency(t)

	post(t, app, "admin-1", "corr-1")
	_, _, replay := post(t, app, "admin-2", "corr-1")

	assert.Empty(t, replay)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestIdempotency_ExpiresAfterTTL(t *testing.T) {
	app, mr, calls := setupIdempotency(t)

	post(t, app, "admin-1", "corr-1")
	mr.FastForward(2 * time.Minute)
	_, _, replay := post(t, app, "admin-1", "corr-1")

	assert.Empty(t, replay)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestIdempotency_SkipsWithoutCorrelationID(t *testing.T) {
	app, mr, calls := setupIdempotency(t)

	post(t, app, "admin-1", "")
	post(t, app, "admin-1", "")

	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
	assert.Empty(t, mr.Keys())
}

func TestIdempotency_IgnoresReads(t *testing.T) {
	app, mr, _ := setupIdempotency(t)

	req := httptest.NewRequest("GET", "/packages", nil)
	req.Header.Set("X-Correlation-ID", "corr-1")
	_, err := app.Test(req)
	require.NoError(t, err)

	assert.Empty(t, mr.Keys())
}

func TestIdempotency_ExemptPathAlwaysRuns(t *testing.T) {
	app, mr, calls := setupIdempotency(t)

	_, first, _ := postTo(t, app, "/refresh", "admin-1", "corr-refresh")
	_, second, replay := postTo(t, app, "/refresh", "admin-1", "corr-refresh")

	assert.Empty(t, replay)
	assert.NotEqual(t, first, second)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
	assert.False(t, mr.Exists("idempotency:admin-1:corr-refresh"))
}
