package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nithinv16/DukaaOnWebsite/internal/ratelimit"
	"github.com/nithinv16/DukaaOnWebsite/pkg/auth"
)

const testSecret = "middleware-secret"

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestAdminRequired(t *testing.T) {
	app := fiber.New()
	app.Get("/admin", AdminRequired(testSecret), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(LocalsAdmin).(string))
	})

	access, refresh, err := auth.GenerateTokenPair("admin@dukaaon.in", auth.RoleAdmin, testSecret, 5, 1)
	require.NoError(t, err)
	otherRole, err := auth.GenerateAccessToken("someone", "viewer", testSecret, 5)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"no header", "", fiber.StatusUnauthorized},
		{"not bearer", "Basic abc", fiber.StatusUnauthorized},
		{"refresh token", "Bearer " + refresh, fiber.StatusUnauthorized},
		{"wrong role", "Bearer " + otherRole, fiber.StatusUnauthorized},
		{"garbage", "Bearer abc.def.ghi", fiber.StatusUnauthorized},
		{"admin", "Bearer " + access, fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.status == fiber.StatusUnauthorized {
				assert.Equal(t, "no-store, no-cache, must-revalidate", resp.Header.Get("Cache-Control"))
				assert.Equal(t, false, decode(t, resp)["success"])
			}
		})
	}
}

func TestRateLimit_SixthRequestRejected(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := ratelimit.NewFixedWindow(time.Minute, 5, ratelimit.WithClock(func() time.Time { return now }))

	app := fiber.New()
	app.Post("/enquiry", RateLimit(limiter, time.Minute), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	send := func(ip string) *http.Response {
		req := httptest.NewRequest("POST", "/enquiry", nil)
		req.Header.Set("X-Forwarded-For", ip+", 10.0.0.1")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	for i := 0; i < 5; i++ {
		assert.Equal(t, fiber.StatusCreated, send("49.36.10.1").StatusCode, "request %d", i+1)
	}

	resp := send("49.36.10.1")
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "60", resp.Header.Get("Retry-After"))
	assert.Equal(t, "no-store, no-cache, must-revalidate", resp.Header.Get("Cache-Control"))
	assert.Equal(t, "Too many requests. Please try again later.", decode(t, resp)["error"])

	// other clients keep their own window
	assert.Equal(t, fiber.StatusCreated, send("49.36.10.2").StatusCode)

	now = now.Add(time.Minute + time.Millisecond)
	assert.Equal(t, fiber.StatusCreated, send("49.36.10.1").StatusCode)
}

func TestInternalOnly(t *testing.T) {
	app := fiber.New()
	app.Get("/metrics", InternalOnly(), func(c *fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest("GET", "/metrics", nil)
	req.Header.Set("X-Real-IP", "10.1.2.3")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("GET", "/metrics", nil)
	req.Header.Set("X-Real-IP", "49.36.10.1")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestPrometheusMiddleware_PassesThrough(t *testing.T) {
	app := fiber.New()
	app.Use(PrometheusMiddleware())
	app.Get("/v1/sellers", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusTeapot) })
	app.Get("/v1/health", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/sellers", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/v1/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, isProbePath("/v1/health"))
	assert.False(t, isProbePath("/v1/sellers"))
}
