package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"carcare/internal/config"
	"carcare/internal/domain"
	"carcare/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct{}

func (stubValidator) ValidateToken(token string) (*services.Claims, error) {
	if token == "good" {
		return &services.Claims{UserID: 7, Email: "a@x.com"}, nil
	}
	return nil, domain.UnauthorizedError{Msg: "Invalid token"}
}

func authApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", AuthRequired(stubValidator{}, zerolog.Nop()), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": UserID(c)})
	})
	return app
}

func decode(t *testing.T, body io.Reader) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestAuthRequired(t *testing.T) {
	app := authApp()

	tests := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"missing header", "", fiber.StatusUnauthorized, "Unauthorized"},
		{"wrong scheme", "Basic abc", fiber.StatusUnauthorized, "Unauthorized"},
		{"empty token", "Bearer ", fiber.StatusUnauthorized, "Unauthorized"},
		{"bad token", "Bearer nope", fiber.StatusUnauthorized, "Invalid token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			body := decode(t, resp.Body)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.message, body["message"])
		})
	}

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(7), decode(t, resp.Body)["user_id"])
}

func TestRateLimit(t *testing.T) {
	app := fiber.New()
	app.Use(RateLimit(config.RateLimitConfig{PerMinute: 1, Burst: 2}))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
}

func TestRateLimiter_Defaults(t *testing.T) {
	l := newRateLimiter(config.RateLimitConfig{})
	assert.Equal(t, 100, l.burst)
	assert.InDelta(t, 100.0/60.0, float64(l.limit), 0.0001)
	assert.Equal(t, minIdleTTL, l.idleTTL)
	assert.Same(t, l.getLimiter("1.2.3.4"), l.getLimiter("1.2.3.4"))
	assert.NotSame(t, l.getLimiter("1.2.3.4"), l.getLimiter("5.6.7.8"))
}

func TestRateLimiter_ForgetsIdleClients(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := newRateLimiter(config.RateLimitConfig{PerMinute: 60, Burst: 5})
	l.now = func() time.Time { return now }
	l.lastSweep.Store(now.UnixNano())

	idle := l.getLimiter("1.1.1.1")
	l.getLimiter("2.2.2.2")
	assert.Equal(t, 2, l.size())

	// 2.2.2.2 keeps talking, 1.1.1.1 goes quiet.
	now = now.Add(l.idleTTL / 2)
	l.getLimiter("2.2.2.2")

	now = now.Add(l.idleTTL/2 + time.Second)
	l.getLimiter("2.2.2.2")
	assert.Equal(t, 1, l.size())

	_, ok := l.limiters.Load("2.2.2.2")
	assert.True(t, ok)
	assert.NotSame(t, idle, l.getLimiter("1.1.1.1"))
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).SendString("boom")
		},
	})
	app.Use(RequestLogger(logger))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/fail", func(c *fiber.Ctx) error { return errors.New("db down") })

	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil), int(time.Second.Milliseconds()))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, buf.String(), `"route":"/ok"`)
	assert.Contains(t, buf.String(), `"status":200`)

	buf.Reset()
	resp, err = app.Test(httptest.NewRequest("GET", "/fail", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), `"status":500`)
}
