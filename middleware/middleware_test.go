package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"catalog-aggregator-backend/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLoggerAssignsAndLogsRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	app := fiber.New()
	app.Use(RequestLogger(zap.New(core)))

	var fromContext string
	app.Get("/ping", func(c *fiber.Ctx) error {
		fromContext = RequestIDFromContext(c.UserContext())
		return c.SendString("pong")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	id := resp.Header.Get(RequestIDHeader)
	require.NotEmpty(t, id)
	assert.Equal(t, id, fromContext)

	entries := logs.FilterMessage("http_request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, id, entries[0].ContextMap()["request_id"])
	assert.EqualValues(t, http.StatusOK, entries[0].ContextMap()["status"])
}

func TestRequestLoggerReusesCallerID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop()))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "caller-id")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "caller-id", resp.Header.Get(RequestIDHeader))
}

func TestAdminRoute(t *testing.T) {
	newApp := func(token string) *fiber.App {
		app := fiber.New()
		ctx := &AppContext{Settings: &config.Settings{AdminToken: token}, Logger: zap.NewNop()}
		app.Delete("/admin", AdminRoute(ctx), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
		return app
	}

	cases := []struct {
		name       string
		configured string
		presented  string
		want       int
	}{
		{"no token configured", "", "anything", http.StatusUnauthorized},
		{"missing header", "s3cret", "", http.StatusUnauthorized},
		{"wrong token", "s3cret", "guess", http.StatusUnauthorized},
		{"correct token", "s3cret", "s3cret", http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/admin", nil)
			if tc.presented != "" {
				req.Header.Set(AdminTokenHeader, tc.presented)
			}
			resp, err := newApp(tc.configured).Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestInitCorsAnswersPreflight(t *testing.T) {
	app := fiber.New()
	InitCors(app, "http://localhost:5173")
	app.Get("/x", func(c *fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}
