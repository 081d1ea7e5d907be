package logger_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"inventory/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	log, err := logger.New(logger.LogConfig{Level: "debug", Environment: "production", ServiceName: "inventory"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))

	log, err = logger.New(logger.LogConfig{Level: "not-a-level", Environment: "development"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
}

func newObservedApp() (*fiber.App, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	app := fiber.New()
	app.Use(logger.RequestID(zap.New(core)))
	app.Use(logger.Middleware())
	app.Get("/ok", func(c *fiber.Ctx) error {
		logger.FromCtx(c).Debug("inside handler")
		return c.SendString("ok")
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "nope")
	})
	return app, logs
}

func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	app, logs := newObservedApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	generated := resp.Header.Get(logger.HeaderRequestID)
	assert.NotEmpty(t, generated)

	entries := logs.FilterMessage("inside handler").All()
	require.Len(t, entries, 1)
	assert.Equal(t, generated, entries[0].ContextMap()["request_id"])

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(logger.HeaderRequestID, "fixed-id")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "fixed-id", resp.Header.Get(logger.HeaderRequestID))
}

func TestMiddleware_LogsRenderedStatus(t *testing.T) {
	app, logs := newObservedApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	entries := logs.FilterMessage("HTTP Request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.EqualValues(t, http.StatusNotFound, entries[0].ContextMap()["status"])
	assert.Equal(t, "/missing", entries[0].ContextMap()["path"])
}

func TestFromCtx_WithoutMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		assert.NotNil(t, logger.FromCtx(c))
		return nil
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
}
