package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())

	app.Get("/test", func(c *fiber.Ctx) error {
		rid := c.Locals(RequestIDLocalKey)
		return c.SendString(rid.(string))
	})

	t.Run("should generate new request id if not present", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		ridHeader := resp.Header.Get(RequestIDHeader)
		assert.NotEmpty(t, ridHeader)

		// Check if it's readable in handler (from response body)
		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, ridHeader, buf.String())
	})

	t.Run("should replace a malformed request id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, "has spaces\tand tabs")

		resp, _ := app.Test(req)

		got := resp.Header.Get(RequestIDHeader)
		assert.NotEqual(t, "has spaces\tand tabs", got)
		assert.Len(t, got, 36)
	})

	t.Run("should preserve existing request id", func(t *testing.T) {
		existingID := "test-id-123"
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, existingID)

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, existingID, resp.Header.Get(RequestIDHeader))

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, existingID, buf.String())
	})
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	loc := time.UTC

	// Logger usually depends on RequestID for request_id field
	app.Use(RequestID())
	app.Use(LoggerWithWriter(&buf, loc))

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusAccepted)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	// Verify log output
	var logData map[string]any
	err := json.Unmarshal(buf.Bytes(), &logData)
	assert.NoError(t, err)

	assert.NotEmpty(t, logData["request_id"])
	assert.Equal(t, "GET", logData["method"])
	assert.Equal(t, "/test", logData["path"])
	assert.Equal(t, float64(fiber.StatusAccepted), logData["status"])
	assert.NotNil(t, logData["latency"])
	assert.NotEmpty(t, logData["ts"])
	assert.Equal(t, "info", logData["level"])
	assert.Equal(t, "http_request", logData["msg"])
	assert.Equal(t, "/test", logData["route"])
}

func TestLogger_LevelFollowsStatus(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	app := fiber.New()
	app.Use(RequestID())
	app.Use(Logger(zap.New(core)))

	app.Get("/missing", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNotFound)
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusBadGateway, "upstream")
	})

	_, _ = app.Test(httptest.NewRequest("GET", "/missing", nil))
	_, _ = app.Test(httptest.NewRequest("GET", "/boom", nil))

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Equal(t, "GET", entries[0].ContextMap()["method"])
		assert.Equal(t, "/missing", entries[0].ContextMap()["path"])
		assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
		assert.Equal(t, int64(fiber.StatusBadGateway), entries[1].ContextMap()["status"])
	}
}

func TestLogger_TraceID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	traceID := trace.TraceID{0x4b, 0xf9, 0x2f, 0x35, 0x77, 0xb3, 0x4d, 0xa6, 0xa3, 0xce, 0x92, 0x9d, 0x0e, 0x0e, 0x47, 0x36}
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  trace.SpanID{0x00, 0xf0, 0x67, 0xaa, 0x0b, 0xa9, 0x02, 0xb7},
	})

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.SetUserContext(trace.ContextWithSpanContext(c.UserContext(), sc))
		return c.Next()
	})
	app.Use(Logger(zap.New(core)))
	app.Get("/traced", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	_, _ = app.Test(httptest.NewRequest("GET", "/traced", nil))

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", entries[0].ContextMap()["trace_id"])
	}
}

func TestValidRequestID(t *testing.T) {
	assert.True(t, validRequestID("abc-123"))
	assert.False(t, validRequestID(""))
	assert.False(t, validRequestID(strings.Repeat("a", 129)))
	assert.False(t, validRequestID("caf\u00e9"))
}
