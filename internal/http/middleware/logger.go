package middleware

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"searchbridge/internal/logging"
)

// Logger writes one JSON access log entry per request with request_id,
// method, path, route, status, latency (milliseconds), bytes written and,
// when the request is traced, trace_id.
// 5xx responses log at error level and 4xx at warn.
func Logger(logger *zap.Logger) fiber.Handler {
	log := logger.With(zap.String("component", "http"))

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}

		level := zapcore.InfoLevel
		switch {
		case status >= fiber.StatusInternalServerError:
			level = zapcore.ErrorLevel
		case status >= fiber.StatusBadRequest:
			level = zapcore.WarnLevel
		}

		ce := log.Check(level, "http_request")
		if ce == nil {
			return err
		}
		fields := []zap.Field{
			zap.String("request_id", GetRequestID(c)),
			zap.String("method", utils.CopyString(c.Method())),
			zap.String("path", utils.CopyString(c.Path())),
			zap.String("route", c.Route().Path),
			zap.Int("status", status),
			zap.Float64("latency", float64(time.Since(start).Microseconds())/1000),
			zap.Int("bytes", len(c.Response().Body())),
		}
		// Set when the tracing middleware runs first.
		if sc := trace.SpanContextFromContext(c.UserContext()); sc.HasTraceID() {
			fields = append(fields, zap.String("trace_id", sc.TraceID().String()))
		}
		ce.Write(fields...)
		return err
	}
}

// LoggerWithWriter is Logger on a JSON logger writing to w with timestamps in loc.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	return Logger(logging.NewWithWriter(w, "debug", loc))
}
