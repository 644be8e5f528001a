package handler

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"searchbridge/internal/convert"
	"searchbridge/internal/http/middleware"
	"searchbridge/internal/search"
	"searchbridge/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errInvalidJSON is returned when a request body cannot be decoded.
var errInvalidJSON = errors.New("request body must be a JSON object")

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_OPTION", "NOT_FOUND", "UPSTREAM_ERROR")
// - message: human-readable safe message
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: middleware.GetRequestID(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError translates an error from the service layer into the
// error envelope. Engine failures keep their status only for 404 and 409.
func writeServiceError(c *fiber.Ctx, err error) error {
	var (
		optErr *convert.OptionError
		engErr *search.ResponseError
	)
	switch {
	case errors.As(err, &optErr):
		return writeError(c, fiber.StatusBadRequest, "INVALID_OPTION", optErr.Error())
	case errors.Is(err, errInvalidJSON),
		errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrInvalidName),
		errors.Is(err, service.ErrIndexRequired):
		return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", err.Error())
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrExportNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.As(err, &engErr):
		switch engErr.StatusCode {
		case fiber.StatusNotFound:
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", engineMessage(engErr))
		case fiber.StatusConflict:
			return writeError(c, fiber.StatusConflict, "CONFLICT", engineMessage(engErr))
		}
		return writeError(c, fiber.StatusBadGateway, "UPSTREAM_ERROR", engineMessage(engErr))
	}
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

func engineMessage(e *search.ResponseError) string {
	typ := e.Type()
	if typ == "" {
		return fmt.Sprintf("search engine returned status %d", e.StatusCode)
	}
	if reason := e.Body.Error.Reason; reason != "" {
		return typ + ": " + reason
	}
	return typ
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var e *fiber.Error
		if errors.As(err, &e) {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
