package search

import (
	"errors"
	"fmt"
	"net/http"

	"searchbridge/internal/model"
)

// ResponseError is returned when the engine answers with a non-2xx status.
// Body holds the decoded error document when the engine sent one.
type ResponseError struct {
	StatusCode int
	Body       model.ErrorResponse
}

func (e *ResponseError) Error() string {
	cause := e.Body.Error
	switch {
	case cause.Type != "" && cause.Reason != "":
		return fmt.Sprintf("search engine status %d: %s: %s", e.StatusCode, cause.Type, cause.Reason)
	case cause.Reason != "":
		return fmt.Sprintf("search engine status %d: %s", e.StatusCode, cause.Reason)
	case cause.Type != "":
		return fmt.Sprintf("search engine status %d: %s", e.StatusCode, cause.Type)
	}
	return fmt.Sprintf("search engine status %d", e.StatusCode)
}

// Type is the engine's error type, e.g. "index_not_found_exception".
func (e *ResponseError) Type() string { return e.Body.Error.Type }

// StatusOf returns the engine status carried by err, or 0 when err is not a ResponseError.
func StatusOf(err error) int {
	var re *ResponseError
	if errors.As(err, &re) {
		return re.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is an engine 404.
func IsNotFound(err error) bool { return StatusOf(err) == http.StatusNotFound }

// IsConflict reports whether err is an engine 409.
func IsConflict(err error) bool { return StatusOf(err) == http.StatusConflict }
