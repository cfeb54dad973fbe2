package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"docstore/internal/http/middleware"
	"docstore/internal/model"
	"docstore/internal/repository"
	"docstore/internal/service"
)

// errorPayload is the error response body shared by every endpoint.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a JSON error without leaking internal details.
// code is machine-readable (INVALID_ID, NOT_FOUND, ...), message is safe to show.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	})
}

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

var serviceErrors = []errorMapping{
	{service.ErrIDRequired, fiber.StatusBadRequest, "INVALID_ID", "invalid id"},
	{service.ErrReaderNil, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required"},
	{service.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "document not found"},
	{service.ErrSourceNotFound, fiber.StatusNotFound, "SOURCE_NOT_FOUND", "source not found"},
	{service.ErrFileNotFound, fiber.StatusNotFound, "FILE_NOT_FOUND", "archived file not found"},
	{model.ErrInvalidDocumentType, fiber.StatusBadRequest, "INVALID_TYPE", "type must be one of text, tabular, other"},
	{model.ErrInvalidContentHash, fiber.StatusBadRequest, "INVALID_CONTENT_HASH", "content_hash must be a string matching the archived file"},
	{model.ErrInvalidSlug, fiber.StatusBadRequest, "INVALID_SLUG", "slug must be lower-case letters, digits, '-' or '_'"},
	{repository.ErrDuplicate, fiber.StatusConflict, "CONFLICT", "resource already exists"},
}

// writeServiceError translates a service error into its HTTP response.
// Anything unrecognised becomes a 500.
func writeServiceError(c *fiber.Ctx, err error) error {
	for _, m := range serviceErrors {
		if errors.Is(err, m.target) {
			return writeError(c, m.status, m.code, m.message)
		}
	}
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "FILE_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
