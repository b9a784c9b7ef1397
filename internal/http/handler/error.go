package handler

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"resumehost/internal/http/middleware"
)

// errorPayload is the body of every non-WOPI-success response.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type statusText struct {
	code, message string
}

// statusErrors maps statuses reaching ErrorHandler to safe public text.
var statusErrors = map[int]statusText{
	fiber.StatusBadRequest:            {"BAD_REQUEST", "bad request"},
	fiber.StatusNotFound:              {"NOT_FOUND", "resource not found"},
	fiber.StatusMethodNotAllowed:      {"METHOD_NOT_ALLOWED", "method not allowed"},
	fiber.StatusRequestEntityTooLarge: {"PAYLOAD_TOO_LARGE", "request body too large"},
	fiber.StatusTooManyRequests:       {"RATE_LIMITED", "too many requests"},
	fiber.StatusServiceUnavailable:    {"SERVICE_UNAVAILABLE", "service unavailable"},
	fiber.StatusGatewayTimeout:        {"TIMEOUT", "request timed out"},
}

func requestIDFromCtx(c *fiber.Ctx) string {
	return middleware.RequestIDFromCtx(c)
}

// writeError writes the standard error body. message must be safe to show clients.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: requestIDFromCtx(c),
		Error:     errorEnvelope{Code: code, Message: message},
	})
}

// ErrorHandler renders errors that handlers and middleware return unhandled.
// Request deadlines become 504. Errors without a status are logged and become 500.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		switch {
		case errors.As(err, &fe):
			status = fe.Code
		case errors.Is(err, context.DeadlineExceeded):
			status = fiber.StatusGatewayTimeout
		}

		text, ok := statusErrors[status]
		switch {
		case ok:
		case status < fiber.StatusInternalServerError:
			text = statusText{"REQUEST_ERROR", strings.ToLower(utils.StatusMessage(status))}
		default:
			text = statusText{"INTERNAL_ERROR", "internal server error"}
			slog.Default().Error("unhandled_error",
				"request_id", requestIDFromCtx(c),
				"path", c.Path(),
				"error", err.Error(),
			)
		}
		return writeError(c, status, text.code, text.message)
	}
}
