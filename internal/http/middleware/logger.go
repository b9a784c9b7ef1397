package middleware

import (
	"io"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	"resumehost/internal/logging"
)

// Logger logs each HTTP request as one JSON line on stdout.
func Logger(loc *time.Location) fiber.Handler {
	return LoggerWithWriter(os.Stdout, loc)
}

// LoggerWithWriter is Logger with a custom destination. Fields:
// request_id (from RequestID), method, path, status, latency (ms) and ts.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	logger := logging.NewWithWriter(w, "info", loc)

	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		// Run the error handler now so the logged status is the one sent.
		if err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
			err = nil
		}

		rid := RequestIDFromCtx(c)
		logger.Info("http_request",
			"request_id", rid,
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"latency", float64(time.Since(start).Microseconds())/1000,
		)
		return err
	}
}
