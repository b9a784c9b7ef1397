package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS lets the host page, served from another origin, call the upload and
// assist endpoints. The editor server talks to /wopi directly and does not
// need it.
func CORS(allowOrigins string) fiber.Handler {
	if allowOrigins == "" {
		allowOrigins = "*"
	}
	return cors.New(cors.Config{
		AllowOrigins:  allowOrigins,
		AllowMethods:  "GET,POST,OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, " + RequestIDHeader,
		ExposeHeaders: RequestIDHeader + ", X-WOPI-ItemVersion",
	})
}
