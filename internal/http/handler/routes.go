package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"resumehost/internal/http/middleware"
	"resumehost/internal/service"
)

// Deps are the collaborators the routes are wired to.
type Deps struct {
	// Journal is pinged by /health.
	Journal  Pinger
	Files    service.WOPIService
	Launcher Launcher
	// ReadyGrace is handed to the host page for its editor handshake.
	ReadyGrace time.Duration
	Assistant  Assistant
	// AssistLimiter throttles /assist per client IP; nil disables it.
	AssistLimiter *middleware.LimiterManager
	// Gatherer backs /metrics; nil leaves the route out.
	Gatherer prometheus.Gatherer
	// RequestTimeout bounds WOPI and upload handlers.
	RequestTimeout time.Duration
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/health", HealthCheck(d.Journal))
	app.Get("/healthz", LivenessProbe())

	if d.Gatherer != nil {
		app.Get("/metrics", Metrics(d.Gatherer))
	}

	bounded := middleware.Timeout(d.RequestTimeout)

	app.Post("/upload", bounded, UploadFile(d.Files, d.Launcher))
	app.Get("/editor/:fileId", EditorURL(d.Files, d.Launcher, d.ReadyGrace.Milliseconds()))
	app.Get("/files/:fileId/revisions", ListRevisions(d.Files))

	wopi := app.Group("/wopi/files", bounded)
	wopi.Get("/:fileId", CheckFileInfo(d.Files))
	wopi.Get("/:fileId/contents", GetFileContents(d.Files))
	wopi.Post("/:fileId/contents", PutFileContents(d.Files))

	if d.Assistant != nil {
		var handlers []fiber.Handler
		if d.AssistLimiter != nil {
			handlers = append(handlers, middleware.RateLimit(d.AssistLimiter))
		}
		as := app.Group("/assist", handlers...)
		as.Post("/keywords", ExtractKeywords(d.Assistant))
		as.Post("/bullet", ImproveBullet(d.Assistant))
		as.Post("/bullet/new", NewBullet(d.Assistant))
		as.Post("/ats", ScoreATS(d.Assistant))
	}
}

// Metrics serves the Prometheus exposition format for g.
func Metrics(g prometheus.Gatherer) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
}
