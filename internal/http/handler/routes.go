package handler

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"docstore/internal/service"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, db *sql.DB, docSvc service.DocumentService, srcSvc service.SourceService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	docs := app.Group("/documents")
	docs.Get("/", ListDocuments(docSvc))
	docs.Post("/", UploadDocument(docSvc))
	docs.Get("/:id", GetDocument(docSvc))
	docs.Put("/:id/meta", UpdateDocumentMeta(docSvc))
	docs.Get("/:id/file", DocumentFile(docSvc))
	docs.Get("/:id/source", DocumentSource(docSvc))
	docs.Delete("/:id", DeleteDocument(docSvc))

	sources := app.Group("/sources")
	sources.Get("/", ListSources(srcSvc))
	sources.Post("/", CreateSource(srcSvc))
	sources.Get("/:id", GetSource(srcSvc))
	sources.Get("/:id/documents", ListSourceDocuments(srcSvc, docSvc))
}

// HealthCheck godoc
// @Summary Readiness probe
// @Description Reports healthy when the database answers a ping.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} errorPayload
// @Router /health [get]
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if db == nil || db.PingContext(ctx) != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe godoc
// @Summary Liveness probe
// @Tags health
// @Success 200
// @Router /healthz [get]
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// parseID reads a positive integer route parameter.
func parseID(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parsePage reads limit and offset query parameters. On failure it returns
// the error code to report.
func parsePage(c *fiber.Ctx) (limit, offset int, code string) {
	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 0 {
		return 0, 0, "INVALID_LIMIT"
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset, err = strconv.Atoi(c.Query("offset", "0"))
	if err != nil || offset < 0 {
		return 0, 0, "INVALID_OFFSET"
	}
	return limit, offset, ""
}
