package handler

import (
	"github.com/gofiber/fiber/v2"

	"docstore/internal/service"
)

type createSourceRequest struct {
	Slug  string `json:"slug"`
	Label string `json:"label"`
}

// CreateSource godoc
// @Summary Register a source
// @Tags sources
// @Accept json
// @Produce json
// @Param source body createSourceRequest true "slug and optional label"
// @Success 201 {object} model.Source
// @Failure 400 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /sources [post]
func CreateSource(svc service.SourceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createSourceRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		src, err := svc.Create(c.UserContext(), req.Slug, req.Label)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(src)
	}
}

// ListSources godoc
// @Summary List sources
// @Tags sources
// @Produce json
// @Param limit query int false "page size" default(10)
// @Param offset query int false "rows to skip" default(0)
// @Success 200 {object} service.SourceListResult
// @Router /sources [get]
func ListSources(svc service.SourceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, code := parsePage(c)
		if code != "" {
			return writeError(c, fiber.StatusBadRequest, code, "invalid pagination parameter")
		}
		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetSource godoc
// @Summary Get a source
// @Tags sources
// @Produce json
// @Param id path int true "source id"
// @Success 200 {object} model.Source
// @Failure 404 {object} errorPayload
// @Router /sources/{id} [get]
func GetSource(svc service.SourceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		src, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(src)
	}
}

// ListSourceDocuments godoc
// @Summary List the documents of a source
// @Tags sources
// @Produce json
// @Param id path int true "source id"
// @Param limit query int false "page size" default(10)
// @Param offset query int false "rows to skip" default(0)
// @Success 200 {object} listResponse
// @Failure 404 {object} errorPayload
// @Router /sources/{id}/documents [get]
func ListSourceDocuments(srcSvc service.SourceService, docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		limit, offset, code := parsePage(c)
		if code != "" {
			return writeError(c, fiber.StatusBadRequest, code, "invalid pagination parameter")
		}
		if _, err := srcSvc.Get(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		res, err := docSvc.List(c.UserContext(), limit, offset, &id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(documentList(res))
	}
}
