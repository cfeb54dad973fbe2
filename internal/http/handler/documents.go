package handler

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"docstore/internal/model"
	"docstore/internal/service"
)

type listResponse struct {
	Data  []map[string]any `json:"data"`
	Total int              `json:"total"`
}

func documentList(res *service.DocumentListResult) listResponse {
	out := listResponse{Data: make([]map[string]any, 0, len(res.Items)), Total: res.Total}
	for i := range res.Items {
		out.Data = append(out.Data, res.Items[i].ToDict())
	}
	return out
}

// ListDocuments godoc
// @Summary List documents
// @Description Newest first. Optionally restricted to one source.
// @Tags documents
// @Produce json
// @Param limit query int false "page size" default(10)
// @Param offset query int false "rows to skip" default(0)
// @Param source_id query int false "source filter"
// @Success 200 {object} listResponse
// @Failure 400 {object} errorPayload
// @Router /documents [get]
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, code := parsePage(c)
		if code != "" {
			return writeError(c, fiber.StatusBadRequest, code, "invalid pagination parameter")
		}

		var sourceID *int64
		if raw := c.Query("source_id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				return writeError(c, fiber.StatusBadRequest, "INVALID_SOURCE_ID", "invalid source_id")
			}
			sourceID = &id
		}

		res, err := svc.List(c.UserContext(), limit, offset, sourceID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(documentList(res))
	}
}

// UploadDocument godoc
// @Summary Ingest a document
// @Description Archives the file under its SHA-256 content hash and records a document for it.
// @Tags documents
// @Accept mpfd
// @Produce json
// @Param file formData file true "document content"
// @Param type formData string false "text, tabular or other; inferred when omitted"
// @Param source_id formData int false "owning source"
// @Param meta formData string false "JSON object merged into the metadata payload"
// @Success 201 {object} map[string]any
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /documents [post]
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		in := service.IngestInput{
			FileName:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
		}

		if raw := c.FormValue("type"); raw != "" {
			typ, err := model.ParseDocumentType(raw)
			if err != nil {
				return writeServiceError(c, err)
			}
			in.Type = typ
		}
		if raw := c.FormValue("source_id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				return writeError(c, fiber.StatusBadRequest, "INVALID_SOURCE_ID", "invalid source_id")
			}
			in.SourceID = &id
		}
		if raw := c.FormValue("meta"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &in.Meta); err != nil || in.Meta == nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_META", "meta must be a JSON object")
			}
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		doc, err := svc.Ingest(c.UserContext(), f, in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc.ToDict())
	}
}

// GetDocument godoc
// @Summary Get a document
// @Description Metadata payload entries flattened with the document columns.
// @Tags documents
// @Produce json
// @Param id path int true "document id"
// @Success 200 {object} map[string]any
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /documents/{id} [get]
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc.ToDict())
	}
}

// UpdateDocumentMeta godoc
// @Summary Replace a document's metadata
// @Description The content_hash is fixed by the archived file; a body naming another one is rejected.
// @Tags documents
// @Accept json
// @Produce json
// @Param id path int true "document id"
// @Param meta body object true "metadata payload"
// @Success 200 {object} map[string]any
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /documents/{id}/meta [put]
func UpdateDocumentMeta(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var data map[string]any
		if err := json.Unmarshal(c.Body(), &data); err != nil || data == nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "body must be a JSON object")
		}
		doc, err := svc.UpdateMeta(c.UserContext(), id, data)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc.ToDict())
	}
}

// DocumentFile godoc
// @Summary Download the archived file
// @Description Redirects to a time-limited presigned URL.
// @Tags documents
// @Param id path int true "document id"
// @Success 302
// @Failure 404 {object} errorPayload
// @Router /documents/{id}/file [get]
func DocumentFile(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		u, err := svc.FileURL(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Redirect(u, fiber.StatusFound)
	}
}

// DocumentSource godoc
// @Summary Get the source of a document
// @Tags documents
// @Produce json
// @Param id path int true "document id"
// @Success 200 {object} model.Source
// @Failure 404 {object} errorPayload
// @Router /documents/{id}/source [get]
func DocumentSource(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		src, err := svc.Source(c.UserContext(), doc)
		if err != nil {
			return writeServiceError(c, err)
		}
		if src == nil {
			return writeError(c, fiber.StatusNotFound, "SOURCE_NOT_FOUND", "document has no source")
		}
		return c.JSON(src)
	}
}

// DeleteDocument godoc
// @Summary Delete a document
// @Description The archived file is removed once no document references its content hash.
// @Tags documents
// @Param id path int true "document id"
// @Success 204
// @Failure 404 {object} errorPayload
// @Router /documents/{id} [delete]
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
