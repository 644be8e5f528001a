package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"searchbridge/internal/service"
	"searchbridge/internal/storage"
)

// ExportSearch streams every hit of the search body into object storage as
// NDJSON and returns the object key with a presigned download URL.
//
// @Summary Export search hits
// @Tags exports
// @Accept json
// @Produce json
// @Param index path string true "Index name"
// @Success 201 {object} model.Export
// @Failure 400 {object} errorPayload
// @Failure 502 {object} errorPayload
// @Router /indices/{index}/exports [post]
func ExportSearch(svc service.ExportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := requestMap(c)
		if err != nil {
			return writeServiceError(c, err)
		}
		exp, err := svc.Export(c.UserContext(), c.Params("index"), req)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(exp)
	}
}

// DownloadExport streams a stored export as an NDJSON attachment.
//
// @Summary Download an export
// @Tags exports
// @Produce application/x-ndjson
// @Param id path string true "Export id"
// @Success 200 {string} string
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /exports/{id} [get]
func DownloadExport(svc service.ExportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		rc, info, err := svc.Open(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		contentType := info.ContentType
		if contentType == "" {
			contentType = storage.NDJSONContentType
		}
		c.Set(fiber.HeaderContentType, contentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", id+".ndjson"))
		size := -1
		if info.Size > 0 {
			size = int(info.Size)
		}
		// fasthttp closes rc once the body is written.
		return c.SendStream(rc, size)
	}
}

// DeleteExport removes a stored export.
//
// @Summary Delete an export
// @Tags exports
// @Param id path string true "Export id"
// @Success 204
// @Failure 400 {object} errorPayload
// @Router /exports/{id} [delete]
func DeleteExport(svc service.ExportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
