package handler

import (
	"github.com/gofiber/fiber/v2"

	"searchbridge/internal/service"
)

// IndexDocument stores the body as a new document. Query parameters such as
// id, refresh or op_type are passed through as options.
//
// @Summary Index a document
// @Tags documents
// @Accept json
// @Produce json
// @Param index path string true "Index name"
// @Success 201 {object} map[string]any
// @Failure 400 {object} errorPayload
// @Router /indices/{index}/documents [post]
func IndexDocument(svc service.SearchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := bodyMap(c)
		if err != nil {
			return writeServiceError(c, err)
		}
		res, err := svc.IndexDocument(c.UserContext(), c.Params("index"), doc, queryOptions(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// PutDocument indexes the body under the :id route parameter.
func PutDocument(svc service.SearchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := bodyMap(c)
		if err != nil {
			return writeServiceError(c, err)
		}
		// The route id wins over either id parameter in the query string.
		opts := queryOptions(c, "id", "_id")
		opts["id"] = c.Params("id")
		res, err := svc.IndexDocument(c.UserContext(), c.Params("index"), doc, opts)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetDocument returns the engine's get response. A missing document is a
// 404 carrying "found": false.
//
// @Summary Get a document
// @Tags documents
// @Produce json
// @Param index path string true "Index name"
// @Param id path string true "Document id"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /indices/{index}/documents/{id} [get]
func GetDocument(svc service.SearchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.GetDocument(c.UserContext(), c.Params("index"), c.Params("id"), queryOptions(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		if found, ok := res["found"].(bool); ok && !found {
			return c.Status(fiber.StatusNotFound).JSON(res)
		}
		return c.JSON(res)
	}
}

// DocumentExists answers HEAD with 200 or 404 and no body.
func DocumentExists(svc service.SearchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ok, err := svc.DocumentExists(c.UserContext(), c.Params("index"), c.Params("id"), queryOptions(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		if !ok {
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendStatus(fiber.StatusOK)
	}
}

// DeleteDocument removes a document by id.
func DeleteDocument(svc service.SearchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.DeleteDocument(c.UserContext(), c.Params("index"), c.Params("id"), queryOptions(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// UpdateDocument applies a partial update. The body carries doc, script or
// upsert; query parameters are merged on top.
func UpdateDocument(svc service.SearchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		opts, err := requestMap(c)
		if err != nil {
			return writeServiceError(c, err)
		}
		res, err := svc.UpdateDocument(c.UserContext(), c.Params("index"), c.Params("id"), opts)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// MultiGet fetches several documents. The body is {"docs": [...]} or the
// shorthand {"ids": [...]}.
func MultiGet(svc service.SearchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := bodyMap(c)
		if err != nil {
			return writeServiceError(c, err)
		}
		docs, ok := mapSlice(body, "docs")
		if !ok {
			ids, _ := body["ids"].([]any)
			docs = make([]map[string]any, 0, len(ids))
			for _, id := range ids {
				docs = append(docs, map[string]any{"_id": id})
			}
		}
		if len(docs) == 0 {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "docs or ids is required")
		}
		res, err := svc.MultiGet(c.UserContext(), c.Params("index"), docs, queryOptions(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}
