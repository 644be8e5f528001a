package handler

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"searchbridge/internal/service"
)

// Search runs the body as a search request against the comma separated
// :index list. Query parameters override body keys.
//
// @Summary Search
// @Tags search
// @Accept json
// @Produce json
// @Param index path string true "Comma separated index names"
// @Success 200 {object} map[string]any
// @Failure 400 {object} errorPayload
// @Failure 502 {object} errorPayload
// @Router /indices/{index}/search [post]
func Search(svc service.SearchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := requestMap(c)
		if err != nil {
			return writeServiceError(c, err)
		}
		res, err := svc.Search(c.UserContext(), indices(c), req)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

func Count(svc service.SearchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := requestMap(c)
		if err != nil {
			return writeServiceError(c, err)
		}
		res, err := svc.Count(c.UserContext(), indices(c), req)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

func DeleteByQuery(svc service.SearchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := requestMap(c)
		if err != nil {
			return writeServiceError(c, err)
		}
		res, err := svc.DeleteByQuery(c.UserContext(), indices(c), req)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// Scroll continues a scroll. The body is {"scroll_id": "...", "scroll": "1m"}.
func Scroll(svc service.SearchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := requestMap(c)
		if err != nil {
			return writeServiceError(c, err)
		}
		id, _ := body["scroll_id"].(string)
		res, err := svc.Scroll(c.UserContext(), id, body["scroll"])
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// ClearScroll releases scroll contexts. scroll_id may be a string or a list.
// An empty body clears nothing.
func ClearScroll(svc service.SearchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := bodyMap(c)
		if err != nil {
			return writeServiceError(c, err)
		}
		var ids []string
		switch v := body["scroll_id"].(type) {
		case string:
			ids = append(ids, v)
		case []any:
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "scroll_id must be a string or a list of strings")
				}
				ids = append(ids, s)
			}
		}
		res, err := svc.ClearScroll(c.UserContext(), ids...)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// Bulk submits a batch of operations. The body is a JSON array of
// operation objects, e.g. [{"index": {"_id": "1"}, "doc": {...}}]. The
// optional ?index= sets the default target index.
func Bulk(svc service.SearchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var ops []map[string]any
		if err := json.Unmarshal(c.Body(), &ops); err != nil || len(ops) == 0 {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "body must be a non-empty JSON array of operations")
		}
		res, err := svc.Bulk(c.UserContext(), c.Query("index"), ops, queryOptions(c, "index"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}
