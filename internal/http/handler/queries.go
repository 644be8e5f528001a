package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"searchbridge/internal/service"
)

type saveQueryRequest struct {
	Name  string         `json:"name"`
	Index string         `json:"index"`
	Body  map[string]any `json:"body"`
}

// SaveQuery stores a named search body, replacing any query with the same name.
//
// @Summary Save a query
// @Tags queries
// @Accept json
// @Produce json
// @Success 201 {object} model.SavedQuery
// @Failure 400 {object} errorPayload
// @Router /queries [post]
func SaveQuery(svc service.SavedQueryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req saveQueryRequest
		if err := c.BodyParser(&req); err != nil {
			return writeServiceError(c, errInvalidJSON)
		}
		q, err := svc.Save(c.UserContext(), req.Name, req.Index, req.Body)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(q)
	}
}

// ListQueries pages over saved queries with limit & offset.
func ListQueries(svc service.SavedQueryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

func GetQuery(svc service.SavedQueryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, err := svc.Get(c.UserContext(), c.Params("name"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(q)
	}
}

func DeleteQuery(svc service.SavedQueryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("name")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// RunQuery executes a saved query. The request body and query string are
// merged over the stored body, so {"size": 1} narrows a saved search.
func RunQuery(svc service.SavedQueryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		overrides, err := requestMap(c)
		if err != nil {
			return writeServiceError(c, err)
		}
		res, err := svc.Run(c.UserContext(), c.Params("name"), overrides)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}
