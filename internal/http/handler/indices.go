package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"searchbridge/internal/service"
)

// indexAction is the shape shared by the index-level operations that take
// only an index list and options.
type indexAction func(ctx context.Context, indices []string, opts map[string]any) (map[string]any, error)

func runIndexAction(action indexAction) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := action(c.UserContext(), indices(c), queryOptions(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// CreateIndex creates :index with the settings, mappings and aliases in the body.
//
// @Summary Create an index
// @Tags indices
// @Accept json
// @Produce json
// @Param index path string true "Index name"
// @Success 200 {object} map[string]any
// @Failure 400 {object} errorPayload
// @Router /indices/{index} [put]
func CreateIndex(svc service.SearchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := requestMap(c)
		if err != nil {
			return writeServiceError(c, err)
		}
		res, err := svc.CreateIndex(c.UserContext(), c.Params("index"), body)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

func DeleteIndex(svc service.SearchService) fiber.Handler {
	return runIndexAction(svc.DeleteIndex)
}

// IndexExists answers HEAD with 200 when every listed index exists.
func IndexExists(svc service.SearchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ok, err := svc.IndexExists(c.UserContext(), indices(c), queryOptions(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		if !ok {
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendStatus(fiber.StatusOK)
	}
}

func PutMapping(svc service.SearchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		mapping, err := bodyMap(c)
		if err != nil {
			return writeServiceError(c, err)
		}
		res, err := svc.PutMapping(c.UserContext(), indices(c), mapping, queryOptions(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

func GetMapping(svc service.SearchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.GetMapping(c.UserContext(), indices(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

func PutSettings(svc service.SearchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		settings, err := bodyMap(c)
		if err != nil {
			return writeServiceError(c, err)
		}
		res, err := svc.PutSettings(c.UserContext(), indices(c), settings, queryOptions(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

func GetSettings(svc service.SearchService) fiber.Handler {
	return runIndexAction(svc.GetSettings)
}

func OpenIndex(svc service.SearchService) fiber.Handler {
	return runIndexAction(svc.OpenIndex)
}

func CloseIndex(svc service.SearchService) fiber.Handler {
	return runIndexAction(svc.CloseIndex)
}

func Refresh(svc service.SearchService) fiber.Handler {
	return runIndexAction(svc.Refresh)
}

func Flush(svc service.SearchService) fiber.Handler {
	return runIndexAction(svc.Flush)
}

func ForceMerge(svc service.SearchService) fiber.Handler {
	return runIndexAction(svc.ForceMerge)
}

// UpdateAliases applies {"actions": [{"add": {...}}, {"remove": {...}}]}.
func UpdateAliases(svc service.SearchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := bodyMap(c)
		if err != nil {
			return writeServiceError(c, err)
		}
		actions, ok := mapSlice(body, "actions")
		if !ok || len(actions) == 0 {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "actions must be a non-empty list of objects")
		}
		res, err := svc.UpdateAliases(c.UserContext(), actions, queryOptions(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// PutIndexTemplate stores the body as the composable template :name.
func PutIndexTemplate(svc service.SearchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tmpl, err := bodyMap(c)
		if err != nil {
			return writeServiceError(c, err)
		}
		res, err := svc.PutIndexTemplate(c.UserContext(), c.Params("name"), tmpl, queryOptions(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// ClusterHealth reports cluster health, optionally scoped by ?index=.
func ClusterHealth(svc service.SearchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var scope []string
		if idx := c.Query("index"); idx != "" {
			scope = []string{idx}
		}
		res, err := svc.ClusterHealth(c.UserContext(), scope, queryOptions(c, "index"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}
