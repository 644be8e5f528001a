package handler

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"

	"searchbridge/internal/convert"
)

// bodyMap decodes the request body as a JSON object. An empty body yields an
// empty map.
func bodyMap(c *fiber.Ctx) (map[string]any, error) {
	raw := c.Body()
	if len(strings.TrimSpace(string(raw))) == 0 {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		return nil, errInvalidJSON
	}
	return m, nil
}

// queryOptions returns the query string as an options map. Values stay
// strings; option decoding coerces them.
func queryOptions(c *fiber.Ctx, skip ...string) map[string]any {
	out := map[string]any{}
	for k, v := range c.Queries() {
		out[k] = v
	}
	for _, k := range skip {
		delete(out, k)
	}
	return out
}

// requestMap merges the query string on top of the JSON body, so
// ?size=5 wins over "size" in the body.
func requestMap(c *fiber.Ctx) (map[string]any, error) {
	body, err := bodyMap(c)
	if err != nil {
		return nil, err
	}
	return convert.MergeBody(body, queryOptions(c)), nil
}

// indices splits the :index route parameter on commas.
func indices(c *fiber.Ctx) []string {
	var out []string
	for _, part := range strings.Split(c.Params("index"), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// mapSlice reads key from m as a list of JSON objects.
func mapSlice(m map[string]any, key string) ([]map[string]any, bool) {
	raw, ok := m[key].([]any)
	if !ok {
		return nil, false
	}
	out := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, false
		}
		out = append(out, obj)
	}
	return out, true
}
