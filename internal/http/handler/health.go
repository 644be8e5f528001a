package handler

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const healthTimeout = 2 * time.Second

// Pinger is a dependency the health endpoint checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function, such as (*sql.DB).PingContext, to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthCheck pings every dependency in checks. A nil entry is reported as
// "disabled" and never fails the check.
//
// @Summary Dependency health
// @Tags health
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 503 {object} errorPayload
// @Router /health [get]
func HealthCheck(checks map[string]Pinger) fiber.Handler {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
		defer cancel()

		status := make(map[string]string, len(names))
		var down []string
		for _, name := range names {
			p := checks[name]
			switch {
			case p == nil:
				status[name] = "disabled"
			case p.Ping(ctx) != nil:
				status[name] = "down"
				down = append(down, name)
			default:
				status[name] = "up"
			}
		}
		if len(down) > 0 {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE",
				"dependency unavailable: "+strings.Join(down, ", "))
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy", "checks": status})
	}
}

// LivenessProbe answers 200 as long as the process serves requests.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
