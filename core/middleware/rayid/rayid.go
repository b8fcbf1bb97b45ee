package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderName is the header carrying the request's ray ID.
const HeaderName = "X-Ray-Id"

// LocalsKey is the fiber locals key under which the ray ID is stored.
const LocalsKey = "ray_id"

// New creates a middleware that tags every request with a ray ID.
// An inbound X-Ray-Id is honored so callers can correlate their own logs.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(HeaderName)
		if rid == "" {
			rid = uuid.NewString()
		}

		c.Locals(LocalsKey, rid)
		c.Set(HeaderName, rid)

		return c.Next()
	}
}

// FromCtx returns the ray ID assigned to the request, or "" if the
// middleware did not run.
func FromCtx(c *fiber.Ctx) string {
	if rid, ok := c.Locals(LocalsKey).(string); ok {
		return rid
	}
	return ""
}
