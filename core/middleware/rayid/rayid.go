package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Header is the response header the ray id is echoed on. Inbound values on
// the same header are honored so traces survive proxies that already tag
// requests.
const Header = "X-Ray-ID"

// LocalsKey is the fiber locals key handlers and the logger read the id from.
const LocalsKey = "ray_id"

// New returns middleware that assigns every request a unique ray id.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(Header)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals(LocalsKey, rid)
		c.Set(Header, rid)
		return c.Next()
	}
}
