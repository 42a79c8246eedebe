package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// UserIDHeader carries the client-generated pseudo-identity token.
// The value is opaque and never verified; it exists only so the board
// can compare ownership and compute per-user like state. An absent
// header means the caller is treated as anonymous with no like state.
const UserIDHeader = "x-user-id"

// Identity extracts the pseudo-user id from the request header into
// c.Locals("userID"). It never rejects a request.
func Identity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userID", c.Get(UserIDHeader))
		return c.Next()
	}
}
