package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const SessionCookieName = "checkout_session"

// SessionMiddleware, tarayıcıya opak bir checkout session token'ı bağlar.
// Purchase kayıtları bu token'la eşlenir; hesap/login yoktur.
func SessionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(SessionCookieName)
		if token == "" {
			token = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     SessionCookieName,
				Value:    token,
				Expires:  time.Now().Add(24 * time.Hour),
				HTTPOnly: true,
				SameSite: "Lax",
			})
		}

		c.Locals("sessionToken", token)

		return c.Next()
	}
}
