package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const secureLocals = "cookie.secure"

// CookiePolicy marks whether cookies set by the handlers carry the Secure flag.
// Install it ahead of LoadUser.
func CookiePolicy(secure bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(secureLocals, secure)
		return c.Next()
	}
}

func setCookie(c *fiber.Ctx, name, value string) {
	secure, _ := c.Locals(secureLocals).(bool)
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   secure,
	})
}

func expireCookie(c *fiber.Ctx, name string) {
	secure, _ := c.Locals(secureLocals).(bool)
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   secure,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}
