package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"notesweb/internal/domain"
	applog "notesweb/internal/log"
)

const sessionCookie = "sid"

// IdentityResolver maps a session token to the signed-in user, if any.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, token string) (*domain.User, bool)
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}

func setUser(c *fiber.Ctx, u *domain.User) {
	c.Locals("user", u)
	c.Locals("user_id", u.ID)
}

// LoadUser attaches the signed-in user, if any, to every request.
// A sid cookie that no longer resolves is expired so later requests skip the lookup.
func LoadUser(auth IdentityResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sid := c.Cookies(sessionCookie); sid != "" {
			if u, ok := auth.ResolveIdentity(c.UserContext(), sid); ok {
				setUser(c, u)
			} else {
				expireCookie(c, sessionCookie)
			}
		}
		return c.Next()
	}
}

// RequireUser enforces that LoadUser found a user; otherwise redirect to login.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if currentUser(c) != nil {
			return c.Next()
		}
		applog.Security(c, "access.denied.anonymous", nil)
		flash(c, "info", "Please log in to access this page.")
		return c.Redirect("/login")
	}
}
