package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

const layout = "layouts/main"

func csrfToken(c *fiber.Ctx) string {
	if tok, ok := c.Locals("csrf").(string); ok && tok != "" {
		return tok
	}
	return c.Cookies("csrf_")
}

// render fills the shared page fields and consumes pending flashes.
func render(c *fiber.Ctx, tmpl string, vm pageModel) error {
	p := vm.page()
	if p.User == nil {
		p.User = currentUser(c)
	}
	p.CSRFToken = csrfToken(c)
	p.Flashes = append(takeFlashes(c), p.Flashes...)
	return c.Render(tmpl, vm, layout)
}

// RenderError shows a friendly message with the given status and never
// exposes the underlying error.
func RenderError(c *fiber.Ctx, status int, message string) error {
	title := http.StatusText(status)
	if title == "" {
		title = "Error"
	}
	c.Status(status)
	if err := render(c, "error", &ErrorPage{Page: Page{Title: title}, Message: message}); err != nil {
		return c.Status(status).SendString(message)
	}
	return nil
}
