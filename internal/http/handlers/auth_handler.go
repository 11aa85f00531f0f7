package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"notesweb/internal/domain"
	"notesweb/internal/log"
	"notesweb/internal/services"
	"notesweb/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func (h *AuthHandler) RegisterForm(c *fiber.Ctx) error {
	if currentUser(c) != nil {
		return c.Redirect("/")
	}
	return render(c, "register", &RegisterPage{Page: Page{Title: "Register"}})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	rawName, rawEmail, pass := c.FormValue("name"), c.FormValue("email"), c.FormValue("password")
	name, okName := validate.Name(rawName)
	if !okName || strings.TrimSpace(rawEmail) == "" || pass == "" {
		log.Info(c, "auth.register.invalid", map[string]any{"reason": "missing_field"})
		flash(c, "danger", "Name, email and password are required.")
		return c.Redirect("/register")
	}
	email, ok := validate.Email(rawEmail)
	if !ok {
		log.Info(c, "auth.register.invalid", map[string]any{"reason": "bad_email"})
		flash(c, "danger", "Please enter a valid email address.")
		return c.Redirect("/register")
	}
	if !validate.Password(pass) {
		log.Info(c, "auth.register.invalid", map[string]any{"reason": "password_too_long"})
		flash(c, "danger", "Password must be at most 72 bytes.")
		return c.Redirect("/register")
	}

	u, err := h.Auth.Register(c.UserContext(), name, email, pass)
	if errors.Is(err, domain.ErrEmailTaken) {
		log.Security(c, "auth.register.duplicate", map[string]any{"email": email})
		flash(c, "danger", "Email already registered.")
		return c.Redirect("/register")
	}
	if err != nil {
		return err
	}
	log.Audit(c, "auth.register.success", map[string]any{"email": email, "new_user_id": u.ID})
	flash(c, "success", "Registration successful.")
	return c.Redirect("/login")
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	if currentUser(c) != nil {
		return c.Redirect("/")
	}
	return render(c, "login", &LoginPage{Page: Page{Title: "Log in"}})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	email, _ := validate.Email(c.FormValue("email"))
	pass := c.FormValue("password")

	token, u, err := h.Auth.Login(c.UserContext(), email, pass)
	if errors.Is(err, domain.ErrBadCredentials) {
		log.Security(c, "auth.login.fail", map[string]any{"email": email})
		c.Status(fiber.StatusUnauthorized)
		return render(c, "login", &LoginPage{
			Page:  Page{Title: "Log in", Flashes: []Flash{{Category: "danger", Message: "Invalid credentials."}}},
			Email: email,
		})
	}
	if err != nil {
		return err
	}

	// Drop any session the browser already held so a planted token cannot be reused.
	if old := c.Cookies(sessionCookie); old != "" {
		_ = h.Auth.Logout(c.UserContext(), old)
	}
	setCookie(c, sessionCookie, token)
	setUser(c, u)
	log.Audit(c, "auth.login.success", map[string]any{"email": email})
	flash(c, "success", "Login successful!")
	return c.Redirect("/")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if sid := c.Cookies(sessionCookie); sid != "" {
		if err := h.Auth.Logout(c.UserContext(), sid); err != nil {
			return err
		}
	}
	expireCookie(c, sessionCookie)
	log.Audit(c, "auth.logout", nil)
	flash(c, "info", "Logged out successfully.")
	return c.Redirect("/login")
}
