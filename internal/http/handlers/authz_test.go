package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notesweb/internal/domain"
	"notesweb/internal/http/handlers"
)

type fakeResolver struct {
	users map[string]*domain.User
	calls int
}

func (f *fakeResolver) ResolveIdentity(_ context.Context, token string) (*domain.User, bool) {
	f.calls++
	u, ok := f.users[token]
	return u, ok
}

func newAuthzApp(r handlers.IdentityResolver, secure bool) *fiber.App {
	app := fiber.New()
	app.Use(handlers.CookiePolicy(secure))
	app.Use(handlers.LoadUser(r))
	app.Get("/private", handlers.RequireUser(), func(c *fiber.Ctx) error {
		u := c.Locals("user").(*domain.User)
		return c.SendString("hello " + u.Name)
	})
	return app
}

func TestRequireUserRedirectsAnonymous(t *testing.T) {
	app := newAuthzApp(&fakeResolver{}, false)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/private", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "unknown"})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestRequireUserPassesResolvedUser(t *testing.T) {
	r := &fakeResolver{users: map[string]*domain.User{"tok": {ID: "u1", Name: "Alice"}}}
	app := newAuthzApp(r, false)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "tok"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, r.calls)
}

func TestStaleSessionCookieIsExpired(t *testing.T) {
	r := &fakeResolver{}
	app := newAuthzApp(r, true)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "gone"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.Equal(t, 1, r.calls, "identity is resolved once per request")

	cookies := map[string]*http.Cookie{}
	for _, c := range resp.Cookies() {
		cookies[c.Name] = c
	}
	sid, ok := cookies["sid"]
	require.True(t, ok, "stale sid is cleared")
	assert.Empty(t, sid.Value)
	assert.True(t, sid.Expires.Before(time.Now()))
	assert.True(t, sid.Secure)

	fl, ok := cookies["flash"]
	require.True(t, ok)
	assert.True(t, fl.Secure, "flash cookie follows the cookie policy")
}
