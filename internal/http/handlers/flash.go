package handlers

import (
	"encoding/base64"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
)

const (
	flashCookie = "flash"
	flashLocals = "flash.pending"
)

// Flash is a one-time message shown on the next full page render.
type Flash struct {
	Category string `json:"c"`
	Message  string `json:"m"`
}

func pendingFlashes(c *fiber.Ctx) []Flash {
	if fs, ok := c.Locals(flashLocals).([]Flash); ok {
		return fs
	}
	return decodeFlashes(c.Cookies(flashCookie))
}

// flash queues a message for the next rendered page.
func flash(c *fiber.Ctx, category, message string) {
	fs := append(pendingFlashes(c), Flash{Category: category, Message: message})
	c.Locals(flashLocals, fs)
	setCookie(c, flashCookie, encodeFlashes(fs))
}

// takeFlashes returns the queued messages and expires the cookie holding them.
func takeFlashes(c *fiber.Ctx) []Flash {
	fs := pendingFlashes(c)
	c.Locals(flashLocals, []Flash{})
	if c.Cookies(flashCookie) != "" || len(fs) > 0 {
		expireCookie(c, flashCookie)
	}
	return fs
}

func encodeFlashes(fs []Flash) string {
	b, _ := json.Marshal(fs)
	return base64.RawURLEncoding.EncodeToString(b)
}

func decodeFlashes(v string) []Flash {
	if v == "" {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(v)
	if err != nil {
		return nil
	}
	var fs []Flash
	if json.Unmarshal(raw, &fs) != nil {
		return nil
	}
	return fs
}
