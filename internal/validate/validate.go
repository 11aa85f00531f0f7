package validate

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// Email trims and lower-cases s and reports whether it looks like an address.
func Email(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 0 || len(s) > 254 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Name trims a display name; any non-blank length is accepted.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}

// Password only enforces presence and the bcrypt input limit of 72 bytes.
func Password(s string) bool {
	return s != "" && len(s) <= 72
}

// NoteID accepts canonical UUIDs only.
func NoteID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	id, err := uuid.Parse(s)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// Content trims note text; blank content is rejected.
func Content(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}
