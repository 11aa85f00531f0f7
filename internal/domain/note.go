package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Priorities lists the accepted values in display order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority accepts only the exact literals; anything else is Low.
func ParsePriority(s string) Priority {
	switch p := Priority(s); p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p
	}
	return PriorityLow
}

// Tags is an ordered list of labels stored as a JSON array.
type Tags []string

// ParseTags splits a comma separated string, trims every piece and drops
// the empty ones. Order and duplicates are kept.
func ParseTags(csv string) Tags {
	tags := Tags{}
	for _, part := range strings.Split(csv, ",") {
		if t := strings.TrimSpace(part); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// CSV renders the tags back into the form input format.
func (t Tags) CSV() string { return strings.Join(t, ", ") }

func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(t))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (t *Tags) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*t = Tags{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("tags: unsupported type %T", src)
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("tags: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*t = out
	return nil
}

type Note struct {
	ID        string    `db:"id"`
	OwnerID   string    `db:"user_id"`
	Content   string    `db:"content"`
	Tags      Tags      `db:"tags"`
	Priority  Priority  `db:"priority"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
