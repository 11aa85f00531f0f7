package handlers

import (
	"strings"

	"notesweb/internal/domain"
)

// Page is embedded by every view model; the layout reads these fields.
type Page struct {
	Title     string
	User      *domain.User
	Flashes   []Flash
	CSRFToken string
}

func (p *Page) page() *Page { return p }

type pageModel interface{ page() *Page }

type LoginPage struct {
	Page
	Email string
}

type RegisterPage struct {
	Page
	Name  string
	Email string
}

type ErrorPage struct {
	Page
	Message string
}

type PriorityOption struct {
	Value    domain.Priority
	Selected bool
}

type NoteView struct {
	ID              string
	Content         string
	Tags            []string
	TagsCSV         string
	Priority        domain.Priority
	PriorityClass   string
	PriorityOptions []PriorityOption
}

type IndexPage struct {
	Page
	Notes      []NoteView
	Priorities []PriorityOption
}

func priorityOptions(selected domain.Priority) []PriorityOption {
	opts := make([]PriorityOption, 0, len(domain.Priorities))
	for _, p := range domain.Priorities {
		opts = append(opts, PriorityOption{Value: p, Selected: p == selected})
	}
	return opts
}

func newNoteView(n domain.Note) NoteView {
	return NoteView{
		ID:              n.ID,
		Content:         n.Content,
		Tags:            n.Tags,
		TagsCSV:         n.Tags.CSV(),
		Priority:        n.Priority,
		PriorityClass:   "priority-" + strings.ToLower(string(n.Priority)),
		PriorityOptions: priorityOptions(n.Priority),
	}
}

func newIndexPage(notes []domain.Note) *IndexPage {
	views := make([]NoteView, 0, len(notes))
	for _, n := range notes {
		views = append(views, newNoteView(n))
	}
	return &IndexPage{
		Page:       Page{Title: "Your notes"},
		Notes:      views,
		Priorities: priorityOptions(domain.PriorityLow),
	}
}
