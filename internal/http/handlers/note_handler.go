package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"notesweb/internal/domain"
	"notesweb/internal/log"
	"notesweb/internal/services"
	"notesweb/internal/validate"
)

// NoteHandler serves the note routes; all of them sit behind RequireUser.
type NoteHandler struct {
	Notes *services.NoteService
}

func (h *NoteHandler) Index(c *fiber.Ctx) error {
	u := currentUser(c)
	notes, err := h.Notes.List(c.UserContext(), u.ID)
	if err != nil {
		return err
	}
	return render(c, "index", newIndexPage(notes))
}

func (h *NoteHandler) Add(c *fiber.Ctx) error {
	u := currentUser(c)
	content, ok := validate.Content(c.FormValue("note"))
	if !ok {
		flash(c, "danger", "Note content is required.")
		return c.Redirect("/")
	}
	tags := domain.ParseTags(c.FormValue("tags"))
	priority := domain.ParsePriority(c.FormValue("priority"))

	n, err := h.Notes.Add(c.UserContext(), u.ID, content, tags, priority)
	if err != nil {
		return err
	}
	log.Audit(c, "note.add", map[string]any{"note_id": n.ID})
	flash(c, "success", "Note added successfully.")
	return c.Redirect("/")
}

func (h *NoteHandler) Edit(c *fiber.Ctx) error {
	u := currentUser(c)
	noteID, ok := validate.NoteID(c.FormValue("note_id"))
	if !ok {
		log.Security(c, "note.edit.denied", map[string]any{"note_id": c.FormValue("note_id")})
		flash(c, "danger", "Error updating note.")
		return c.Redirect("/")
	}
	content, ok := validate.Content(c.FormValue("note"))
	if !ok {
		flash(c, "danger", "Note content is required.")
		return c.Redirect("/")
	}
	tags := domain.ParseTags(c.FormValue("tags"))
	priority := domain.ParsePriority(c.FormValue("priority"))

	err := h.Notes.Edit(c.UserContext(), noteID, u.ID, content, tags, priority)
	if errors.Is(err, domain.ErrNotFound) {
		log.Security(c, "note.edit.denied", map[string]any{"note_id": noteID})
		flash(c, "danger", "Error updating note.")
		return c.Redirect("/")
	}
	if err != nil {
		return err
	}
	log.Audit(c, "note.edit", map[string]any{"note_id": noteID})
	flash(c, "success", "Note updated successfully!")
	return c.Redirect("/")
}

func (h *NoteHandler) Delete(c *fiber.Ctx) error {
	u := currentUser(c)
	noteID, ok := validate.NoteID(c.Params("note_id"))
	if !ok {
		log.Security(c, "note.delete.denied", map[string]any{"note_id": c.Params("note_id")})
		flash(c, "danger", "Note not found or not authorized to delete.")
		return c.Redirect("/")
	}
	err := h.Notes.Remove(c.UserContext(), noteID, u.ID)
	if errors.Is(err, domain.ErrNotFound) {
		log.Security(c, "note.delete.denied", map[string]any{"note_id": noteID})
		flash(c, "danger", "Note not found or not authorized to delete.")
		return c.Redirect("/")
	}
	if err != nil {
		return err
	}
	log.Audit(c, "note.delete", map[string]any{"note_id": noteID})
	flash(c, "success", "Note deleted successfully.")
	return c.Redirect("/")
}
