package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"notedo/internal/errors"
	"notedo/internal/service"
)

// NoteHandler handles note endpoints.
type NoteHandler struct {
	noteService service.NoteService
}

// NewNoteHandler creates a new note handler.
func NewNoteHandler(noteService service.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

// NoteRequest represents a note create or update request.
type NoteRequest struct {
	Name        string `json:"name" validate:"required,max=50"`
	Description string `json:"description" validate:"max=150"`
	TagIDs      []uint `json:"tag_ids"`
}

// SetDeadlineRequest represents a deadline assignment request.
type SetDeadlineRequest struct {
	Deadline time.Time `json:"deadline" validate:"required"`
}

// ListNotes godoc
// @Summary List the user's notes
// @Description Returns one page of notes, newest first.
// @Tags notes
// @Produce json
// @Param page query int false "Page number, starting at 1"
// @Success 200 {object} service.NotePage
// @Failure 401 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /notes [get]
func (h *NoteHandler) ListNotes(c echo.Context) error {
	userID, err := CurrentUserID(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))

	result, err := h.noteService.ListNotes(c.Request().Context(), userID, page)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, result)
}

// GetNote godoc
// @Summary Get a single note
// @Tags notes
// @Produce json
// @Param id path int true "Note ID"
// @Success 200 {object} model.Note
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /notes/{id} [get]
func (h *NoteHandler) GetNote(c echo.Context) error {
	userID, noteID, err := h.noteParams(c)
	if err != nil {
		return err
	}

	note, err := h.noteService.GetNote(c.Request().Context(), userID, noteID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, note)
}

// CreateNote godoc
// @Summary Create a note
// @Description Requires a confirmed profile and at least one existing tag.
// @Tags notes
// @Accept json
// @Produce json
// @Param request body NoteRequest true "Note data"
// @Success 201 {object} model.Note
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /notes [post]
func (h *NoteHandler) CreateNote(c echo.Context) error {
	userID, err := CurrentUserID(c)
	if err != nil {
		return err
	}

	var req NoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	note, err := h.noteService.CreateNote(c.Request().Context(), userID, req.Name, req.Description, req.TagIDs)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, note)
}

// UpdateNote godoc
// @Summary Update a note
// @Description Replaces name, description and the tag set.
// @Tags notes
// @Accept json
// @Produce json
// @Param id path int true "Note ID"
// @Param request body NoteRequest true "Note data"
// @Success 200 {object} model.Note
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /notes/{id} [put]
func (h *NoteHandler) UpdateNote(c echo.Context) error {
	userID, noteID, err := h.noteParams(c)
	if err != nil {
		return err
	}

	var req NoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	note, err := h.noteService.UpdateNote(c.Request().Context(), userID, noteID, req.Name, req.Description, req.TagIDs)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, note)
}

// DeleteNote godoc
// @Summary Delete a note
// @Tags notes
// @Produce json
// @Param id path int true "Note ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /notes/{id} [delete]
func (h *NoteHandler) DeleteNote(c echo.Context) error {
	userID, noteID, err := h.noteParams(c)
	if err != nil {
		return err
	}

	if err := h.noteService.DeleteNote(c.Request().Context(), userID, noteID); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "note deleted",
	})
}

// ToggleDone godoc
// @Summary Toggle the note's done flag
// @Description Completing a to-do also leaves to-do mode and clears the deadline.
// @Tags notes
// @Produce json
// @Param id path int true "Note ID"
// @Success 200 {object} model.Note
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /notes/{id}/toggle-done [post]
func (h *NoteHandler) ToggleDone(c echo.Context) error {
	userID, noteID, err := h.noteParams(c)
	if err != nil {
		return err
	}

	note, err := h.noteService.ToggleDone(c.Request().Context(), userID, noteID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, note)
}

// SetDeadline godoc
// @Summary Put the note into to-do mode with a deadline
// @Description The deadline must be in the future. The note is unmarked as done.
// @Tags notes
// @Accept json
// @Produce json
// @Param id path int true "Note ID"
// @Param request body SetDeadlineRequest true "Deadline"
// @Success 200 {object} model.Note
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /notes/{id}/deadline [post]
func (h *NoteHandler) SetDeadline(c echo.Context) error {
	userID, noteID, err := h.noteParams(c)
	if err != nil {
		return err
	}

	var req SetDeadlineRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	note, err := h.noteService.SetDeadline(c.Request().Context(), userID, noteID, req.Deadline)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, note)
}

// ClearTodo godoc
// @Summary Take the note out of to-do mode
// @Description Clears the deadline; the note is no longer scanned for reminders.
// @Tags notes
// @Produce json
// @Param id path int true "Note ID"
// @Success 200 {object} model.Note
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /notes/{id}/deadline [delete]
func (h *NoteHandler) ClearTodo(c echo.Context) error {
	userID, noteID, err := h.noteParams(c)
	if err != nil {
		return err
	}

	note, err := h.noteService.ClearTodo(c.Request().Context(), userID, noteID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, note)
}

func (h *NoteHandler) noteParams(c echo.Context) (userID, noteID uint, err error) {
	userID, err = CurrentUserID(c)
	if err != nil {
		return 0, 0, err
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid note id")
	}
	return userID, uint(id), nil
}
