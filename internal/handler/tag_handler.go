package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"notedo/internal/errors"
	"notedo/internal/service"
)

// TagHandler handles tag endpoints.
type TagHandler struct {
	tagService service.TagService
}

// NewTagHandler creates a new tag handler.
func NewTagHandler(tagService service.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

// CreateTagRequest represents a tag creation request.
type CreateTagRequest struct {
	Name string `json:"name" validate:"required,min=3,max=25"`
}

// ListTags godoc
// @Summary List the user's tags
// @Tags tags
// @Produce json
// @Success 200 {array} model.Tag
// @Failure 401 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /tags [get]
func (h *TagHandler) ListTags(c echo.Context) error {
	userID, err := CurrentUserID(c)
	if err != nil {
		return err
	}

	tags, err := h.tagService.ListTags(c.Request().Context(), userID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, tags)
}

// CreateTag godoc
// @Summary Create a tag
// @Description Tag names are unique per user. Requires a confirmed profile.
// @Tags tags
// @Accept json
// @Produce json
// @Param request body CreateTagRequest true "Tag data"
// @Success 201 {object} model.Tag
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /tags [post]
func (h *TagHandler) CreateTag(c echo.Context) error {
	userID, err := CurrentUserID(c)
	if err != nil {
		return err
	}

	var req CreateTagRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tag, err := h.tagService.CreateTag(c.Request().Context(), userID, req.Name)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, tag)
}

// DeleteTag godoc
// @Summary Delete a tag
// @Description Refuses to delete a tag still referenced by any note.
// @Tags tags
// @Produce json
// @Param id path int true "Tag ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /tags/{id} [delete]
func (h *TagHandler) DeleteTag(c echo.Context) error {
	userID, err := CurrentUserID(c)
	if err != nil {
		return err
	}

	tagID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid tag id")
	}

	if err := h.tagService.DeleteTag(c.Request().Context(), userID, uint(tagID)); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "tag deleted",
	})
}
