package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"notedo/internal/errors"
	"notedo/internal/service"
)

// ProfileHandler handles profile endpoints.
type ProfileHandler struct {
	profileService service.ProfileService
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// UpdateBioRequest represents a bio update request.
type UpdateBioRequest struct {
	Bio string `json:"bio" validate:"max=500"`
}

// GetProfile godoc
// @Summary Get the user's profile
// @Tags profile
// @Produce json
// @Success 200 {object} model.Profile
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	userID, err := CurrentUserID(c)
	if err != nil {
		return err
	}

	profile, err := h.profileService.GetProfile(c.Request().Context(), userID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, profile)
}

// UpdateBio godoc
// @Summary Update the profile bio
// @Tags profile
// @Accept json
// @Produce json
// @Param request body UpdateBioRequest true "Bio"
// @Success 200 {object} model.Profile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /profile/bio [put]
func (h *ProfileHandler) UpdateBio(c echo.Context) error {
	userID, err := CurrentUserID(c)
	if err != nil {
		return err
	}

	var req UpdateBioRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	profile, err := h.profileService.UpdateBio(c.Request().Context(), userID, req.Bio)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, profile)
}

// UpdateAvatar godoc
// @Summary Upload a new avatar
// @Description Accepts a multipart image upload. Images are scaled to fit 100x100.
// @Tags profile
// @Accept multipart/form-data
// @Produce json
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} model.Profile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /profile/avatar [put]
func (h *ProfileHandler) UpdateAvatar(c echo.Context) error {
	userID, err := CurrentUserID(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "avatar file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read avatar file")
	}
	defer file.Close()

	profile, err := h.profileService.UpdateAvatar(c.Request().Context(), userID, file, fileHeader.Filename)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, profile)
}
