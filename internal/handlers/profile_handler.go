package handlers

import (
	"net/http"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/errors"
	"finance-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

// ProfileHandler serves the caller's own profile
type ProfileHandler struct {
	profileService services.ProfileServiceInterface
}

func NewProfileHandler(profileService services.ProfileServiceInterface) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GetProfile returns the caller's profile
// @Summary Get profile
// @Tags Profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.ProfileResponse
// @Router /user/profile [get]
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	user, err := h.profileService.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewProfileResponse(user))
}

// GetProfileByEmail returns the caller's profile when the email is theirs
// @Summary Get profile by email
// @Tags Profile
// @Security BearerAuth
// @Produce json
// @Param email path string true "Email"
// @Success 200 {object} dto.ProfileResponse
// @Failure 403 {object} errors.ErrorResponse "AUTH_006"
// @Router /user/profile/{email} [get]
func (h *ProfileHandler) GetProfileByEmail(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	user, err := h.profileService.GetProfileByEmail(c.Request().Context(), userID, c.Param("email"))
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewProfileResponse(user))
}

// UpdateProfile changes name, email, position or phone
// @Summary Update profile
// @Tags Profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} dto.ProfileResponse
// @Failure 409 {object} errors.ErrorResponse "AUTH_007"
// @Router /user/profile [put]
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.profileService.UpdateProfile(c.Request().Context(), userID, &req, getClientIP(c), c.Request().UserAgent())
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewProfileResponse(user))
}

// GetActivity pages through the caller's audit trail
// @Summary Account activity
// @Tags Profile
// @Security BearerAuth
// @Produce json
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Page size (max 100)" default(20)
// @Success 200 {object} dto.ActivityResponse
// @Router /user/activity [get]
func (h *ProfileHandler) GetActivity(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	offset, limit := services.ActivityPage(
		getIntParam(c, "offset", 0),
		getIntParam(c, "limit", services.DefaultActivityLimit),
	)

	logs, total, err := h.profileService.GetActivity(c.Request().Context(), userID, offset, limit)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewActivityResponse(logs, total, offset, limit))
}
