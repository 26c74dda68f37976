package handlers

import (
	"net/http"
	"time"

	"finance-tracker/internal/config"
	"finance-tracker/internal/dto"
	"finance-tracker/internal/errors"
	"finance-tracker/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService  services.AuthServiceInterface
	tokenService services.TokenServiceInterface
	cookie       config.CookieConfig
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService services.AuthServiceInterface, tokenService services.TokenServiceInterface, cookie config.CookieConfig) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		tokenService: tokenService,
		cookie:       cookie,
	}
}

// Register handles user registration
// @Summary Register a new user
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration details"
// @Success 201 {object} dto.ProfileResponse
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 or VALIDATION_007"
// @Failure 409 {object} errors.ErrorResponse "AUTH_007 - Email already registered"
// @Router /user/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest

	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), &req, getClientIP(c), c.Request().UserAgent())
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, dto.NewProfileResponse(user))
}

// Login handles user authentication and sets the session cookie
// @Summary Login user
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} errors.ErrorResponse "AUTH_001 - Invalid credentials"
// @Failure 429 {object} errors.ErrorResponse "AUTH_005 - Account locked"
// @Router /user/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest

	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	req.Normalize()
	if err := c.Validate(&req); err != nil {
		return err
	}

	resp, err := h.authService.Login(c.Request().Context(), &req, getClientIP(c), c.Request().UserAgent())
	if err != nil {
		return sendServiceError(c, err)
	}

	c.SetCookie(sessionCookie(h.cookie, resp.AccessToken, resp.ExpiresAt, time.Now()))

	return c.JSON(http.StatusOK, resp)
}

// Logout clears the session cookie. A valid token, if any, is used to audit the logout.
// @Summary Logout user
// @Tags Authentication
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /user/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	var userID *uuid.UUID

	if token, err := ExtractSessionToken(c, h.tokenService, h.cookie.Name); err == nil {
		if claims, err := h.tokenService.ValidateAccessToken(token); err == nil {
			if id, err := uuid.Parse(claims.UserID); err == nil {
				userID = &id
			}
		}
	}

	h.authService.Logout(c.Request().Context(), userID, getClientIP(c), c.Request().UserAgent())
	c.SetCookie(expiredSessionCookie(h.cookie))

	return c.JSON(http.StatusOK, SuccessResponse{
		Message: "Logout successful",
	})
}
