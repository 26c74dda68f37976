package middleware

import (
	stderrors "errors"

	"finance-tracker/internal/errors"
	"finance-tracker/internal/handlers"
	"finance-tracker/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequireAuth creates a middleware that requires a valid JWT, sent either as a
// bearer token or in the session cookie named cookieName
func RequireAuth(tokenService services.TokenServiceInterface, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := handlers.ExtractSessionToken(c, tokenService, cookieName)
			if err != nil {
				if stderrors.Is(err, services.ErrEmptyToken) {
					return handlers.SendError(c, errors.AuthMissingToken)
				}
				return handlers.SendError(c, errors.AuthInvalidToken)
			}

			claims, err := tokenService.ValidateAccessToken(token)
			if err != nil {
				if stderrors.Is(err, services.ErrExpiredToken) {
					return handlers.SendError(c, errors.AuthExpiredToken)
				}
				return handlers.SendError(c, errors.AuthInvalidToken)
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil || userID == uuid.Nil {
				return handlers.SendError(c, errors.AuthInvalidToken, errors.WithDetails("Invalid user ID in token"))
			}

			c.Set(handlers.UserIDContextKey, userID)
			c.Set(handlers.UserEmailContextKey, claims.Email)

			return next(c)
		}
	}
}
