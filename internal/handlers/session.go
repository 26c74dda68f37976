package handlers

import (
	"net/http"
	"time"

	"finance-tracker/internal/config"
	"finance-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

// ExtractSessionToken reads the bearer token, falling back to the session cookie.
// services.ErrEmptyToken means neither was sent.
func ExtractSessionToken(c echo.Context, tokenService services.TokenServiceInterface, cookieName string) (string, error) {
	if authHeader := c.Request().Header.Get(echo.HeaderAuthorization); authHeader != "" {
		return tokenService.ExtractTokenFromHeader(authHeader)
	}

	cookie, err := c.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return "", services.ErrEmptyToken
	}
	return cookie.Value, nil
}

func sessionCookie(cfg config.CookieConfig, value string, expiresAt time.Time, now time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     cfg.Name,
		Value:    value,
		Path:     cfg.Path,
		Domain:   cfg.Domain,
		Expires:  expiresAt,
		MaxAge:   int(expiresAt.Sub(now).Seconds()),
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: cfg.SameSite,
	}
}

func expiredSessionCookie(cfg config.CookieConfig) *http.Cookie {
	return &http.Cookie{
		Name:     cfg.Name,
		Value:    "",
		Path:     cfg.Path,
		Domain:   cfg.Domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: cfg.SameSite,
	}
}
