package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonBody(v interface{}) io.Reader {
	if s, ok := v.(string); ok {
		return bytes.NewBufferString(s)
	}
	body, _ := json.Marshal(v)
	return bytes.NewBuffer(body)
}

// newContext builds a request context; a non-nil userID marks it authenticated
func newContext(e *echo.Echo, method, target string, body interface{}, userID *uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	var reader io.Reader
	if body != nil {
		reader = jsonBody(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != nil {
		c.Set(UserIDContextKey, *userID)
	}
	return c, rec
}

func decodeError(rec *httptest.ResponseRecorder) ErrorResponse {
	var resp ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return resp
}
