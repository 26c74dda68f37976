package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ResponseTestSuite struct {
	suite.Suite
	traceID string
}

func (s *ResponseTestSuite) SetupTest() {
	s.traceID = "550e8400-e29b-41d4-a716-446655440000"
}

func TestResponseTestSuite(t *testing.T) {
	suite.Run(t, new(ResponseTestSuite))
}

func (s *ResponseTestSuite) TestNewErrorResponse_BasicUsage() {
	response := NewErrorResponse(TransactionNotFound, s.traceID)

	s.Equal("TRANSACTION_001", response.Error.Code)
	s.Equal("Transaction not found", response.Error.Message)
	s.Equal(s.traceID, response.Error.TraceID)
	s.Empty(response.Error.Details)
}

func (s *ResponseTestSuite) TestNewErrorResponse_WithOptions() {
	response := NewErrorResponse(
		ValidationGeneral,
		s.traceID,
		WithMessage("Invalid transaction"),
		WithDetails("amount: must be greater than zero", "date: is required"),
	)

	s.Equal("Invalid transaction", response.Error.Message)
	s.Equal([]string{"amount: must be greater than zero", "date: is required"}, response.Error.Details)
}

func (s *ResponseTestSuite) TestNewValidationError_SortsFields() {
	response := NewValidationError(map[string]string{
		"type":        "must be income or expense",
		"amount":      "must be greater than zero",
		"description": "is required",
	}, s.traceID)

	s.Equal(string(ValidationGeneral), response.Error.Code)
	s.Equal([]string{
		"amount: must be greater than zero",
		"description: is required",
		"type: must be income or expense",
	}, response.Error.Details)
}

func (s *ResponseTestSuite) TestNewValidationErrorFromList() {
	response := NewValidationErrorFromList([]string{"category: unknown"}, s.traceID)

	s.Equal(string(ValidationGeneral), response.Error.Code)
	s.Equal([]string{"category: unknown"}, response.Error.Details)
}

func (s *ResponseTestSuite) TestWrapSystemError_NoInternalDetailsExposed() {
	internal := errors.New("pq: relation \"transactions\" does not exist")

	response, err := WrapSystemError(internal, s.traceID)

	s.Equal(internal, err)
	s.Equal(string(SystemInternalError), response.Error.Code)
	s.NotContains(response.Error.Message, "pq:")
	s.Empty(response.Error.Details)
}

func (s *ResponseTestSuite) TestWrapDatabaseError() {
	internal := errors.New("connection refused")

	response, err := WrapDatabaseError(internal, s.traceID)

	s.Equal(internal, err)
	s.Equal(string(SystemDatabaseError), response.Error.Code)
}

func (s *ResponseTestSuite) TestToJSON_Envelope() {
	response := NewErrorResponse(AuthMissingToken, s.traceID)

	payload, err := response.ToJSON()
	s.Require().NoError(err)

	var decoded map[string]map[string]interface{}
	s.Require().NoError(json.Unmarshal(payload, &decoded))
	s.Equal("AUTH_002", decoded["error"]["code"])
	s.Equal(s.traceID, decoded["error"]["trace_id"])
}

func (s *ResponseTestSuite) TestGetHTTPStatus() {
	testCases := []struct {
		code   ErrorCode
		status int
	}{
		{ValidationGeneral, http.StatusBadRequest},
		{ValidationUnknownCategory, http.StatusBadRequest},
		{TransactionInvalidAmount, http.StatusBadRequest},
		{AuthInvalidCredentials, http.StatusUnauthorized},
		{AuthExpiredToken, http.StatusUnauthorized},
		{AuthForbidden, http.StatusForbidden},
		{TransactionNotFound, http.StatusNotFound},
		{ProfileNotFound, http.StatusNotFound},
		{AuthEmailTaken, http.StatusConflict},
		{AuthAccountLocked, http.StatusTooManyRequests},
		{SystemRateLimitExceeded, http.StatusTooManyRequests},
		{SystemServiceUnavailable, http.StatusServiceUnavailable},
		{SystemDatabaseError, http.StatusInternalServerError},
		{ErrorCode("UNKNOWN"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		s.Run(string(tc.code), func() {
			s.Equal(tc.status, GetHTTPStatus(tc.code))
		})
	}
}

func (s *ResponseTestSuite) TestClientAndServerClassification() {
	client := NewErrorResponse(TransactionNotFound, s.traceID)
	server := NewErrorResponse(SystemInternalError, s.traceID)

	s.True(client.IsClientError())
	s.False(client.IsServerError())
	s.True(server.IsServerError())
	s.False(server.IsClientError())
}

func (s *ResponseTestSuite) TestString() {
	response := NewErrorResponse(AuthForbidden, s.traceID)

	s.Equal("[AUTH_006] You are not allowed to access this resource (trace: "+s.traceID+")", response.String())
}
