package errors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type CodesTestSuite struct {
	suite.Suite
}

func TestCodesTestSuite(t *testing.T) {
	suite.Run(t, new(CodesTestSuite))
}

func (s *CodesTestSuite) TestGetErrorMessage_ValidCode() {
	testCases := []struct {
		code     ErrorCode
		expected string
	}{
		{AuthInvalidCredentials, "Invalid email or password"},
		{AuthMissingToken, "Authentication token is required"},
		{ValidationGeneral, "Validation failed"},
		{ValidationUnknownCategory, "Category is not valid for this transaction type"},
		{TransactionNotFound, "Transaction not found"},
		{SystemRateLimitExceeded, "Rate limit exceeded. Please try again later"},
	}

	for _, tc := range testCases {
		s.Run(string(tc.code), func() {
			s.Equal(tc.expected, GetErrorMessage(tc.code))
		})
	}
}

func (s *CodesTestSuite) TestGetErrorMessage_UnknownCode() {
	s.Equal("An error occurred", GetErrorMessage(ErrorCode("NOPE_999")))
}

func (s *CodesTestSuite) TestEveryCodeHasMessageAndPrefix() {
	prefixes := []string{"AUTH_", "VALIDATION_", "TRANSACTION_", "PROFILE_", "SYSTEM_"}

	for code, message := range errorMessages {
		s.NotEmpty(message, "code %s has no message", code)
		s.True(IsValidErrorCode(code))

		matched := false
		for _, prefix := range prefixes {
			if strings.HasPrefix(string(code), prefix) {
				matched = true
				break
			}
		}
		s.True(matched, "code %s has an unknown prefix", code)
	}
}

func (s *CodesTestSuite) TestIsValidErrorCode_Unknown() {
	s.False(IsValidErrorCode(""))
	s.False(IsValidErrorCode("CUSTOMER_001"))
}
