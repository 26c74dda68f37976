package errors

// ErrorCode represents a standardized error code used throughout the API
type ErrorCode string

// Authentication error codes (AUTH_*)
const (
	AuthInvalidCredentials ErrorCode = "AUTH_001"
	AuthMissingToken       ErrorCode = "AUTH_002"
	AuthExpiredToken       ErrorCode = "AUTH_003"
	AuthInvalidToken       ErrorCode = "AUTH_004"
	AuthAccountLocked      ErrorCode = "AUTH_005"
	AuthForbidden          ErrorCode = "AUTH_006"
	AuthEmailTaken         ErrorCode = "AUTH_007"
)

// Validation error codes (VALIDATION_*)
const (
	ValidationGeneral         ErrorCode = "VALIDATION_001"
	ValidationRequiredField   ErrorCode = "VALIDATION_002"
	ValidationInvalidFormat   ErrorCode = "VALIDATION_003"
	ValidationOutOfRange      ErrorCode = "VALIDATION_004"
	ValidationInvalidEmail    ErrorCode = "VALIDATION_005"
	ValidationInvalidDate     ErrorCode = "VALIDATION_006"
	ValidationWeakPassword    ErrorCode = "VALIDATION_007"
	ValidationUnknownCategory ErrorCode = "VALIDATION_008"
)

// Transaction error codes (TRANSACTION_*)
const (
	TransactionNotFound      ErrorCode = "TRANSACTION_001"
	TransactionInvalidAmount ErrorCode = "TRANSACTION_002"
	TransactionInvalidType   ErrorCode = "TRANSACTION_003"
	TransactionBatchTooLarge ErrorCode = "TRANSACTION_004"
)

// Profile error codes (PROFILE_*)
const (
	ProfileNotFound ErrorCode = "PROFILE_001"
)

// System error codes (SYSTEM_*)
const (
	SystemInternalError      ErrorCode = "SYSTEM_001"
	SystemDatabaseError      ErrorCode = "SYSTEM_002"
	SystemServiceUnavailable ErrorCode = "SYSTEM_003"
	SystemConfigurationError ErrorCode = "SYSTEM_004"
	SystemUnexpectedError    ErrorCode = "SYSTEM_005"
	SystemRateLimitExceeded  ErrorCode = "SYSTEM_006"
)

var errorMessages = map[ErrorCode]string{
	AuthInvalidCredentials: "Invalid email or password",
	AuthMissingToken:       "Authentication token is required",
	AuthExpiredToken:       "Authentication token has expired",
	AuthInvalidToken:       "Invalid authentication token",
	AuthAccountLocked:      "Account is temporarily locked after too many failed logins",
	AuthForbidden:          "You are not allowed to access this resource",
	AuthEmailTaken:         "An account with this email already exists",

	ValidationGeneral:         "Validation failed",
	ValidationRequiredField:   "Required field is missing",
	ValidationInvalidFormat:   "Invalid field format",
	ValidationOutOfRange:      "Field value is out of allowed range",
	ValidationInvalidEmail:    "Invalid email address format",
	ValidationInvalidDate:     "Invalid date, expected YYYY-MM-DD",
	ValidationWeakPassword:    "Password does not meet the password policy",
	ValidationUnknownCategory: "Category is not valid for this transaction type",

	TransactionNotFound:      "Transaction not found",
	TransactionInvalidAmount: "Transaction amount must be greater than zero",
	TransactionInvalidType:   "Transaction type must be income or expense",
	TransactionBatchTooLarge: "Too many transactions in a single request",

	ProfileNotFound: "Profile not found",

	SystemInternalError:      "An unexpected error occurred. Please contact support with trace ID",
	SystemDatabaseError:      "Database connection error",
	SystemServiceUnavailable: "Service temporarily unavailable",
	SystemConfigurationError: "System configuration error",
	SystemUnexpectedError:    "An unexpected error occurred",
	SystemRateLimitExceeded:  "Rate limit exceeded. Please try again later",
}

// GetErrorMessage returns the default message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "An error occurred"
}

func IsValidErrorCode(code ErrorCode) bool {
	_, ok := errorMessages[code]
	return ok
}
