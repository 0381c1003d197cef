package constants

// Auction source error codes

// Credential-related errors
const (
	ErrCodeInvalidCredentials   = "INVALID_CREDENTIALS"
	ErrCodeAuthenticationFailed = "AUTHENTICATION_FAILED"
	ErrCodeRateLimited          = "RATE_LIMITED"
	ErrCodeNetworkError         = "NETWORK_ERROR"
)

// Fetch-related errors
const (
	ErrCodeFetchFailed       = "FETCH_FAILED"
	ErrCodeInvalidDataFormat = "INVALID_DATA_FORMAT"
	ErrCodeColorMapFailed    = "COLOR_MAP_FAILED"
	ErrCodeSourceUnavailable = "SOURCE_UNAVAILABLE"
)

// Error Messages
// Human-readable messages corresponding to error codes

var SourceErrorMessages = map[string]string{
	ErrCodeInvalidCredentials:   "The auction API client credentials were rejected",
	ErrCodeAuthenticationFailed: "Authentication with the auction API failed",
	ErrCodeRateLimited:          "Rate limit exceeded. Please try again later",
	ErrCodeNetworkError:         "Unable to connect to the auction API",

	ErrCodeFetchFailed:       "The auction search request failed",
	ErrCodeInvalidDataFormat: "The auction API returned a response that could not be parsed",
	ErrCodeColorMapFailed:    "The exterior color taxonomy could not be loaded",
	ErrCodeSourceUnavailable: "The auction API is temporarily unavailable",
}

// GetErrorMessage returns the human-readable message for an error code
func GetErrorMessage(code string) string {
	if msg, exists := SourceErrorMessages[code]; exists {
		return msg
	}
	return "An unknown error occurred"
}
