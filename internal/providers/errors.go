package providers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"vehicle-auction/inventory/internal/constants"
)

// ProviderError represents an auction source error
type ProviderError struct {
	Code    string
	Message string
	Details string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func newProviderError(code string, err error) *ProviderError {
	return &ProviderError{
		Code:    code,
		Message: constants.GetErrorMessage(code),
		Err:     err,
	}
}

// IsAuthError reports whether err came from the credential exchange
func IsAuthError(err error) bool {
	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		return false
	}
	return provErr.Code == constants.ErrCodeAuthenticationFailed || provErr.Code == constants.ErrCodeInvalidCredentials
}

// ErrorCode returns the ProviderError code in err's chain, or ""
func ErrorCode(err error) string {
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.Code
	}
	return ""
}

// handleHTTPError converts HTTP errors to ProviderError
func handleHTTPError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &ProviderError{
			Code:    constants.ErrCodeInvalidCredentials,
			Message: constants.GetErrorMessage(constants.ErrCodeInvalidCredentials),
			Details: string(body),
		}
	case http.StatusTooManyRequests:
		return &ProviderError{
			Code:    constants.ErrCodeRateLimited,
			Message: constants.GetErrorMessage(constants.ErrCodeRateLimited),
			Details: string(body),
		}
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return &ProviderError{
			Code:    constants.ErrCodeSourceUnavailable,
			Message: constants.GetErrorMessage(constants.ErrCodeSourceUnavailable),
			Details: string(body),
		}
	default:
		return &ProviderError{
			Code:    constants.ErrCodeFetchFailed,
			Message: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body)),
			Details: string(body),
		}
	}
}
