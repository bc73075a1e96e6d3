package domain

import (
	"strings"

	"github.com/NuSa-Nutrition-Scan/API-V1/internal/result"
)

// ProviderCode is an error code documented by the identity provider's REST API.
type ProviderCode string

const (
	CodeEmailNotFound           ProviderCode = "EMAIL_NOT_FOUND"
	CodeInvalidPassword         ProviderCode = "INVALID_PASSWORD"
	CodeInvalidLoginCredentials ProviderCode = "INVALID_LOGIN_CREDENTIALS"
	CodeUserDisabled            ProviderCode = "USER_DISABLED"
	CodeTooManyAttempts         ProviderCode = "TOO_MANY_ATTEMPTS_TRY_LATER"
	CodeTokenExpired            ProviderCode = "TOKEN_EXPIRED"
	CodeUserNotFound            ProviderCode = "USER_NOT_FOUND"
	CodeInvalidRefreshToken     ProviderCode = "INVALID_REFRESH_TOKEN"
	CodeMissingRefreshToken     ProviderCode = "MISSING_REFRESH_TOKEN"
	CodeInvalidGrantType        ProviderCode = "INVALID_GRANT_TYPE"
)

const (
	msgUnknownUser         = "Unknown user"
	msgBadCredentials      = "Bad credentials"
	msgTooManyAttempts     = "Too many attempt. Please try again later"
	msgSessionExpired      = "Session has expired. Please sign in again"
	msgInvalidRefreshToken = "Invalid refresh token"
)

// ParseProviderCode extracts the code token from a provider error message.
// Messages look like "INVALID_PASSWORD" or "TOO_MANY_ATTEMPTS_TRY_LATER : detail".
func ParseProviderCode(message string) ProviderCode {
	code := strings.TrimSpace(message)
	if i := strings.IndexAny(code, " :"); i >= 0 {
		code = code[:i]
	}
	return ProviderCode(code)
}

// SignInMessage maps a sign-in failure code to its user-facing message.
func (c ProviderCode) SignInMessage() string {
	switch c {
	case CodeEmailNotFound, CodeUserDisabled:
		return msgUnknownUser
	case CodeInvalidPassword, CodeInvalidLoginCredentials:
		return msgBadCredentials
	case CodeTooManyAttempts:
		return msgTooManyAttempts
	default:
		return msgBadCredentials
	}
}

// RefreshMessage maps a token refresh failure code to its user-facing message.
func (c ProviderCode) RefreshMessage() string {
	switch c {
	case CodeTokenExpired:
		return msgSessionExpired
	case CodeUserDisabled, CodeUserNotFound:
		return msgUnknownUser
	case CodeInvalidRefreshToken, CodeMissingRefreshToken, CodeInvalidGrantType:
		return msgInvalidRefreshToken
	default:
		return msgBadCredentials
	}
}

// ProviderError is a rejected REST call, already translated to a stable message.
type ProviderError struct {
	Code   ProviderCode
	Status int
	Msg    string
}

// NewSignInError translates a sign-in rejection.
func NewSignInError(status int, code ProviderCode) *ProviderError {
	return &ProviderError{Code: code, Status: status, Msg: code.SignInMessage()}
}

// NewRefreshError translates a refresh rejection.
func NewRefreshError(status int, code ProviderCode) *ProviderError {
	return &ProviderError{Code: code, Status: status, Msg: code.RefreshMessage()}
}

func (e *ProviderError) Error() string {
	return string(e.Code) + ": " + e.Msg
}

// Unwrap exposes the envelope error to errors.As.
func (e *ProviderError) Unwrap() error {
	return result.NewError(e.Status, e.Msg)
}
