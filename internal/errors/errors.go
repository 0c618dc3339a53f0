package errors

import (
	"fmt"
	"net/http"

	"github.com/samber/oops"
)

// Error codes carried by oops errors and echoed in error responses.
const (
	CodeValidation         = "VALIDATION"
	CodeConflict           = "CONFLICT"
	CodeAuthentication     = "AUTHENTICATION"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeAuthorization      = "AUTHORIZATION"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeUpload             = "UPLOAD"
	CodeInternal           = "INTERNAL"
)

const internalMessage = "Internal server error"

var (
	// ErrMissingFields is returned when a required input is absent.
	ErrMissingFields = Validation("Please fill all required fields.")
	// ErrPasswordTooLong is returned for passwords bcrypt cannot hash.
	ErrPasswordTooLong = Validation("Password must be at most 72 bytes.")
	// ErrUserExists is returned when registering an email that is already taken.
	ErrUserExists = Conflict("User already exists with this email.")
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = oops.Code(CodeInvalidCredentials).Errorf("Incorrect email or password.")
	// ErrRoleMismatch is returned when the password is right but the role is not.
	ErrRoleMismatch = oops.Code(CodeAuthorization).Errorf("Account doesn't exist with the selected role.")
	// ErrUnauthenticated is returned when no session identifies the caller.
	ErrUnauthenticated = oops.Code(CodeAuthentication).Errorf("User not authenticated")
	// ErrUserNotFound is returned when the session user no longer exists.
	ErrUserNotFound = NotFound("User not found")
	// ErrCompanyNotFound is returned when a company id matches nothing.
	ErrCompanyNotFound = NotFound("Company not found")
	// ErrCompanyExists is returned when registering a duplicate company name.
	ErrCompanyExists = Conflict("You can't register same company.")
	// ErrNotCompanyOwner is returned when a recruiter acts on another recruiter's company.
	ErrNotCompanyOwner = Forbidden("You can only manage your own companies.")
	// ErrJobNotFound is returned when a job id matches nothing.
	ErrJobNotFound = NotFound("Job not found")
)

// Validation builds a 400 error with a caller-visible message.
func Validation(format string, args ...any) error {
	return oops.Code(CodeValidation).Errorf(format, args...)
}

// Conflict builds a duplicate-key error.
func Conflict(format string, args ...any) error {
	return oops.Code(CodeConflict).Errorf(format, args...)
}

// NotFound builds a 404 error.
func NotFound(format string, args ...any) error {
	return oops.Code(CodeNotFound).Errorf(format, args...)
}

// Forbidden builds a 403 error for role-gated routes.
func Forbidden(format string, args ...any) error {
	return oops.Code(CodeForbidden).Errorf(format, args...)
}

// Upload wraps a media upload failure.
func Upload(err error, folder string) error {
	return oops.Code(CodeUpload).With("folder", folder).Wrapf(err, "upload to %s", folder)
}

// Internal wraps an unexpected failure. The message never reaches the caller.
func Internal(err error, msg string) error {
	return oops.Code(CodeInternal).Wrapf(err, "%s", msg)
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Success: false,
		Message: e.Message,
		Code:    e.Code,
	}
}

// IsInternal reports whether the error maps to a 5xx response.
func (e *HTTPError) IsInternal() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

// CodeOf returns the oops code attached to err, or "" when there is none.
func CodeOf(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	code := oopsErr.Code()
	if code == nil {
		return ""
	}
	return fmt.Sprint(code)
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything without a
// known code becomes a generic 500.
func MapErrorToHTTP(err error) *HTTPError {
	code := CodeOf(err)
	switch code {
	case CodeValidation, CodeConflict, CodeInvalidCredentials, CodeAuthorization:
		return NewHTTPError(http.StatusBadRequest, publicMessage(err), code)
	case CodeAuthentication:
		return NewHTTPError(http.StatusUnauthorized, publicMessage(err), code)
	case CodeForbidden:
		return NewHTTPError(http.StatusForbidden, publicMessage(err), code)
	case CodeNotFound:
		return NewHTTPError(http.StatusNotFound, publicMessage(err), code)
	default:
		return NewHTTPError(http.StatusInternalServerError, internalMessage, CodeInternal)
	}
}

// publicMessage returns the message of the outermost oops error, without
// the text of any wrapped cause.
func publicMessage(err error) string {
	if oopsErr, ok := oops.AsOops(err); ok {
		if msg := oopsErr.Error(); msg != "" {
			return msg
		}
	}
	return err.Error()
}
