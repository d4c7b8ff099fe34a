package admin

import (
	"encoding/json"
	"net/http"
)

// Standard error codes for API responses.
const (
	// ErrCodeInvalidRequest indicates a malformed request body or parameter.
	ErrCodeInvalidRequest = "invalid_request"

	// ErrCodeInvalidCredentials indicates a failed login.
	ErrCodeInvalidCredentials = "invalid_credentials"

	// ErrCodeUnauthenticated indicates no usable session.
	ErrCodeUnauthenticated = "unauthenticated"

	// ErrCodeForbidden indicates an authenticated caller without the required role.
	ErrCodeForbidden = "forbidden"

	// ErrCodeWeakPassword indicates a password failing the strength rules.
	ErrCodeWeakPassword = "weak_password"

	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound = "not_found"

	// ErrCodeDuplicate indicates a uniqueness conflict.
	ErrCodeDuplicate = "duplicate"

	// ErrCodeCannotDeleteSelf indicates an admin tried to delete their own account.
	ErrCodeCannotDeleteSelf = "cannot_delete_self"

	// ErrCodeNotConfigured indicates a feature whose configuration is absent.
	ErrCodeNotConfigured = "not_configured"

	// ErrCodeRequestTooLarge indicates a request body over the size cap.
	ErrCodeRequestTooLarge = "request_too_large"

	// ErrCodeInternalError indicates a server error.
	ErrCodeInternalError = "internal_error"
)

// APIError is the standard error response format for JSON APIs.
type APIError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

// WriteError writes a JSON error response with the given status code, error code, and message.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteErrorWithHint(w, status, code, message, "")
}

// WriteErrorWithHint writes a JSON error response with an optional hint for resolving the error.
func WriteErrorWithHint(w http.ResponseWriter, status int, code, message, hint string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := APIError{
		Error:   code,
		Message: message,
		Hint:    hint,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		// Response already started, nothing we can do
		_ = err
	}
}
