package idtoken

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/signin-tools/go-idtoken/core"
)

// ErrorHandler is called when the Middleware rejects a request. err is either
// the extraction error or the verification error; verification errors match
// the package's Err values with errors.Is.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// ErrorResponse is the JSON body written by DefaultErrorHandler.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
	ErrorCode        string `json:"error_code,omitempty"`
}

// DefaultErrorHandler writes a JSON error body with a status derived from err:
//
//   - 400 when no token was sent
//   - 401 when the token is invalid, expired, or fails the claim policy
//   - 503 when Google's keys could not be obtained
//   - 500 otherwise
//
// 401 responses carry a WWW-Authenticate header.
func DefaultErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	status, resp := ErrorStatus(err)

	w.Header().Set("Content-Type", "application/json")
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// ErrorStatus maps err to an HTTP status and response body. The framework
// adapters share it so every transport answers the same way.
func ErrorStatus(err error) (int, ErrorResponse) {
	code := core.Code(err)

	switch {
	case errors.Is(err, ErrTokenMissing):
		return http.StatusBadRequest, ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "ID token is missing",
			ErrorCode:        code,
		}
	case core.IsKeySetError(err):
		return http.StatusServiceUnavailable, ErrorResponse{
			Error:            "temporarily_unavailable",
			ErrorDescription: "Google signing keys are unavailable",
			ErrorCode:        code,
		}
	case errors.Is(err, ErrTokenExpired):
		return http.StatusUnauthorized, ErrorResponse{
			Error:            "invalid_token",
			ErrorDescription: "ID token expired",
			ErrorCode:        code,
		}
	case code != "":
		return http.StatusUnauthorized, ErrorResponse{
			Error:            "invalid_token",
			ErrorDescription: "ID token is invalid",
			ErrorCode:        code,
		}
	case errors.Is(err, ErrTokenExtraction):
		return http.StatusBadRequest, ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Authorization header is malformed",
		}
	default:
		return http.StatusInternalServerError, ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Something went wrong while checking the ID token",
		}
	}
}
