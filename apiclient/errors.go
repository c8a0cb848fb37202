package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

var (
	// NoValidCredentialErr means no usable access token existed and refresh
	// could not produce one. The protected call was never dispatched.
	NoValidCredentialErr = errors.New("no valid access token")

	// RefreshFailedErr means the backend rejected the refresh token, the
	// refresh call failed in transport, or no refresh token was stored.
	RefreshFailedErr = errors.New("token refresh failed")

	// AuthFailedErr means a protected call received a 401 even after one
	// refresh-and-retry cycle. It is terminal for the session.
	AuthFailedErr = errors.New("authentication failed")
)

// APIError is any non-2xx backend response other than the 401s the client
// handles itself. It carries the parsed backend error payload when present.
type APIError struct {
	StatusCode int
	Message    string
	Body       json.RawMessage
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Message: http.StatusText(status)}
	if len(body) == 0 {
		return apiErr
	}
	apiErr.Body = json.RawMessage(append([]byte(nil), body...))

	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		apiErr.Message = parsed.Message
	}
	return apiErr
}
