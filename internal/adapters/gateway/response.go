package gateway

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/taskboard/api/internal/application/services"
)

// BuildResponse serializes body to JSON and wraps it in a response envelope
func BuildResponse(status int, body interface{}) Response {
	return BuildResponseWithHeaders(status, body, nil)
}

// BuildResponseWithHeaders is BuildResponse with explicit response headers
func BuildResponseWithHeaders(status int, body interface{}, headers map[string]string) Response {
	encoded, err := json.Marshal(body)
	if err != nil {
		// Unreachable for the value types handlers pass in, but no error may
		// ever leave with an un-parseable body.
		return Response{
			StatusCode: http.StatusInternalServerError,
			Body:       `{"message":"Internal server error"}`,
			Headers:    headers,
		}
	}

	return Response{
		StatusCode: status,
		Body:       string(encoded),
		Headers:    headers,
	}
}

func messageResponse(status int, message string) Response {
	return BuildResponse(status, map[string]string{"message": message})
}

// storageErrorResponse converts a persistence failure into a 500 envelope,
// passing the error detail through as diagnostic text.
func storageErrorResponse(message string, err error) Response {
	return BuildResponse(http.StatusInternalServerError, map[string]string{
		"message": message,
		"detail":  err.Error(),
	})
}

// authFailure maps a credential verification error to its 401 envelope. The
// three failure modes keep distinct messages so clients can tell an absent
// credential from a stale or forged one.
func authFailure(err error) Response {
	var message string
	switch {
	case errors.Is(err, services.ErrMissingToken):
		message = "Authorization token is required"
	case errors.Is(err, services.ErrTokenExpired):
		message = "Token has expired"
	default:
		message = "Invalid token"
	}

	return messageResponse(http.StatusUnauthorized, message)
}
