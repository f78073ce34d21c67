package authclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

var (
	ErrNoSession    = errors.New("no active session")
	ErrNoServiceKey = errors.New("service role key is not configured")
)

// APIError is a failure reported by the auth service. Error returns the
// provider's message unchanged so callers can show it as is.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsStatus reports whether err is an APIError with one of the given statuses.
func IsStatus(err error, statuses ...int) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, s := range statuses {
		if apiErr.Status == s {
			return true
		}
	}
	return false
}

// errorBody covers the shapes the auth service has used over time.
type errorBody struct {
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Message          string `json:"message"`
}

func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		apiErr.Message = fmt.Sprintf("auth service returned status %d", status)
		return apiErr
	}

	apiErr.Code = eb.ErrorCode
	if apiErr.Code == "" {
		apiErr.Code = eb.Error
	}

	switch {
	case eb.Msg != "":
		apiErr.Message = eb.Msg
	case eb.ErrorDescription != "":
		apiErr.Message = eb.ErrorDescription
	case eb.Message != "":
		apiErr.Message = eb.Message
	case eb.Error != "":
		apiErr.Message = eb.Error
	default:
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

// statusPrefix starts every non-2xx error of the GoTrue client; the raw
// response body follows the ": " separator.
const statusPrefix = "response status code "

// translate turns a GoTrue client error into an APIError when it carries a
// response status. Transport failures keep their cause for errors.Is.
func translate(err error) error {
	if err == nil {
		return nil
	}
	rest, ok := strings.CutPrefix(err.Error(), statusPrefix)
	if !ok {
		return fmt.Errorf("auth service request failed: %w", err)
	}
	code, body, _ := strings.Cut(rest, ": ")
	status, convErr := strconv.Atoi(code)
	if convErr != nil {
		return fmt.Errorf("auth service request failed: %w", err)
	}
	return parseAPIError(status, []byte(body))
}
