package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Kind classifies a failed call.
type Kind int

const (
	UnknownFailure    Kind = iota
	NetworkFailure         // no response
	ValidationFailure      // 4xx carrying errors[]
	AuthFailure            // 401
)

func (k Kind) String() string {
	switch k {
	case NetworkFailure:
		return "network"
	case ValidationFailure:
		return "validation"
	case AuthFailure:
		return "auth"
	default:
		return "unknown"
	}
}

// NetworkError reports a call that never got a response.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ResponseError reports an error response from the server.
type ResponseError struct {
	Status int
	Errors []string
	Body   []byte
}

func newResponseError(resp *Response) *ResponseError {
	rerr := &ResponseError{Status: resp.Status, Body: resp.Body}
	var data struct {
		Errors []string `json:"errors"`
	}
	if json.Unmarshal(resp.Body, &data) == nil {
		rerr.Errors = data.Errors
	}
	return rerr
}

func (e *ResponseError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("%d %s: %s", e.Status, http.StatusText(e.Status), e.Errors[0])
	}
	return fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status))
}

// Classify maps err onto the failure taxonomy.
func Classify(err error) Kind {
	var nerr *NetworkError
	if errors.As(err, &nerr) {
		return NetworkFailure
	}
	var rerr *ResponseError
	if errors.As(err, &rerr) {
		switch {
		case rerr.Status == http.StatusUnauthorized:
			return AuthFailure
		case rerr.Status < http.StatusInternalServerError && len(rerr.Errors) > 0:
			return ValidationFailure
		}
	}
	return UnknownFailure
}

// StatusCode returns the response status carried by err, or 0 when there was no response.
func StatusCode(err error) int {
	var rerr *ResponseError
	if errors.As(err, &rerr) {
		return rerr.Status
	}
	return 0
}

// ErrorMessages returns the errors[] carried by an error response, in order.
func ErrorMessages(err error) []string {
	var rerr *ResponseError
	if errors.As(err, &rerr) {
		return rerr.Errors
	}
	return nil
}
