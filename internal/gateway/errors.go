package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// Error classes returned by the client; match them with errors.Is.
var (
	// ErrNetwork means the request never produced an HTTP response.
	ErrNetwork = errors.New("gateway: backend unreachable")
	// ErrUnauthorized covers 401 and 403 responses.
	ErrUnauthorized = errors.New("gateway: unauthorized")
	// ErrNotFound covers 404 responses.
	ErrNotFound = errors.New("gateway: not found")
	// ErrServer covers every other non-2xx response and undecodable bodies.
	ErrServer = errors.New("gateway: server error")
)

// Error describes a failed backend call.
type Error struct {
	Method  string
	Path    string
	Status  int
	Message string

	kind  error
	cause error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		if e.cause == nil {
			return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.class())
		}
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.cause)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: %d", e.Method, e.Path, e.Status)
}

// Unwrap exposes both the error class and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.cause == nil {
		return []error{e.class()}
	}
	return []error{e.class(), e.cause}
}

// class derives the error class from the status when none was recorded.
func (e *Error) class() error {
	switch {
	case e.kind != nil:
		return e.kind
	case e.Status == 0:
		return ErrNetwork
	}
	return classify(e.Status)
}

// UserMessage is the text shown to the operator.
func (e *Error) UserMessage() string {
	switch e.class() {
	case ErrNetwork:
		return "Cannot reach the server, please try again"
	case ErrUnauthorized:
		if e.Status == http.StatusForbidden {
			return "You are not allowed to perform this action"
		}
		return "Your session has expired, please sign in again"
	case ErrNotFound:
		return "The requested record was not found"
	}
	if e.Message != "" {
		return e.Message
	}
	return "The server could not complete the request"
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.Status
	}
	return 0
}

func classify(status int) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	}
	return ErrServer
}
