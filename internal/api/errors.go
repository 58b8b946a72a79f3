package api

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoPlayer is reported by the service when a player endpoint is called
// before a character exists.
var ErrNoPlayer = errors.New("no player created")

// StatusError is a non-2xx response from the service.
type StatusError struct {
	Method  string
	Path    string
	Code    int
	Message string // "error" field of the body, if any
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Code)
}

// Is lets errors.Is(err, ErrNoPlayer) match the service's 400 reply.
func (e *StatusError) Is(target error) bool {
	return target == ErrNoPlayer && strings.EqualFold(e.Message, ErrNoPlayer.Error())
}

// ParseError is a response body that does not match the endpoint schema.
type ParseError struct {
	Endpoint string
	Field    string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("parse %s: field %s: %v", e.Endpoint, e.Field, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Endpoint, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var (
	errMissing = errors.New("missing or empty")
	errShape   = errors.New("unexpected shape")
)

func missing(endpoint, field string) error {
	return &ParseError{Endpoint: endpoint, Field: field, Err: errMissing}
}
