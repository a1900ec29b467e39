package services

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound              = errors.New("not found")
	ErrEventNotFound         = errors.New("event not found")
	ErrForbidden             = errors.New("you do not have permission to perform this action")
	ErrUnauthenticated       = errors.New("authentication credentials were not provided")
	ErrDuplicateRegistration = errors.New("participant already registered for this event")
	ErrInvalidCredentials    = errors.New("no active account found with the given credentials")
)

// ValidationError maps request fields to the reason they were rejected.
type ValidationError struct {
	Fields map[string]string
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) add(field, message string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

func (e *ValidationError) empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// orNil keeps callers from returning a typed nil inside an error interface.
func (e *ValidationError) orNil() error {
	if e == nil || e.empty() {
		return nil
	}
	return e
}
