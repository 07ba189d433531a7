package domain

import (
	"errors"
	"sort"
	"strings"
)

// Common errors
var (
	ErrNotFound      = errors.New("record not found")
	ErrUnauthorized  = errors.New("invalid or expired credentials")
	ErrForbidden     = errors.New("access forbidden: admin role required")
	ErrNotAdmin      = errors.New("identity is not an admin")
	ErrInvalidStatus = errors.New("invalid status")
	ErrEmptyPatch    = errors.New("no fields to update")
)

// ValidationError is returned when a draft is rejected before reaching the gateway
type ValidationError struct {
	Fields map[string]string
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

// Add records a field error
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = msg
}

// OrNil returns nil when no field errors were recorded
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
