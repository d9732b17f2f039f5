package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bazely/bazely-backend/internal/app/policy"
	"gorm.io/gorm"
)

// Sentinel errors shared across services. Controllers map these to HTTP
// status codes.
var (
	ErrAuthRequired = errors.New("authentication required")
	ErrAccessDenied = errors.New("access denied")
)

// ValidationError reports every violated field of a request at once,
// not just the first one found.
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
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// fieldErrors accumulates violations and turns into a *ValidationError
// only if at least one field failed.
type fieldErrors map[string]string

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

// decisionError maps a policy decision to its sentinel. Allow maps to nil.
func decisionError(d policy.Decision) error {
	switch d {
	case policy.Unauthenticated:
		return ErrAuthRequired
	case policy.Forbidden:
		return ErrAccessDenied
	default:
		return nil
	}
}

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// isDuplicateKey matches unique-constraint violations across the postgres
// and sqlite drivers.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
