package backend

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
)

// maxErrorBody bounds how much of a failure body is kept for messages.
const maxErrorBody = 512

// StatusError is a non-2xx backend response.
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s: backend returned %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: backend returned %d: %s", e.Op, e.Status, body)
}

// Unwrap lets callers match domain.ErrBackend.
func (e *StatusError) Unwrap() error {
	return domain.ErrBackend
}

// transportError wraps a failure to reach the backend so it matches
// domain.ErrBackend while keeping the cause.
type transportError struct {
	op  string
	err error
}

func (e *transportError) Error() string {
	return fmt.Sprintf("%s: %v", e.op, e.err)
}

func (e *transportError) Unwrap() []error {
	return []error{domain.ErrBackend, e.err}
}
