package domain

import "errors"

// Domain errors represent client-side failures of core operations.
// Adapters wrap these so callers can match with errors.Is.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrBackend indicates a backend call failed. Transport failures and
	// non-2xx responses both map here; there is no separate retry policy.
	ErrBackend = errors.New("backend request failed")

	// ErrDocumentNotReady indicates an operation needs a ready document.
	ErrDocumentNotReady = errors.New("document is not ready")

	// ErrViewerUnavailable indicates no PDF viewer is configured.
	ErrViewerUnavailable = errors.New("pdf viewer unavailable")

	// ErrPageOutOfRange indicates a PDF page outside the document.
	ErrPageOutOfRange = errors.New("page out of range")
)
