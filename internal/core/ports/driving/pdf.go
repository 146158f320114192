package driving

import (
	"context"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
)

// PDFService renders and navigates the PDF view.
type PDFService interface {
	// Render returns the page at target.
	Render(ctx context.Context, target domain.PDFTarget) (*domain.PDFPage, error)

	// Current renders the selection's PDF target.
	// Returns domain.ErrNotFound when no document is open.
	Current(ctx context.Context) (*domain.PDFPage, error)

	// Turn moves the open document by delta pages, clamped to the document.
	Turn(delta int) (domain.PDFTarget, error)

	// URL returns the backend URL of target.
	URL(target domain.PDFTarget) string

	// OpenExternal opens target in the system viewer.
	OpenExternal(target domain.PDFTarget) error
}
