package driven

import (
	"context"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
)

// PDFViewer renders a document page for the PDF tab.
type PDFViewer interface {
	// Page returns the page text and page count of target.
	// Returns domain.ErrPageOutOfRange when the page does not exist.
	Page(ctx context.Context, target domain.PDFTarget) (*domain.PDFPage, error)

	// Forget drops any local copy of docID. Unknown ids are not an error.
	Forget(docID string) error
}

// Launcher hands content to desktop applications outside the terminal.
type Launcher interface {
	// Open hands url to the operating system's default handler.
	Open(url string) error

	// Copy places text on the system clipboard.
	Copy(text string) error
}
