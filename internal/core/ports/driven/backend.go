package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
)

// Backend is the document question answering service.
// Every method returns an error wrapping domain.ErrBackend when the request
// cannot be delivered or the backend answers with a non-2xx status.
type Backend interface {
	// ListDocuments returns every known document.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// DeleteDocument removes one document.
	DeleteDocument(ctx context.Context, docID string) error

	// Ask sends a question with its history and scope.
	Ask(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error)

	// ListClaims returns the full claim set in server order.
	ListClaims(ctx context.Context) ([]domain.Claim, error)

	// Upload submits a PDF for ingestion and returns the new document id.
	Upload(ctx context.Context, filename string, content io.Reader) (string, error)

	// FetchPDF downloads a document's PDF bytes.
	// etag may be empty; when the backend reports the content unchanged,
	// notModified is true and body is nil.
	FetchPDF(ctx context.Context, docID, etag string) (body io.ReadCloser, newETag string, notModified bool, err error)

	// PDFURL returns the URL an external viewer opens to show a page.
	PDFURL(docID string, page int) string
}
