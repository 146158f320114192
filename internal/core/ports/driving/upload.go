package driving

import (
	"context"
	"io"
)

// UploadService submits PDFs to the backend.
type UploadService interface {
	// UploadFile reads a PDF from disk and uploads it. Returns the new document id.
	UploadFile(ctx context.Context, path string) (string, error)

	// Upload sends content under filename. Returns the new document id.
	Upload(ctx context.Context, filename string, content io.Reader) (string, error)
}
