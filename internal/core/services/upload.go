package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driven"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driving"
	"github.com/custodia-labs/copilot-cli/internal/logger"
)

// Ensure UploadService implements the interface.
var _ driving.UploadService = (*UploadService)(nil)

// Refresher refreshes the document registry.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// UploadService uploads PDFs and refreshes the registry afterwards so the
// new document shows up as processing without waiting for the next poll.
type UploadService struct {
	backend  driven.Backend
	registry Refresher
}

// NewUploadService creates an upload service. registry may be nil.
func NewUploadService(backend driven.Backend, registry Refresher) *UploadService {
	return &UploadService{backend: backend, registry: registry}
}

// IsPDF reports whether path has a .pdf extension.
func IsPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// UploadFile uploads the PDF at path.
func (s *UploadService) UploadFile(ctx context.Context, path string) (string, error) {
	if !IsPDF(path) {
		return "", fmt.Errorf("upload %s: not a pdf: %w", filepath.Base(path), domain.ErrInvalidInput)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", filepath.Base(path), err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("upload %s: is a directory: %w", filepath.Base(path), domain.ErrInvalidInput)
	}

	return s.Upload(ctx, filepath.Base(path), f)
}

// Upload sends content as filename.
func (s *UploadService) Upload(ctx context.Context, filename string, content io.Reader) (string, error) {
	if filename == "" || content == nil {
		return "", fmt.Errorf("upload: %w", domain.ErrInvalidInput)
	}

	docID, err := s.backend.Upload(ctx, filename, content)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", filename, err)
	}
	logger.Info("upload: %s accepted as %s", filename, domain.ShortID(docID))

	if s.registry != nil {
		if err := s.registry.Refresh(ctx); err != nil {
			logger.Warn("upload: refresh after upload: %v", err)
		}
	}
	return docID, nil
}
