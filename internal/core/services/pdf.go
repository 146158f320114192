package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driven"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driving"
	"github.com/custodia-labs/copilot-cli/internal/logger"
)

// Ensure PDFService implements the interface.
var _ driving.PDFService = (*PDFService)(nil)

// PDFService renders the PDF view's target and moves between pages.
type PDFService struct {
	backend   driven.Backend
	viewer    driven.PDFViewer
	launcher  driven.Launcher
	selection driving.SelectionService

	mu         sync.Mutex
	pageCounts map[string]int
}

// NewPDFService creates a PDF service. viewer and launcher may be nil.
func NewPDFService(
	backend driven.Backend,
	viewer driven.PDFViewer,
	launcher driven.Launcher,
	selection driving.SelectionService,
) *PDFService {
	return &PDFService{
		backend:    backend,
		viewer:     viewer,
		launcher:   launcher,
		selection:  selection,
		pageCounts: make(map[string]int),
	}
}

// URL returns the backend URL of target.
func (s *PDFService) URL(target domain.PDFTarget) string {
	return s.backend.PDFURL(target.DocID, target.Page)
}

// Render returns target's page. Without a viewer only the URL is filled in.
func (s *PDFService) Render(ctx context.Context, target domain.PDFTarget) (*domain.PDFPage, error) {
	if target.IsZero() || target.Page < 1 {
		return nil, fmt.Errorf("render: %w", domain.ErrInvalidInput)
	}
	if s.viewer == nil {
		return &domain.PDFPage{Target: target, URL: s.URL(target)}, nil
	}

	page, err := s.viewer.Page(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("render %s p.%d: %w", domain.ShortID(target.DocID), target.Page, err)
	}
	page.URL = s.URL(target)

	s.mu.Lock()
	s.pageCounts[target.DocID] = page.PageCount
	s.mu.Unlock()
	return page, nil
}

// Forget drops what is known locally about a deleted document.
func (s *PDFService) Forget(docID string) {
	s.mu.Lock()
	delete(s.pageCounts, docID)
	s.mu.Unlock()

	if s.viewer == nil {
		return
	}
	if err := s.viewer.Forget(docID); err != nil {
		logger.Warn("pdf: evict %s: %v", domain.ShortID(docID), err)
	}
}

// Current renders the selection's PDF target.
func (s *PDFService) Current(ctx context.Context) (*domain.PDFPage, error) {
	target := s.selection.Snapshot().PDF
	if target.IsZero() {
		return nil, fmt.Errorf("no document open: %w", domain.ErrNotFound)
	}
	return s.Render(ctx, target)
}

// Turn moves the open document by delta pages. The page stays within 1 and
// the last page seen by Render for the document.
func (s *PDFService) Turn(delta int) (domain.PDFTarget, error) {
	target := s.selection.Snapshot().PDF
	if target.IsZero() {
		return target, fmt.Errorf("no document open: %w", domain.ErrNotFound)
	}

	page := target.Page + delta
	s.mu.Lock()
	last := s.pageCounts[target.DocID]
	s.mu.Unlock()
	if last > 0 && page > last {
		page = last
	}
	if page < 1 {
		page = 1
	}

	if err := s.selection.SetPage(page); err != nil {
		return target, err
	}
	target.Page = page
	return target, nil
}

// OpenExternal opens target in the system PDF viewer.
func (s *PDFService) OpenExternal(target domain.PDFTarget) error {
	if s.launcher == nil {
		return domain.ErrViewerUnavailable
	}
	if target.IsZero() {
		return fmt.Errorf("open: %w", domain.ErrNotFound)
	}
	return s.launcher.Open(s.URL(target))
}
