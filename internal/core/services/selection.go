package services

import (
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driving"
)

// Ensure SelectionService implements the interface.
var _ driving.SelectionService = (*SelectionService)(nil)

// ReadySource reports which documents are ready.
type ReadySource interface {
	Ready() []domain.Document
}

// SelectionService holds scope, PDF target and active view in one store.
type SelectionService struct {
	registry ReadySource

	mu    sync.Mutex
	scope map[string]struct{}
	pdf   domain.PDFTarget
	view  domain.View
}

// NewSelectionService creates an empty selection on the chat view.
// registry may be nil, in which case every document counts as ready.
func NewSelectionService(registry ReadySource) *SelectionService {
	return &SelectionService{
		registry: registry,
		scope:    make(map[string]struct{}),
		view:     domain.ViewChat,
	}
}

// ToggleScope adds docID to the scope or removes it.
// Removal is always allowed so a second toggle restores the previous scope.
func (s *SelectionService) ToggleScope(docID string) error {
	if docID == "" {
		return fmt.Errorf("toggle scope: %w", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	_, scoped := s.scope[docID]
	if scoped {
		delete(s.scope, docID)
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	if !s.isReady(docID) {
		return fmt.Errorf("scope %s: %w", domain.ShortID(docID), domain.ErrDocumentNotReady)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.scope[docID] = struct{}{}
	return nil
}

func (s *SelectionService) isReady(docID string) bool {
	if s.registry == nil {
		return true
	}
	_, ok := domain.FindDocument(s.registry.Ready(), docID)
	return ok
}

// ClearScope resets the scope to all ready documents.
func (s *SelectionService) ClearScope() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scope = make(map[string]struct{})
}

// ScopedDocIDs returns the scope sorted.
func (s *SelectionService) ScopedDocIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scopedLocked()
}

func (s *SelectionService) scopedLocked() []string {
	ids := make([]string, 0, len(s.scope))
	for id := range s.scope {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Snapshot returns the selection at one instant.
func (s *SelectionService) Snapshot() domain.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Selection{
		ScopedDocIDs: s.scopedLocked(),
		PDF:          s.pdf,
		View:         s.view,
	}
}

// SetView changes the active view.
func (s *SelectionService) SetView(view domain.View) (domain.View, error) {
	if !view.IsValid() {
		return 0, fmt.Errorf("view %d: %w", view, domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.view
	s.view = view
	return prev, nil
}

// Open sets the PDF target and switches to the PDF view together.
// Only ready documents can be opened.
func (s *SelectionService) Open(target domain.PDFTarget) error {
	if target.DocID == "" || target.Page < 1 {
		return fmt.Errorf("open %s page %d: %w", domain.ShortID(target.DocID), target.Page, domain.ErrInvalidInput)
	}
	if !s.isReady(target.DocID) {
		return fmt.Errorf("open %s: %w", domain.ShortID(target.DocID), domain.ErrDocumentNotReady)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pdf = target
	s.view = domain.ViewPDF
	return nil
}

// SetPage moves the open document to page.
func (s *SelectionService) SetPage(page int) error {
	if page < 1 {
		return fmt.Errorf("page %d: %w", page, domain.ErrPageOutOfRange)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pdf.IsZero() {
		return fmt.Errorf("set page: %w", domain.ErrNotFound)
	}
	s.pdf.Page = page
	return nil
}
