package services

import (
	"github.com/custodia-labs/copilot-cli/internal/core/domain"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driving"
	"github.com/custodia-labs/copilot-cli/internal/logger"
)

// Ensure Coordinator implements the interface.
var _ driving.ViewCoordinator = (*Coordinator)(nil)

// StalenessSource decides whether claims must be reloaded.
type StalenessSource interface {
	NeedsLoad() bool
}

// Coordinator is the view state machine. The active view itself is stored
// in the selection so a source navigation is one update.
type Coordinator struct {
	selection driving.SelectionService
	claims    StalenessSource
}

// NewCoordinator creates a coordinator. claims may be nil.
func NewCoordinator(selection driving.SelectionService, claims StalenessSource) *Coordinator {
	return &Coordinator{selection: selection, claims: claims}
}

// Current returns the active view.
func (c *Coordinator) Current() domain.View {
	return c.selection.Snapshot().View
}

// Switch activates view. Entering claims from another view reports whether
// the claims snapshot has to be loaded.
func (c *Coordinator) Switch(view domain.View) (bool, error) {
	prev, err := c.selection.SetView(view)
	if err != nil {
		return false, err
	}
	if prev != view {
		logger.Debug("coordinator: %s -> %s", prev, view)
	}
	if view != domain.ViewClaims || prev == domain.ViewClaims {
		return false, nil
	}
	return c.claims == nil || c.claims.NeedsLoad(), nil
}

// ViewSource opens docID at page and switches to the PDF view.
func (c *Coordinator) ViewSource(docID string, page int) error {
	if err := c.selection.Open(domain.PDFTarget{DocID: docID, Page: page}); err != nil {
		return err
	}
	logger.Debug("coordinator: view source %s p.%d", domain.ShortID(docID), page)
	return nil
}
