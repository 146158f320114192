package driving

import "github.com/custodia-labs/copilot-cli/internal/core/domain"

// SelectionService owns scope, PDF target and active view.
type SelectionService interface {
	// ToggleScope adds or removes a ready document from the scope.
	// Returns domain.ErrDocumentNotReady for documents that are not ready.
	ToggleScope(docID string) error

	// ClearScope empties the scope.
	ClearScope()

	// ScopedDocIDs returns the scope sorted. Empty means unscoped.
	ScopedDocIDs() []string

	// Snapshot returns the whole selection at one instant.
	Snapshot() domain.Selection

	// SetView changes the active view and returns the one it replaced.
	SetView(view domain.View) (previous domain.View, err error)

	// Open sets the PDF target and switches to the PDF view in one update.
	Open(target domain.PDFTarget) error

	// SetPage moves the open document to page.
	SetPage(page int) error
}

// ViewCoordinator switches between chat, claims and PDF views.
type ViewCoordinator interface {
	// Current returns the active view.
	Current() domain.View

	// Switch activates view. load is true when the caller must load claims.
	Switch(view domain.View) (load bool, err error)

	// ViewSource opens docID at page in the PDF view.
	ViewSource(docID string, page int) error
}
