// Package tui provides the interactive research workspace for copilot.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Registry holds the live document list.
	Registry driving.DocumentRegistry

	// Conversation owns the chat history.
	Conversation driving.Conversation

	// Citations expands, opens and copies citations.
	Citations driving.CitationResolver

	// Claims holds the claims snapshot.
	Claims driving.ClaimsService

	// Selection owns scope, PDF target and active view.
	Selection driving.SelectionService

	// Coordinator switches views.
	Coordinator driving.ViewCoordinator

	// PDF renders pages for the PDF view.
	PDF driving.PDFService

	// Upload submits PDFs. Optional.
	Upload driving.UploadService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	switch {
	case p.Registry == nil:
		return ErrMissingRegistry
	case p.Conversation == nil:
		return ErrMissingConversation
	case p.Citations == nil:
		return ErrMissingCitations
	case p.Claims == nil:
		return ErrMissingClaims
	case p.Selection == nil:
		return ErrMissingSelection
	case p.Coordinator == nil:
		return ErrMissingCoordinator
	case p.PDF == nil:
		return ErrMissingPDFService
	}
	return nil
}
