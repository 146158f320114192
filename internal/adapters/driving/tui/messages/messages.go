// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/copilot-cli/internal/core/domain"
)

// ViewChanged asks the app to activate a workspace tab.
type ViewChanged struct {
	View domain.View
}

// SourceOpened is sent after a citation, claim or document was opened in
// the PDF view. The selection already holds the new target.
type SourceOpened struct {
	Target domain.PDFTarget
}

// RegistryUpdated is sent after the document registry applied a snapshot.
type RegistryUpdated struct{}

// AnswerReceived carries a resolved chat turn back to the model.
type AnswerReceived struct {
	Result domain.TurnResult
}

// ClaimsLoaded signals a claims load finished.
type ClaimsLoaded struct {
	Err error
}

// PDFLoaded carries a rendered PDF page.
type PDFLoaded struct {
	Target domain.PDFTarget
	Page   *domain.PDFPage
	Err    error
}

// DocumentDeleted signals a delete finished.
type DocumentDeleted struct {
	DocumentID string
	Err        error
}

// DocumentUploaded signals an upload finished.
type DocumentUploaded struct {
	Path       string
	DocumentID string
	Err        error
}

// ScopeChanged is sent when the search scope was edited.
type ScopeChanged struct{}

// StatusChanged sets the status bar text.
type StatusChanged struct {
	Text string
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
