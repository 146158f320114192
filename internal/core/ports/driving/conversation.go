package driving

import (
	"context"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
)

// Conversation owns the chat history and the expanded citation set.
type Conversation interface {
	// Send runs a full turn. It returns false without doing anything when
	// text is blank or a question is already in flight.
	Send(ctx context.Context, text string) bool

	// Begin records the user message and marks the conversation loading.
	// ok is false under the same conditions Send ignores.
	Begin(text string) (turn domain.Turn, ok bool)

	// Resolve asks the backend. It does not touch conversation state.
	Resolve(ctx context.Context, turn domain.Turn) domain.TurnResult

	// Complete appends the assistant message for result and clears loading.
	// It returns false when the turn belongs to a cleared generation.
	Complete(result domain.TurnResult) bool

	// Clear drops all messages and expansion state and starts a new generation.
	Clear()

	// Messages returns a copy of the history.
	Messages() []domain.Message

	// Loading reports whether a question is in flight.
	Loading() bool

	// Citation returns the citation addressed by key.
	Citation(key domain.CitationKey) (domain.Citation, error)

	// ToggleExpanded flips key in the expanded set.
	ToggleExpanded(key domain.CitationKey) error

	// IsExpanded reports whether key is expanded.
	IsExpanded(key domain.CitationKey) bool

	// Transcript renders the history as markdown.
	Transcript() string
}

// CitationResolver maps citation interactions onto display and navigation.
type CitationResolver interface {
	// Toggle expands or collapses a citation preview.
	Toggle(messageIndex, citationIndex int) error

	// Expanded reports whether a citation preview is open.
	Expanded(messageIndex, citationIndex int) bool

	// Activate opens docID at page in the PDF view. Citation rows and claim
	// cards both navigate through here.
	Activate(docID string, page int) error

	// ActivateCitation activates the citation addressed by the indices.
	ActivateCitation(messageIndex, citationIndex int) error

	// CopyCitation puts the citation snippet on the clipboard.
	CopyCitation(messageIndex, citationIndex int) error
}
