package services

import (
	"fmt"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driven"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driving"
)

// Ensure CitationService implements the interface.
var _ driving.CitationResolver = (*CitationService)(nil)

// CitationService resolves citation interactions.
// Expansion state lives in the conversation so that a new turn or Clear
// resets it in the same update as the history.
type CitationService struct {
	conversation driving.Conversation
	coordinator  driving.ViewCoordinator
	launcher     driven.Launcher
}

// NewCitationService creates a citation resolver. launcher may be nil.
func NewCitationService(
	conversation driving.Conversation,
	coordinator driving.ViewCoordinator,
	launcher driven.Launcher,
) *CitationService {
	return &CitationService{
		conversation: conversation,
		coordinator:  coordinator,
		launcher:     launcher,
	}
}

// Toggle expands or collapses one citation preview.
func (s *CitationService) Toggle(messageIndex, citationIndex int) error {
	return s.conversation.ToggleExpanded(domain.CitationKey{Message: messageIndex, Citation: citationIndex})
}

// Expanded reports whether the preview is open.
func (s *CitationService) Expanded(messageIndex, citationIndex int) bool {
	return s.conversation.IsExpanded(domain.CitationKey{Message: messageIndex, Citation: citationIndex})
}

// Activate opens docID at page in the PDF view.
func (s *CitationService) Activate(docID string, page int) error {
	return s.coordinator.ViewSource(docID, page)
}

// ActivateCitation opens the cited page.
func (s *CitationService) ActivateCitation(messageIndex, citationIndex int) error {
	cite, err := s.conversation.Citation(domain.CitationKey{Message: messageIndex, Citation: citationIndex})
	if err != nil {
		return err
	}
	return s.Activate(cite.DocID, cite.Page)
}

// CopyCitation copies the cited snippet with its source line.
func (s *CitationService) CopyCitation(messageIndex, citationIndex int) error {
	if s.launcher == nil {
		return domain.ErrViewerUnavailable
	}
	cite, err := s.conversation.Citation(domain.CitationKey{Message: messageIndex, Citation: citationIndex})
	if err != nil {
		return err
	}
	return s.launcher.Copy(fmt.Sprintf("%s\n(%s, p. %d)", cite.Content, cite.Title(), cite.Page))
}
