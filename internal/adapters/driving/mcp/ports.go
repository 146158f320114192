package mcp

import (
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driving"
)

// Scope supplies the documents a conversation's next question is limited to.
type Scope interface {
	ScopedDocIDs() []string
}

// ConversationFactory creates a conversation that reads its scope from scope.
type ConversationFactory func(scope Scope) driving.Conversation

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Registry lists documents and validates scopes.
	Registry driving.DocumentRegistry

	// Claims serves the claims snapshot.
	Claims driving.ClaimsService

	// NewConversation creates one conversation per MCP conversation id.
	NewConversation ConversationFactory

	// PDF renders page text. Optional; without it the page tool and
	// resource are not registered.
	PDF driving.PDFService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Registry == nil {
		return ErrMissingRegistry
	}
	if p.Claims == nil {
		return ErrMissingClaims
	}
	if p.NewConversation == nil {
		return ErrMissingConversationNew
	}
	return nil
}
