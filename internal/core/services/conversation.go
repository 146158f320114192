package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driven"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driving"
	"github.com/custodia-labs/copilot-cli/internal/logger"
)

// Ensure ConversationService implements the interface.
var _ driving.Conversation = (*ConversationService)(nil)

// ScopeSource supplies the scoped document ids for a question.
type ScopeSource interface {
	ScopedDocIDs() []string
}

// ConversationService owns the chat history.
//
// A turn moves through Begin, Resolve and Complete. Begin and Complete each
// take the lock once; Resolve holds no lock. At most one turn is in flight.
// Clear starts a new generation and Complete drops answers to older ones.
type ConversationService struct {
	backend driven.Backend
	scope   ScopeSource
	limit   int

	mu         sync.Mutex
	messages   []domain.Message
	expanded   map[domain.CitationKey]struct{}
	loading    bool
	generation uint64
}

// NewConversationService creates a conversation. scope may be nil for
// unscoped questions. A non-positive limit uses domain.DefaultChatLimit.
func NewConversationService(backend driven.Backend, scope ScopeSource, limit int) *ConversationService {
	if limit <= 0 {
		limit = domain.DefaultChatLimit
	}
	return &ConversationService{
		backend:  backend,
		scope:    scope,
		limit:    limit,
		expanded: make(map[domain.CitationKey]struct{}),
	}
}

// Send runs a whole turn synchronously.
func (c *ConversationService) Send(ctx context.Context, text string) bool {
	turn, ok := c.Begin(text)
	if !ok {
		return false
	}
	c.Complete(c.Resolve(ctx, turn))
	return true
}

// Begin appends the user message, collapses all citations and marks loading.
func (c *ConversationService) Begin(text string) (domain.Turn, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Turn{}, false
	}

	// Read the scope before taking our lock so the two stores never nest.
	var scoped []string
	if c.scope != nil {
		scoped = c.scope.ScopedDocIDs()
	}
	if len(scoped) == 0 {
		scoped = nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loading {
		return domain.Turn{}, false
	}

	turn := domain.Turn{
		Generation: c.generation,
		Request: domain.ChatRequest{
			Message: text,
			History: domain.HistoryOf(c.messages),
			DocIDs:  scoped,
			Limit:   c.limit,
		},
	}

	c.messages = append(c.messages, domain.Message{Role: domain.RoleUser, Content: text})
	c.expanded = make(map[domain.CitationKey]struct{})
	c.loading = true

	logger.Debug("conversation: turn %d issued (scope=%v)", len(c.messages), scoped)
	return turn, true
}

// Resolve asks the backend for the answer to turn.
func (c *ConversationService) Resolve(ctx context.Context, turn domain.Turn) domain.TurnResult {
	resp, err := c.backend.Ask(ctx, turn.Request)
	if err == nil && resp == nil {
		err = fmt.Errorf("empty chat response: %w", domain.ErrBackend)
	}
	if err != nil {
		return domain.TurnResult{Turn: turn, Err: err}
	}
	return domain.TurnResult{Turn: turn, Response: resp}
}

// Complete records the assistant message for result. Loading is released
// even when the result belongs to a cleared generation and is dropped.
func (c *ConversationService) Complete(result domain.TurnResult) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.loading = false

	if result.Turn.Generation != c.generation {
		logger.Debug("conversation: dropped answer from generation %d (now %d)",
			result.Turn.Generation, c.generation)
		return false
	}

	msg := domain.Message{Role: domain.RoleAssistant}
	if result.Err != nil || result.Response == nil {
		logger.Warn("conversation: ask failed: %v", result.Err)
		msg.Content = domain.FallbackAnswer
	} else {
		msg.Content = result.Response.Answer
		if len(result.Response.Citations) > 0 {
			msg.Citations = append([]domain.Citation(nil), result.Response.Citations...)
		}
	}
	c.messages = append(c.messages, msg)
	return true
}

// Clear drops the history and expansion state in one step.
// An in-flight question keeps loading set until its answer arrives and is dropped.
func (c *ConversationService) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = nil
	c.expanded = make(map[domain.CitationKey]struct{})
	c.generation++
}

// Messages returns a copy of the history.
func (c *ConversationService) Messages() []domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Message(nil), c.messages...)
}

// Loading reports whether a question is in flight.
func (c *ConversationService) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Citation returns the citation addressed by key.
func (c *ConversationService) Citation(key domain.CitationKey) (domain.Citation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.citation(key)
}

// citation looks key up (caller must hold lock).
func (c *ConversationService) citation(key domain.CitationKey) (domain.Citation, error) {
	if key.Message < 0 || key.Message >= len(c.messages) {
		return domain.Citation{}, fmt.Errorf("citation %s: %w", key, domain.ErrInvalidInput)
	}
	cites := c.messages[key.Message].Citations
	if key.Citation < 0 || key.Citation >= len(cites) {
		return domain.Citation{}, fmt.Errorf("citation %s: %w", key, domain.ErrInvalidInput)
	}
	return cites[key.Citation], nil
}

// ToggleExpanded flips key in the expanded set.
func (c *ConversationService) ToggleExpanded(key domain.CitationKey) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.citation(key); err != nil {
		return err
	}
	if _, ok := c.expanded[key]; ok {
		delete(c.expanded, key)
	} else {
		c.expanded[key] = struct{}{}
	}
	return nil
}

// IsExpanded reports whether key is expanded.
func (c *ConversationService) IsExpanded(key domain.CitationKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.expanded[key]
	return ok
}

// Transcript renders the history as markdown with numbered sources.
func (c *ConversationService) Transcript() string {
	msgs := c.Messages()

	var b strings.Builder
	for i, m := range msgs {
		if i > 0 {
			b.WriteString("\n")
		}
		switch m.Role {
		case domain.RoleUser:
			fmt.Fprintf(&b, "**You:** %s\n", m.Content)
		default:
			fmt.Fprintf(&b, "**Assistant:** %s\n", m.Content)
		}
		if len(m.Citations) > 0 {
			b.WriteString("\nSources:\n")
			for j, cite := range m.Citations {
				fmt.Fprintf(&b, "%d. %s, p. %d\n", j+1, cite.Title(), cite.Page)
			}
		}
	}
	return b.String()
}
