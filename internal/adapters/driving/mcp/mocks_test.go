package mcp

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driving"
)

// mockRegistry implements driving.DocumentRegistry. pending replaces docs on
// the next Refresh.
type mockRegistry struct {
	docs       []domain.Document
	pending    []domain.Document
	refreshErr error
	refreshes  int
	applied    int
}

func (m *mockRegistry) Documents() []domain.Document { return m.docs }
func (m *mockRegistry) Ready() []domain.Document     { return domain.ReadyDocuments(m.docs) }

func (m *mockRegistry) Refresh(_ context.Context) error {
	m.refreshes++
	if m.refreshErr != nil {
		return m.refreshErr
	}
	if m.pending != nil {
		m.docs = m.pending
		m.pending = nil
	}
	m.applied++
	return nil
}

func (m *mockRegistry) Delete(_ context.Context, _ string) error { return nil }
func (m *mockRegistry) Run(_ context.Context) error              { return nil }
func (m *mockRegistry) Stop()                                    {}
func (m *mockRegistry) Subscribe() <-chan struct{}               { return make(chan struct{}) }

func (m *mockRegistry) Status() domain.RegistryStatus {
	return domain.RegistryStatus{Refreshes: m.applied}
}

// mockClaims implements driving.ClaimsService.
type mockClaims struct {
	claims  []domain.Claim
	loadErr error
	loads   int
}

func (m *mockClaims) Load(_ context.Context) error {
	m.loads++
	return m.loadErr
}

func (m *mockClaims) Claims() []domain.Claim { return m.claims }

func (m *mockClaims) Filter(category domain.ClaimCategory) []domain.Claim {
	return domain.FilterClaims(m.claims, category)
}

func (m *mockClaims) Groups(category domain.ClaimCategory) []domain.ClaimGroup {
	return domain.GroupClaims(m.Filter(category))
}

func (m *mockClaims) NeedsLoad() bool     { return true }
func (m *mockClaims) LoadedAt() time.Time { return time.Time{} }

// mockConversation implements driving.Conversation over a canned answer and
// records the scope of every question.
type mockConversation struct {
	scope  Scope
	answer *domain.ChatResponse
	err    error
	busy   bool

	mu       sync.Mutex
	messages []domain.Message
	scopes   [][]string
}

func (m *mockConversation) Send(ctx context.Context, text string) bool {
	turn, ok := m.Begin(text)
	if ok {
		m.Complete(m.Resolve(ctx, turn))
	}
	return ok
}

func (m *mockConversation) Begin(text string) (domain.Turn, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.busy {
		return domain.Turn{}, false
	}
	docIDs := m.scope.ScopedDocIDs()
	m.scopes = append(m.scopes, docIDs)
	req := domain.ChatRequest{
		Message: text,
		History: domain.HistoryOf(m.messages),
		DocIDs:  docIDs,
	}
	m.messages = append(m.messages, domain.Message{Role: domain.RoleUser, Content: text})
	return domain.Turn{Request: req}, true
}

func (m *mockConversation) Resolve(_ context.Context, turn domain.Turn) domain.TurnResult {
	if m.err != nil {
		return domain.TurnResult{Turn: turn, Err: m.err}
	}
	return domain.TurnResult{Turn: turn, Response: m.answer}
}

func (m *mockConversation) Complete(result domain.TurnResult) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg := domain.Message{Role: domain.RoleAssistant, Content: domain.FallbackAnswer}
	if result.Err == nil && result.Response != nil {
		msg.Content = result.Response.Answer
		msg.Citations = result.Response.Citations
	}
	m.messages = append(m.messages, msg)
	return true
}

func (m *mockConversation) Clear() {}

func (m *mockConversation) Messages() []domain.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Message(nil), m.messages...)
}

func (m *mockConversation) Loading() bool { return false }

func (m *mockConversation) Citation(_ domain.CitationKey) (domain.Citation, error) {
	return domain.Citation{}, domain.ErrNotFound
}

func (m *mockConversation) ToggleExpanded(_ domain.CitationKey) error { return nil }
func (m *mockConversation) IsExpanded(_ domain.CitationKey) bool      { return false }
func (m *mockConversation) Transcript() string                        { return "" }

// conversations builds mockConversations and keeps every one it built.
type conversations struct {
	answer *domain.ChatResponse
	err    error
	built  []*mockConversation
}

func (c *conversations) factory(scope Scope) driving.Conversation {
	conv := &mockConversation{scope: scope, answer: c.answer, err: c.err}
	c.built = append(c.built, conv)
	return conv
}

// mockPDF implements driving.PDFService.
type mockPDF struct {
	pages map[domain.PDFTarget]string
	count int
	err   error
}

func (m *mockPDF) Render(_ context.Context, target domain.PDFTarget) (*domain.PDFPage, error) {
	if m.err != nil {
		return nil, m.err
	}
	text, ok := m.pages[target]
	if !ok {
		return nil, domain.ErrPageOutOfRange
	}
	return &domain.PDFPage{Target: target, PageCount: m.count, Text: text, URL: m.URL(target)}, nil
}

func (m *mockPDF) Current(_ context.Context) (*domain.PDFPage, error) { return nil, domain.ErrNotFound }
func (m *mockPDF) Turn(_ int) (domain.PDFTarget, error)               { return domain.PDFTarget{}, nil }

func (m *mockPDF) URL(target domain.PDFTarget) string {
	return fmt.Sprintf("http://backend/documents/%s/pdf#page=%d", target.DocID, target.Page)
}

func (m *mockPDF) OpenExternal(_ domain.PDFTarget) error { return nil }

func doc(id, name string, status domain.DocumentStatus) domain.Document {
	pages := 12
	return domain.Document{
		ID:        id,
		Filename:  &name,
		Status:    status,
		PageCount: &pages,
		CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func newTestServer(t interface{ Fatalf(string, ...any) }, ports *Ports) *Server {
	s, err := NewServer(ports)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return s
}
