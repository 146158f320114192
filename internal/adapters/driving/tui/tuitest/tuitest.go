// Package tuitest provides a fake backend and service wiring for TUI tests.
package tuitest

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driven"
	"github.com/custodia-labs/copilot-cli/internal/core/services"
)

// Backend is an in-memory driven.Backend.
type Backend struct {
	mu sync.Mutex

	Docs    []domain.Document
	Claims  []domain.Claim
	Answer  *domain.ChatResponse
	AskErr  error
	Deleted []string
	Asked   []domain.ChatRequest
}

var _ driven.Backend = (*Backend)(nil)

// ListDocuments returns the configured documents.
func (b *Backend) ListDocuments(context.Context) ([]domain.Document, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.Document(nil), b.Docs...), nil
}

// DeleteDocument removes a document.
func (b *Backend) DeleteDocument(_ context.Context, docID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Deleted = append(b.Deleted, docID)
	kept := b.Docs[:0]
	for _, d := range b.Docs {
		if d.ID != docID {
			kept = append(kept, d)
		}
	}
	b.Docs = kept
	return nil
}

// Ask records the request and returns the configured answer.
func (b *Backend) Ask(_ context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Asked = append(b.Asked, req)
	if b.AskErr != nil {
		return nil, b.AskErr
	}
	if b.Answer == nil {
		return &domain.ChatResponse{Answer: "ok"}, nil
	}
	return b.Answer, nil
}

// ListClaims returns the configured claims.
func (b *Backend) ListClaims(context.Context) ([]domain.Claim, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.Claim(nil), b.Claims...), nil
}

// Upload adds a processing document named filename.
func (b *Backend) Upload(_ context.Context, filename string, content io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, content); err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	id := fmt.Sprintf("upload-%d", len(b.Docs)+1)
	name := filename
	b.Docs = append([]domain.Document{{ID: id, Filename: &name, Status: domain.StatusProcessing}}, b.Docs...)
	return id, nil
}

// FetchPDF returns a tiny body.
func (b *Backend) FetchPDF(context.Context, string, string) (io.ReadCloser, string, bool, error) {
	return io.NopCloser(strings.NewReader("%PDF-1.4")), `"etag"`, false, nil
}

// PDFURL returns a fake URL.
func (b *Backend) PDFURL(docID string, page int) string {
	return fmt.Sprintf("http://backend.test/documents/%s/pdf#page=%d", docID, page)
}

// Services is a full set of core services over a Backend.
type Services struct {
	Backend      *Backend
	Registry     *services.RegistryService
	Selection    *services.SelectionService
	Conversation *services.ConversationService
	Claims       *services.ClaimsService
	Coordinator  *services.Coordinator
	Citations    *services.CitationService
	PDF          *services.PDFService
	Upload       *services.UploadService
}

// NewServices wires the services and loads the registry once.
func NewServices(backend *Backend) *Services {
	registry := services.NewRegistryService(backend, time.Hour)
	selection := services.NewSelectionService(registry)
	conversation := services.NewConversationService(backend, selection, domain.DefaultChatLimit)
	claims := services.NewClaimsService(backend, 0)
	coordinator := services.NewCoordinator(selection, claims)

	pdf := services.NewPDFService(backend, nil, nil, selection)
	registry.OnDeleted(pdf.Forget)

	_ = registry.Refresh(context.Background())

	return &Services{
		Backend:      backend,
		Registry:     registry,
		Selection:    selection,
		Conversation: conversation,
		Claims:       claims,
		Coordinator:  coordinator,
		Citations:    services.NewCitationService(conversation, coordinator, nil),
		PDF:          pdf,
		Upload:       services.NewUploadService(backend, registry),
	}
}

// Doc builds a document.
func Doc(id, name string, status domain.DocumentStatus, pages int) domain.Document {
	d := domain.Document{
		ID:        id,
		Status:    status,
		CreatedAt: time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	if name != "" {
		d.Filename = &name
	}
	if pages > 0 {
		d.PageCount = &pages
	}
	return d
}

// Drain runs cmd and every command batched inside it, returning the
// non-nil messages produced. Commands that would block on a timer are not
// followed because Drain does not feed messages back.
func Drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, Drain(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// Find returns the first message of type T.
func Find[T any](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if t, ok := m.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

// Keys converts s to key messages, one rune each.
func Keys(s string) []tea.KeyMsg {
	out := make([]tea.KeyMsg, 0, len(s))
	for _, r := range s {
		out = append(out, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return out
}
