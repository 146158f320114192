package services

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driven"
)

// --- Mock implementations shared by the service tests ---

// mockBackend implements driven.Backend. Function fields override the
// canned values when set.
type mockBackend struct {
	mu sync.Mutex

	docs      []domain.Document
	claims    []domain.Claim
	answer    *domain.ChatResponse
	listErr   error
	deleteErr error
	askErr    error
	claimsErr error
	uploadErr error

	listFn   func(ctx context.Context) ([]domain.Document, error)
	askFn    func(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error)
	claimsFn func(ctx context.Context) ([]domain.Claim, error)

	listCalls   int
	deleted     []string
	asked       []domain.ChatRequest
	uploads     []string
	uploadBytes [][]byte
}

var _ driven.Backend = (*mockBackend)(nil)

func (m *mockBackend) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	m.mu.Lock()
	m.listCalls++
	fn := m.listFn
	docs, err := append([]domain.Document(nil), m.docs...), m.listErr
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return docs, err
}

func (m *mockBackend) DeleteDocument(_ context.Context, docID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, docID)
	kept := m.docs[:0]
	for _, d := range m.docs {
		if d.ID != docID {
			kept = append(kept, d)
		}
	}
	m.docs = kept
	return nil
}

func (m *mockBackend) Ask(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	m.mu.Lock()
	m.asked = append(m.asked, req)
	fn := m.askFn
	answer, err := m.answer, m.askErr
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, req)
	}
	if err != nil {
		return nil, err
	}
	if answer == nil {
		return &domain.ChatResponse{Answer: "answer to " + req.Message}, nil
	}
	return answer, nil
}

func (m *mockBackend) ListClaims(ctx context.Context) ([]domain.Claim, error) {
	m.mu.Lock()
	fn := m.claimsFn
	claims, err := append([]domain.Claim(nil), m.claims...), m.claimsErr
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return claims, err
}

func (m *mockBackend) Upload(_ context.Context, filename string, content io.Reader) (string, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	m.uploads = append(m.uploads, filename)
	m.uploadBytes = append(m.uploadBytes, data)
	id := fmt.Sprintf("doc-%d", len(m.uploads))
	m.docs = append(m.docs, domain.Document{ID: id, Filename: &filename, Status: domain.StatusProcessing})
	return id, nil
}

func (m *mockBackend) FetchPDF(_ context.Context, _, _ string) (io.ReadCloser, string, bool, error) {
	return nil, "", false, domain.ErrNotFound
}

func (m *mockBackend) PDFURL(docID string, page int) string {
	return fmt.Sprintf("http://backend/documents/%s/pdf#page=%d", docID, page)
}

func (m *mockBackend) setDocs(docs ...domain.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = docs
}

func (m *mockBackend) requests() []domain.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ChatRequest(nil), m.asked...)
}

// mockLauncher implements driven.Launcher.
type mockLauncher struct {
	opened  []string
	copied  []string
	openErr error
}

var _ driven.Launcher = (*mockLauncher)(nil)

func (m *mockLauncher) Open(url string) error {
	if m.openErr != nil {
		return m.openErr
	}
	m.opened = append(m.opened, url)
	return nil
}

func (m *mockLauncher) Copy(text string) error {
	m.copied = append(m.copied, text)
	return nil
}

// mockViewer implements driven.PDFViewer with a fixed page count.
type mockViewer struct {
	pages     int
	err       error
	forgotten []string
}

var _ driven.PDFViewer = (*mockViewer)(nil)

func (m *mockViewer) Page(_ context.Context, target domain.PDFTarget) (*domain.PDFPage, error) {
	if m.err != nil {
		return nil, m.err
	}
	if target.Page > m.pages {
		return nil, domain.ErrPageOutOfRange
	}
	return &domain.PDFPage{
		Target:    target,
		PageCount: m.pages,
		Text:      fmt.Sprintf("text of page %d", target.Page),
	}, nil
}

func (m *mockViewer) Forget(docID string) error {
	m.forgotten = append(m.forgotten, docID)
	return nil
}

// staticReady implements ReadySource.
type staticReady []domain.Document

func (s staticReady) Ready() []domain.Document {
	return domain.ReadyDocuments(s)
}

func readyDoc(id string) domain.Document {
	name := id + ".pdf"
	pages := 12
	return domain.Document{ID: id, Filename: &name, Status: domain.StatusReady, PageCount: &pages}
}

func processingDoc(id string) domain.Document {
	return domain.Document{ID: id, Status: domain.StatusProcessing}
}
