package mcp

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
	"github.com/custodia-labs/copilot-cli/internal/logger"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question       string   `json:"question" jsonschema:"the question to answer from the uploaded papers"`
	DocIDs         []string `json:"doc_ids,omitempty" jsonschema:"limit retrieval to these ready document ids; a follow-up without them keeps the conversation's scope (default all documents)"`
	ConversationID string   `json:"conversation_id,omitempty" jsonschema:"continue an earlier conversation (default starts a new one)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	ConversationID string           `json:"conversation_id"`
	Answer         string           `json:"answer"`
	Citations      []CitationOutput `json:"citations"`
}

// CitationOutput is one citation of an answer.
type CitationOutput struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	Page       int    `json:"page"`
	ChunkIndex int    `json:"chunk_index"`
	Content    string `json:"content"`
	URL        string `json:"url,omitempty"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct {
	Status string `json:"status,omitempty" jsonschema:"only documents in this status: processing, ready or failed"`
}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DocumentOutput is one document.
type DocumentOutput struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Status    string    `json:"status"`
	Pages     int       `json:"pages,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ListClaimsInput is the input schema for the list_claims tool.
type ListClaimsInput struct {
	Category   string `json:"category,omitempty" jsonschema:"finding, method, limitation or background (default all)"`
	DocumentID string `json:"document_id,omitempty" jsonschema:"only claims from this document"`
}

// ListClaimsOutput is the output schema for the list_claims tool.
type ListClaimsOutput struct {
	Claims []ClaimOutput `json:"claims"`
	Count  int           `json:"count"`
}

// ClaimOutput is one claim.
type ClaimOutput struct {
	ID          int    `json:"id"`
	DocumentID  string `json:"document_id"`
	Filename    string `json:"filename"`
	Page        int    `json:"page"`
	Category    string `json:"category"`
	Text        string `json:"text"`
	SourceQuote string `json:"source_quote,omitempty"`
}

// GetPageInput is the input schema for the get_page tool.
type GetPageInput struct {
	DocumentID string `json:"document_id" jsonschema:"the ready document to read"`
	Page       int    `json:"page" jsonschema:"1-based page number"`
}

// GetPageOutput is the output schema for the get_page tool.
type GetPageOutput struct {
	DocumentID string `json:"document_id"`
	Page       int    `json:"page"`
	PageCount  int    `json:"page_count"`
	Text       string `json:"text"`
	URL        string `json:"url"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask a question answered from the uploaded papers, with page citations",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List uploaded papers and their ingestion status",
	}, s.handleListDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_claims",
		Description: "List claims extracted from the papers, optionally by category or document",
	}, s.handleListClaims)

	if s.ports.PDF != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "get_page",
			Description: "Read the text of one page of a paper",
		}, s.handleGetPage)
	}
}

// handleAsk runs one conversation turn.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, AskOutput{}, fmt.Errorf("question is required: %w", domain.ErrInvalidInput)
	}

	scope, err := s.resolveScope(ctx, input.DocIDs)
	if err != nil {
		return nil, AskOutput{}, err
	}

	sess, err := s.sessions.get(input.ConversationID)
	if err != nil {
		return nil, AskOutput{}, err
	}

	sess.mu.Lock()
	if len(scope) > 0 {
		sess.scope.set(scope)
	}
	turn, ok := sess.conversation.Begin(question)
	sess.mu.Unlock()
	if !ok {
		return nil, AskOutput{}, fmt.Errorf("conversation %s is already answering a question", sess.id)
	}

	result := sess.conversation.Resolve(ctx, turn)
	sess.conversation.Complete(result)
	if result.Err != nil {
		return nil, AskOutput{}, fmt.Errorf("ask: %w", result.Err)
	}
	if result.Response == nil {
		return nil, AskOutput{}, fmt.Errorf("ask: empty response: %w", domain.ErrBackend)
	}

	output := AskOutput{
		ConversationID: sess.id,
		Answer:         result.Response.Answer,
		Citations:      make([]CitationOutput, len(result.Response.Citations)),
	}
	for i, c := range result.Response.Citations {
		output.Citations[i] = CitationOutput{
			DocumentID: c.DocID,
			Filename:   c.Filename,
			Page:       c.Page,
			ChunkIndex: c.ChunkIndex,
			Content:    c.Content,
			URL:        s.pageURL(c.DocID, c.Page),
		}
	}
	return nil, output, nil
}

// resolveScope checks that every id names a ready document. The registry is
// refreshed once when an id is not in the current snapshot.
func (s *Server) resolveScope(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	scope := slices.Clone(ids)
	slices.Sort(scope)
	scope = slices.Compact(scope)

	missing := s.notReady(scope)
	if len(missing) > 0 {
		if err := s.ports.Registry.Refresh(ctx); err != nil {
			logger.Warn("mcp: refresh documents: %v", err)
		}
		missing = s.notReady(scope)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("documents %s: %w", strings.Join(missing, ", "), domain.ErrDocumentNotReady)
	}
	return scope, nil
}

func (s *Server) notReady(ids []string) []string {
	ready := s.ports.Registry.Ready()
	var missing []string
	for _, id := range ids {
		if _, ok := domain.FindDocument(ready, id); !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// handleListDocuments refreshes the registry and lists its snapshot. A failed
// refresh falls back to the previous snapshot when there is one.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	var status domain.DocumentStatus
	if input.Status != "" {
		status = domain.DocumentStatus(strings.ToLower(input.Status))
		if !status.IsValid() {
			return nil, ListDocumentsOutput{}, fmt.Errorf("unknown status %q: %w", input.Status, domain.ErrInvalidInput)
		}
	}

	docs, err := s.documents(ctx)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	output := ListDocumentsOutput{Documents: []DocumentOutput{}}
	for i := range docs {
		if status != "" && docs[i].Status != status {
			continue
		}
		output.Documents = append(output.Documents, documentOutput(docs[i]))
	}
	output.Count = len(output.Documents)
	return nil, output, nil
}

func (s *Server) documents(ctx context.Context) ([]domain.Document, error) {
	if err := s.ports.Registry.Refresh(ctx); err != nil {
		if s.ports.Registry.Status().Refreshes == 0 {
			return nil, fmt.Errorf("listing documents: %w", err)
		}
		logger.Warn("mcp: refresh documents, serving previous list: %v", err)
	}
	return s.ports.Registry.Documents(), nil
}

func documentOutput(d domain.Document) DocumentOutput {
	out := DocumentOutput{
		ID:        d.ID,
		Filename:  d.DisplayName(),
		Status:    string(d.Status),
		Pages:     d.Pages(),
		CreatedAt: d.CreatedAt,
	}
	if d.Error != nil {
		out.Error = *d.Error
	}
	return out
}

// handleListClaims reloads the claims snapshot and filters it.
func (s *Server) handleListClaims(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListClaimsInput,
) (*mcp.CallToolResult, ListClaimsOutput, error) {
	category, err := domain.ParseClaimCategory(input.Category)
	if err != nil {
		return nil, ListClaimsOutput{}, err
	}

	if err := s.ports.Claims.Load(ctx); err != nil {
		return nil, ListClaimsOutput{}, fmt.Errorf("loading claims: %w", err)
	}

	output := ListClaimsOutput{Claims: []ClaimOutput{}}
	for _, c := range s.ports.Claims.Filter(category) {
		if input.DocumentID != "" && c.DocID != input.DocumentID {
			continue
		}
		out := ClaimOutput{
			ID:         c.ID,
			DocumentID: c.DocID,
			Filename:   c.Filename,
			Page:       c.Page,
			Category:   string(c.Category),
			Text:       c.Text,
		}
		if c.SourceQuote != nil {
			out.SourceQuote = *c.SourceQuote
		}
		output.Claims = append(output.Claims, out)
	}
	output.Count = len(output.Claims)
	return nil, output, nil
}

// handleGetPage returns the text of one page.
func (s *Server) handleGetPage(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetPageInput,
) (*mcp.CallToolResult, GetPageOutput, error) {
	page, err := s.renderPage(ctx, domain.PDFTarget{DocID: input.DocumentID, Page: input.Page})
	if err != nil {
		return nil, GetPageOutput{}, err
	}
	return nil, GetPageOutput{
		DocumentID: page.Target.DocID,
		Page:       page.Target.Page,
		PageCount:  page.PageCount,
		Text:       page.Text,
		URL:        page.URL,
	}, nil
}

func (s *Server) renderPage(ctx context.Context, target domain.PDFTarget) (*domain.PDFPage, error) {
	if target.DocID == "" || target.Page < 1 {
		return nil, fmt.Errorf("document id and a page of at least 1 are required: %w", domain.ErrInvalidInput)
	}
	if _, err := s.resolveScope(ctx, []string{target.DocID}); err != nil {
		return nil, err
	}
	page, err := s.ports.PDF.Render(ctx, target)
	if err != nil {
		if errors.Is(err, domain.ErrPageOutOfRange) {
			return nil, fmt.Errorf("page %d of %s: %w", target.Page, target.DocID, err)
		}
		return nil, fmt.Errorf("rendering page: %w", err)
	}
	return page, nil
}

func (s *Server) pageURL(docID string, page int) string {
	if s.ports.PDF == nil || docID == "" {
		return ""
	}
	return s.ports.PDF.URL(domain.PDFTarget{DocID: docID, Page: max(page, 1)})
}
