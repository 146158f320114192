package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
)

// uriScheme prefixes every copilot resource URI.
const uriScheme = "copilot://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "Uploaded papers with their ingestion status",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "claims",
		Name:        "claims",
		Description: "All claims extracted from the papers",
		MIMEType:    "application/json",
	}, s.handleClaimsResource)

	if s.ports.PDF != nil {
		s.server.AddResourceTemplate(&mcp.ResourceTemplate{
			URITemplate: uriScheme + "documents/{documentId}/pages/{page}",
			Name:        "document-page",
			Description: "Text of one page of a paper",
			MIMEType:    "text/plain",
		}, s.handlePageResource)
	}
}

func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	docs, err := s.documents(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]DocumentOutput, len(docs))
	for i := range docs {
		infos[i] = documentOutput(docs[i])
	}
	return jsonResult(req.Params.URI, infos)
}

func (s *Server) handleClaimsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	_, output, err := s.handleListClaims(ctx, nil, ListClaimsInput{})
	if err != nil {
		return nil, err
	}
	return jsonResult(req.Params.URI, output.Claims)
}

func (s *Server) handlePageResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	target, ok := extractPageTarget(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	page, err := s.renderPage(ctx, target)
	if err != nil {
		return nil, err
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     page.Text,
		}},
	}, nil
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractPageTarget parses copilot://documents/{documentId}/pages/{page}.
func extractPageTarget(uri string) (domain.PDFTarget, bool) {
	const prefix = uriScheme + "documents/"

	rest, ok := strings.CutPrefix(uri, prefix)
	if !ok {
		return domain.PDFTarget{}, false
	}
	docID, pageText, ok := strings.Cut(rest, "/pages/")
	if !ok || docID == "" || strings.Contains(docID, "/") {
		return domain.PDFTarget{}, false
	}
	page, err := strconv.Atoi(pageText)
	if err != nil || page < 1 {
		return domain.PDFTarget{}, false
	}
	return domain.PDFTarget{DocID: docID, Page: page}, true
}
