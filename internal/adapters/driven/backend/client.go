// Package backend provides the HTTP adapter for the research backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driven"
	"github.com/custodia-labs/copilot-cli/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.Backend = (*Client)(nil)

// HeaderRequestID carries a per-request id for backend log correlation.
const HeaderRequestID = "X-Request-ID"

// Config holds configuration for the backend client.
type Config struct {
	// BaseURL is the backend root (default: http://localhost:8000).
	BaseURL string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration

	// RateLimit is the sustained requests per second. Zero disables throttling.
	RateLimit float64

	// HTTPClient overrides the default client. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client talks to the backend over HTTP.
type Client struct {
	client  *http.Client
	baseURL string
	limiter *RateLimiter
}

// uploadResponse is the /upload response format.
type uploadResponse struct {
	OK    bool   `json:"ok"`
	DocID string `json:"doc_id"`
}

// NewClient creates a backend client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = domain.DefaultBackendURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = domain.DefaultBackendTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		client:  httpClient,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		limiter: NewRateLimiter(cfg.RateLimit),
	}
}

// BaseURL returns the backend root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListDocuments returns every document.
func (c *Client) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	var docs []domain.Document
	if err := c.doJSON(ctx, "list documents", http.MethodGet, "/documents", nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// DeleteDocument removes one document.
func (c *Client) DeleteDocument(ctx context.Context, docID string) error {
	path := "/documents/" + url.PathEscape(docID)
	return c.doJSON(ctx, "delete document", http.MethodDelete, path, nil, nil)
}

// Ask posts a question.
func (c *Client) Ask(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	if req.History == nil {
		req.History = []domain.HistoryEntry{}
	}
	var resp domain.ChatResponse
	if err := c.doJSON(ctx, "ask", http.MethodPost, "/chat", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListClaims returns the claim set.
func (c *Client) ListClaims(ctx context.Context) ([]domain.Claim, error) {
	var claims []domain.Claim
	if err := c.doJSON(ctx, "list claims", http.MethodGet, "/claims", nil, &claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// Upload sends a PDF as the multipart field "file".
func (c *Client) Upload(ctx context.Context, filename string, content io.Reader) (string, error) {
	const op = "upload"

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("%s: create form: %w", op, err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("%s: read %s: %w", op, filename, err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("%s: close form: %w", op, err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/upload", &body)
	if err != nil {
		return "", fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.send(op, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &transportError{op: op, err: fmt.Errorf("decode response: %w", err)}
	}
	if out.DocID == "" {
		return "", &transportError{op: op, err: fmt.Errorf("response has no doc_id")}
	}
	return out.DocID, nil
}

// FetchPDF downloads a document's PDF, revalidating against etag when given.
func (c *Client) FetchPDF(ctx context.Context, docID, etag string) (io.ReadCloser, string, bool, error) {
	const op = "fetch pdf"

	req, err := c.newRequest(ctx, http.MethodGet, "/documents/"+url.PathEscape(docID)+"/pdf", nil)
	if err != nil {
		return nil, "", false, fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/pdf")
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, "", false, &transportError{op: op, err: err}
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", false, &transportError{op: op, err: err}
	}
	c.limiter.Observe(resp)

	switch {
	case resp.StatusCode == http.StatusNotModified:
		resp.Body.Close()
		return nil, etag, true, nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		defer resp.Body.Close()
		return nil, "", false, statusError(op, resp)
	}
	return resp.Body, resp.Header.Get("ETag"), false, nil
}

// PDFURL returns {base}/documents/{id}/pdf#page={n}.
func (c *Client) PDFURL(docID string, page int) string {
	if page < 1 {
		page = 1
	}
	return fmt.Sprintf("%s/documents/%s/pdf#page=%d", c.baseURL, url.PathEscape(docID), page)
}

// doJSON sends an optional JSON body and decodes an optional JSON response.
func (c *Client) doJSON(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.send(op, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &transportError{op: op, err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set(HeaderRequestID, uuid.NewString())
	return req, nil
}

// send throttles, performs the request and turns non-2xx into *StatusError.
// The caller closes the body of a successful response.
func (c *Client) send(op string, req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, &transportError{op: op, err: err}
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		logger.Debug("backend: %s %s failed: %v", req.Method, req.URL.Path, err)
		return nil, &transportError{op: op, err: err}
	}
	c.limiter.Observe(resp)
	logger.Debug("backend: %s %s -> %d in %s [%s]",
		req.Method, req.URL.Path, resp.StatusCode, time.Since(start).Round(time.Millisecond), req.Header.Get(HeaderRequestID))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, statusError(op, resp)
	}
	return resp, nil
}

func statusError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{Op: op, Status: resp.StatusCode, Body: string(body)}
}
