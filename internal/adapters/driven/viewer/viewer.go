// Package viewer renders PDF pages as plain text for the terminal.
//
// PDFs are downloaded through the backend into an on-disk cache and pages
// are extracted with github.com/ledongthuc/pdf. Layout and images are not
// reproduced; the PDF tab offers "open externally" for that.
package viewer

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driven"
)

// Ensure Viewer implements the interface.
var _ driven.PDFViewer = (*Viewer)(nil)

var (
	spaceRun = regexp.MustCompile(`[ \t\f\r]+`)
	blankRun = regexp.MustCompile(`\n{3,}`)
)

// Viewer extracts page text from cached PDFs.
type Viewer struct {
	cache *Cache
}

// New creates a viewer over cache.
func New(cache *Cache) *Viewer {
	return &Viewer{cache: cache}
}

// Page returns the text and page count for target.
func (v *Viewer) Page(ctx context.Context, target domain.PDFTarget) (*domain.PDFPage, error) {
	if target.IsZero() || target.Page < 1 {
		return nil, fmt.Errorf("page %d: %w", target.Page, domain.ErrPageOutOfRange)
	}

	path, err := v.cache.Fetch(ctx, target.DocID)
	if err != nil {
		return nil, err
	}

	text, count, err := extractPage(path, target.Page)
	if err != nil {
		return nil, err
	}
	return &domain.PDFPage{Target: target, PageCount: count, Text: text}, nil
}

// Forget evicts docID from the cache.
func (v *Viewer) Forget(docID string) error {
	return v.cache.Evict(docID)
}

// extractPage returns the plain text of page n and the document's page count.
func extractPage(path string, n int) (string, int, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer file.Close()

	count := reader.NumPage()
	if n > count {
		return "", count, fmt.Errorf("page %d of %d: %w", n, count, domain.ErrPageOutOfRange)
	}

	page := reader.Page(n)
	if page.V.IsNull() {
		return "", count, nil
	}
	raw, err := page.GetPlainText(nil)
	if err != nil {
		return "", count, fmt.Errorf("failed to extract page %d: %w", n, err)
	}
	return normalise(raw), count, nil
}

// normalise collapses runs of spaces and blank lines.
func normalise(text string) string {
	text = spaceRun.ReplaceAllString(text, " ")
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	text = strings.Join(lines, "\n")
	text = blankRun.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
