// Package pdf provides the PDF page view for the TUI.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/copilot-cli/internal/core/domain"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driving"
)

// DocumentSource supplies document names for the page header.
type DocumentSource interface {
	Documents() []domain.Document
}

// View is the PDF page view.
type View struct {
	ctx       context.Context
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	pdf       driving.PDFService
	documents DocumentSource

	target   domain.PDFTarget
	page     *domain.PDFPage
	loading  bool
	err      error
	viewport viewport.Model
}

// NewView creates a PDF view. documents may be nil.
func NewView(
	ctx context.Context,
	s *styles.Styles,
	km *keymap.KeyMap,
	pdf driving.PDFService,
	documents DocumentSource,
) *View {
	return &View{
		ctx:       ctx,
		styles:    s,
		keymap:    km,
		pdf:       pdf,
		documents: documents,
		viewport:  viewport.New(80, 20),
	}
}

// Load returns a command that renders target. Results for any other target
// are ignored when they arrive.
func (v *View) Load(target domain.PDFTarget) tea.Cmd {
	if target == v.target && (v.page != nil || v.loading) {
		return nil
	}
	v.target = target
	v.page = nil
	v.err = nil
	if target.IsZero() {
		v.loading = false
		v.refresh()
		return nil
	}
	v.loading = true
	v.refresh()

	svc := v.pdf
	ctx := v.ctx
	return func() tea.Msg {
		page, err := svc.Render(ctx, target)
		return messages.PDFLoaded{Target: target, Page: page, Err: err}
	}
}

// Update handles messages for the PDF view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.PDFLoaded:
		if msg.Target != v.target {
			return v, nil
		}
		v.loading = false
		v.page = msg.Page
		v.err = msg.Err
		v.refresh()
		v.viewport.GotoTop()
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.NextPage):
		return v, v.turn(1)
	case key.Matches(msg, v.keymap.PrevPage):
		return v, v.turn(-1)
	case key.Matches(msg, v.keymap.OpenExternal):
		return v, v.openExternal()
	case key.Matches(msg, v.keymap.Up), key.Matches(msg, v.keymap.Down),
		msg.Type == tea.KeyPgUp, msg.Type == tea.KeyPgDown:
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) turn(delta int) tea.Cmd {
	if v.target.IsZero() {
		return nil
	}
	target, err := v.pdf.Turn(delta)
	if err != nil {
		return errorCmd(err)
	}
	return v.Load(target)
}

func (v *View) openExternal() tea.Cmd {
	if v.target.IsZero() {
		return nil
	}
	target := v.target
	if err := v.pdf.OpenExternal(target); err != nil {
		return errorCmd(fmt.Errorf("open externally: %w", err))
	}
	return func() tea.Msg {
		return messages.StatusChanged{Text: fmt.Sprintf("Opened page %d in the system viewer", target.Page)}
	}
}

func (v *View) refresh() {
	v.viewport.SetContent(v.render())
}

func (v *View) render() string {
	if v.target.IsZero() {
		return v.styles.Muted.Render("Select a citation, claim or document to open it here.")
	}

	width := v.viewport.Width - 2
	if width < 20 {
		width = 20
	}

	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render(v.title()))
	b.WriteString("  ")
	b.WriteString(v.styles.Muted.Render(v.pageLabel()))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading page…"))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(v.describeError()))
	case v.page == nil || strings.TrimSpace(v.page.Text) == "":
		b.WriteString(v.styles.Muted.Render("No extractable text on this page."))
	default:
		b.WriteString(v.styles.Normal.Render(wordwrap.String(v.page.Text, width)))
	}

	url := v.pdf.URL(v.target)
	if v.page != nil && v.page.URL != "" {
		url = v.page.URL
	}
	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render(url))
	return b.String()
}

func (v *View) title() string {
	if v.documents != nil {
		if doc, ok := domain.FindDocument(v.documents.Documents(), v.target.DocID); ok {
			return doc.DisplayName()
		}
	}
	return domain.ShortID(v.target.DocID)
}

func (v *View) pageLabel() string {
	if v.page != nil && v.page.PageCount > 0 {
		return fmt.Sprintf("Page %d of %d", v.target.Page, v.page.PageCount)
	}
	return fmt.Sprintf("Page %d", v.target.Page)
}

func (v *View) describeError() string {
	switch {
	case errors.Is(v.err, domain.ErrPageOutOfRange):
		return fmt.Sprintf("Page %d is outside this document.", v.target.Page)
	case errors.Is(v.err, domain.ErrViewerUnavailable):
		return "Page text is unavailable; press o to open the PDF externally."
	default:
		return fmt.Sprintf("Could not load page: %s", v.err)
	}
}

// View renders the PDF view.
func (v *View) View() string {
	return v.viewport.View()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.viewport.Width = width
	v.viewport.Height = max(height, 3)
	v.refresh()
}

// Target returns the target being shown.
func (v *View) Target() domain.PDFTarget {
	return v.target
}

// Page returns the rendered page, nil while loading or after an error.
func (v *View) Page() *domain.PDFPage {
	return v.page
}

// Loading reports whether a page render is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last render error.
func (v *View) Err() error {
	return v.err
}

// Hints returns the view's bindings.
func (v *View) Hints() []key.Binding {
	return v.keymap.PDFHelp()
}

func errorCmd(err error) tea.Cmd {
	return func() tea.Msg { return messages.ErrorOccurred{Err: err} }
}
