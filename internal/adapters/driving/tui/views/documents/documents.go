// Package documents provides the documents sidebar for the TUI.
package documents

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/copilot-cli/internal/core/domain"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driving"
)

// rowsPerDocument is the height of one entry including its spacer.
const rowsPerDocument = 3

// View is the documents sidebar.
type View struct {
	ctx         context.Context
	styles      *styles.Styles
	keymap      *keymap.KeyMap
	registry    driving.DocumentRegistry
	selection   driving.SelectionService
	coordinator driving.ViewCoordinator
	upload      driving.UploadService

	docs      []domain.Document
	cursor    list.Cursor
	prompt    *input.Prompt
	uploading bool
	deleting  map[string]bool
	focused   bool
	width     int
	height    int
}

// NewView creates a documents sidebar. upload may be nil, which disables
// the upload prompt.
func NewView(
	ctx context.Context,
	s *styles.Styles,
	km *keymap.KeyMap,
	registry driving.DocumentRegistry,
	selection driving.SelectionService,
	coordinator driving.ViewCoordinator,
	upload driving.UploadService,
) *View {
	prompt := input.NewPrompt(s, "PDF ", "path/to/paper.pdf")
	prompt.Blur()

	v := &View{
		ctx:         ctx,
		styles:      s,
		keymap:      km,
		registry:    registry,
		selection:   selection,
		coordinator: coordinator,
		upload:      upload,
		prompt:      prompt,
		deleting:    map[string]bool{},
	}
	v.Refresh()
	return v
}

// Refresh re-reads the registry snapshot.
func (v *View) Refresh() {
	v.docs = v.registry.Documents()
	v.cursor.SetLen(len(v.docs))
}

// Update handles messages for the sidebar.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.RegistryUpdated:
		v.Refresh()
		return v, nil

	case messages.DocumentDeleted:
		delete(v.deleting, msg.DocumentID)
		v.Refresh()
		if msg.Err != nil {
			return v, errorCmd(msg.Err)
		}
		return v, statusCmd(fmt.Sprintf("Deleted %s", domain.ShortID(msg.DocumentID)))

	case messages.DocumentUploaded:
		v.Refresh()
		if msg.Err != nil {
			return v, errorCmd(fmt.Errorf("upload %s: %w", filepath.Base(msg.Path), msg.Err))
		}
		return v, statusCmd(fmt.Sprintf("Uploaded %s, processing as %s",
			filepath.Base(msg.Path), domain.ShortID(msg.DocumentID)))

	case tea.KeyMsg:
		if v.uploading {
			return v.handlePromptKey(msg)
		}
		return v.handleKeyMsg(msg)
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Up):
		v.cursor.Up()
	case key.Matches(msg, v.keymap.Down):
		v.cursor.Down()
	case key.Matches(msg, v.keymap.Select):
		return v, v.open()
	case key.Matches(msg, v.keymap.Scope):
		return v, v.toggleScope()
	case key.Matches(msg, v.keymap.ClearScope):
		v.selection.ClearScope()
		return v, func() tea.Msg { return messages.ScopeChanged{} }
	case key.Matches(msg, v.keymap.Delete):
		return v, v.delete()
	case key.Matches(msg, v.keymap.Upload):
		if v.upload == nil {
			return v, errorCmd(fmt.Errorf("upload is not available"))
		}
		v.uploading = true
		return v, v.prompt.Focus()
	case key.Matches(msg, v.keymap.Reload):
		return v, v.reload()
	}
	return v, nil
}

func (v *View) handlePromptKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.closePrompt()
		return v, nil
	case tea.KeyEnter:
		path := strings.TrimSpace(v.prompt.Value())
		v.closePrompt()
		if path == "" {
			return v, nil
		}
		return v, v.submit(path)
	}

	var cmd tea.Cmd
	v.prompt, cmd = v.prompt.Update(msg)
	return v, cmd
}

func (v *View) closePrompt() {
	v.uploading = false
	v.prompt.Reset()
	v.prompt.Blur()
}

func (v *View) submit(path string) tea.Cmd {
	upload := v.upload
	ctx := v.ctx
	return tea.Batch(
		statusCmd(fmt.Sprintf("Uploading %s…", filepath.Base(path))),
		func() tea.Msg {
			id, err := upload.UploadFile(ctx, path)
			return messages.DocumentUploaded{Path: path, DocumentID: id, Err: err}
		},
	)
}

func (v *View) open() tea.Cmd {
	doc, ok := v.Selected()
	if !ok {
		return nil
	}
	if !doc.Ready() {
		return errorCmd(fmt.Errorf("%s: %w", doc.DisplayName(), domain.ErrDocumentNotReady))
	}
	if err := v.coordinator.ViewSource(doc.ID, 1); err != nil {
		return errorCmd(err)
	}
	target := domain.PDFTarget{DocID: doc.ID, Page: 1}
	return func() tea.Msg { return messages.SourceOpened{Target: target} }
}

func (v *View) toggleScope() tea.Cmd {
	doc, ok := v.Selected()
	if !ok {
		return nil
	}
	if err := v.selection.ToggleScope(doc.ID); err != nil {
		return errorCmd(fmt.Errorf("%s: %w", doc.DisplayName(), err))
	}
	return func() tea.Msg { return messages.ScopeChanged{} }
}

func (v *View) delete() tea.Cmd {
	doc, ok := v.Selected()
	if !ok || v.deleting[doc.ID] {
		return nil
	}
	v.deleting[doc.ID] = true
	registry := v.registry
	ctx := v.ctx
	id := doc.ID
	return func() tea.Msg {
		return messages.DocumentDeleted{DocumentID: id, Err: registry.Delete(ctx, id)}
	}
}

func (v *View) reload() tea.Cmd {
	registry := v.registry
	ctx := v.ctx
	return func() tea.Msg {
		if err := registry.Refresh(ctx); err != nil {
			return messages.ErrorOccurred{Err: err}
		}
		return messages.RegistryUpdated{}
	}
}

// View renders the sidebar.
func (v *View) View() string {
	var b strings.Builder

	ready := len(domain.ReadyDocuments(v.docs))
	b.WriteString(v.styles.Title.Render("Documents"))
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf(" %d/%d ready", ready, len(v.docs))))
	b.WriteString("\n\n")

	if len(v.docs) == 0 {
		b.WriteString(v.styles.Muted.Render("No documents yet. Press u to upload a PDF."))
	}

	snapshot := v.selection.Snapshot()
	v.cursor.SetHeight((v.height - 4) / rowsPerDocument)
	start, end := v.cursor.Window()
	for i := start; i < end; i++ {
		b.WriteString(v.renderDocument(i, v.docs[i], snapshot))
		b.WriteString("\n")
	}
	if len(v.docs) > end-start {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("[%d-%d of %d]", start+1, end, len(v.docs))))
		b.WriteString("\n")
	}

	if v.uploading {
		b.WriteString("\n")
		b.WriteString(v.prompt.View())
	}
	return strings.TrimRight(b.String(), "\n")
}

func (v *View) renderDocument(index int, doc domain.Document, snapshot domain.Selection) string {
	nameWidth := v.width - 8
	if nameWidth < 10 {
		nameWidth = 10
	}

	box := "   "
	if doc.Ready() {
		box = "[ ]"
		if snapshot.Scoped(doc.ID) {
			box = "[x]"
		}
	}
	name := truncate(doc.DisplayName(), nameWidth)
	line := fmt.Sprintf("%s %s", box, name)

	switch {
	case v.focused && index == v.cursor.Index():
		line = v.styles.Selected.Render(line)
	case doc.ID == snapshot.PDF.DocID:
		line = v.styles.Subtitle.Render(line)
	default:
		line = v.styles.Normal.Render(line)
	}

	meta := []string{}
	if year := doc.Year(); year != "" {
		meta = append(meta, year)
	}
	if pages := doc.Pages(); pages > 0 {
		meta = append(meta, fmt.Sprintf("%d pages", pages))
	}
	details := "    " + v.styles.Muted.Render(strings.Join(meta, " · "))
	if len(meta) > 0 {
		details += " "
	}
	if v.deleting[doc.ID] {
		details += v.styles.Muted.Render("Deleting…")
	} else {
		details += v.styles.StatusPill(doc.Status)
	}
	if doc.Status == domain.StatusFailed && doc.Error != nil && *doc.Error != "" {
		details += "\n    " + v.styles.Error.Render(truncate(*doc.Error, nameWidth))
	}
	return line + "\n" + details
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// SetDimensions sets the sidebar dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.prompt.SetWidth(width)
}

// SetFocused marks the sidebar as the pane taking keys.
func (v *View) SetFocused(focused bool) {
	v.focused = focused
}

// Capturing reports whether the upload prompt takes every key.
func (v *View) Capturing() bool {
	return v.uploading
}

// Documents returns the displayed snapshot.
func (v *View) Documents() []domain.Document {
	return v.docs
}

// Selected returns the document under the cursor.
func (v *View) Selected() (domain.Document, bool) {
	i := v.cursor.Index()
	if i < 0 || i >= len(v.docs) {
		return domain.Document{}, false
	}
	return v.docs[i], true
}

// Hints returns the sidebar bindings.
func (v *View) Hints() []key.Binding {
	return v.keymap.DocumentsHelp()
}

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return messages.StatusChanged{Text: text} }
}

func errorCmd(err error) tea.Cmd {
	return func() tea.Msg { return messages.ErrorOccurred{Err: err} }
}
