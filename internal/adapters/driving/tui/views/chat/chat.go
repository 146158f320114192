// Package chat provides the conversation view for the TUI.
//
// The view has two modes. In compose mode the prompt takes every key and
// enter sends the question. In browse mode the cursor walks the citations of
// all assistant messages, which can be expanded, opened in the PDF view or
// copied.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/copilot-cli/internal/core/domain"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driving"
)

const composerHeight = 3

// View is the chat view.
type View struct {
	ctx          context.Context
	styles       *styles.Styles
	keymap       *keymap.KeyMap
	conversation driving.Conversation
	citations    driving.CitationResolver

	composer *input.Prompt
	viewport viewport.Model
	spinner  spinner.Model

	renderer      *glamour.TermRenderer
	rendererWidth int

	browsing bool
	keys     []domain.CitationKey
	cursor   list.Cursor
	width    int
	height   int
}

// NewView creates a chat view.
func NewView(
	ctx context.Context,
	s *styles.Styles,
	km *keymap.KeyMap,
	conversation driving.Conversation,
	citations driving.CitationResolver,
) *View {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = s.Subtitle

	v := &View{
		ctx:          ctx,
		styles:       s,
		keymap:       km,
		conversation: conversation,
		citations:    citations,
		composer:     input.NewPrompt(s, "Ask ", "Ask about your documents..."),
		viewport:     viewport.New(80, 20),
		spinner:      spin,
	}
	v.refresh()
	return v
}

// Init starts the composer cursor blinking.
func (v *View) Init() tea.Cmd {
	return v.composer.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, v.keymap.Clear) {
			return v, v.clear()
		}
		if v.browsing {
			return v.handleBrowseKey(msg)
		}
		return v.handleComposeKey(msg)

	case messages.AnswerReceived:
		v.conversation.Complete(msg.Result)
		v.refresh()
		return v, nil

	case spinner.TickMsg:
		if !v.conversation.Loading() {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		v.refresh()
		return v, cmd
	}

	return v, nil
}

func (v *View) handleComposeKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Send):
		return v, v.send(v.composer.Value())
	case key.Matches(msg, v.keymap.Browse):
		if len(v.keys) == 0 {
			return v, nil
		}
		v.browsing = true
		v.composer.Blur()
		v.refresh()
		return v, nil
	case msg.Type == tea.KeyPgUp || msg.Type == tea.KeyPgDown:
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.composer, cmd = v.composer.Update(msg)
	return v, cmd
}

func (v *View) handleBrowseKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Up):
		v.cursor.Up()
	case key.Matches(msg, v.keymap.Down):
		v.cursor.Down()
	case key.Matches(msg, v.keymap.Toggle):
		if k, ok := v.selected(); ok {
			if err := v.citations.Toggle(k.Message, k.Citation); err != nil {
				return v, errorCmd(err)
			}
		}
	case key.Matches(msg, v.keymap.ViewSource):
		return v, v.viewSource()
	case key.Matches(msg, v.keymap.Copy):
		return v, v.copy()
	case key.Matches(msg, v.keymap.Compose), key.Matches(msg, v.keymap.Back):
		v.browsing = false
		v.refresh()
		return v, v.composer.Focus()
	default:
		return v, nil
	}
	v.refresh()
	return v, nil
}

// send begins a turn and resolves it off the update loop.
func (v *View) send(text string) tea.Cmd {
	turn, ok := v.conversation.Begin(text)
	if !ok {
		return nil
	}
	v.composer.Reset()
	v.refresh()

	conversation := v.conversation
	ctx := v.ctx
	resolve := func() tea.Msg {
		return messages.AnswerReceived{Result: conversation.Resolve(ctx, turn)}
	}
	return tea.Batch(v.spinner.Tick, resolve)
}

func (v *View) clear() tea.Cmd {
	v.conversation.Clear()
	v.browsing = false
	v.cursor.Reset()
	v.refresh()
	return tea.Batch(v.composer.Focus(), func() tea.Msg {
		return messages.StatusChanged{Text: "Conversation cleared"}
	})
}

func (v *View) viewSource() tea.Cmd {
	k, ok := v.selected()
	if !ok {
		return nil
	}
	cite, err := v.conversation.Citation(k)
	if err != nil {
		return errorCmd(err)
	}
	if err := v.citations.ActivateCitation(k.Message, k.Citation); err != nil {
		return errorCmd(err)
	}
	target := domain.PDFTarget{DocID: cite.DocID, Page: cite.Page}
	return func() tea.Msg { return messages.SourceOpened{Target: target} }
}

func (v *View) copy() tea.Cmd {
	k, ok := v.selected()
	if !ok {
		return nil
	}
	if err := v.citations.CopyCitation(k.Message, k.Citation); err != nil {
		return errorCmd(fmt.Errorf("copy citation: %w", err))
	}
	return func() tea.Msg { return messages.StatusChanged{Text: "Citation copied to clipboard"} }
}

func (v *View) selected() (domain.CitationKey, bool) {
	i := v.cursor.Index()
	if i < 0 || i >= len(v.keys) {
		return domain.CitationKey{}, false
	}
	return v.keys[i], true
}

// refresh rebuilds the citation index and the transcript.
func (v *View) refresh() {
	msgs := v.conversation.Messages()

	v.keys = v.keys[:0]
	for i := range msgs {
		for j := range msgs[i].Citations {
			v.keys = append(v.keys, domain.CitationKey{Message: i, Citation: j})
		}
	}
	v.cursor.SetLen(len(v.keys))
	if len(v.keys) == 0 {
		v.browsing = false
	}

	content, selectedLine := v.render(msgs)
	v.viewport.SetContent(content)
	if v.browsing && selectedLine >= 0 {
		if selectedLine < v.viewport.YOffset || selectedLine >= v.viewport.YOffset+v.viewport.Height {
			v.viewport.SetYOffset(selectedLine - v.viewport.Height/2)
		}
		return
	}
	v.viewport.GotoBottom()
}

// render returns the transcript and the line of the selected citation.
func (v *View) render(msgs []domain.Message) (string, int) {
	width := v.contentWidth()
	if len(msgs) == 0 && !v.conversation.Loading() {
		return v.styles.Muted.Render(wordwrap.String(
			"Ask a question about your documents. Answers cite the pages they rely on.", width)), -1
	}

	selectedKey, hasSelection := v.selected()
	selectedLine := -1
	var b strings.Builder
	lines := 0
	write := func(s string) {
		b.WriteString(s)
		b.WriteString("\n")
		lines += strings.Count(s, "\n") + 1
	}

	for i := range msgs {
		msg := msgs[i]
		if msg.Role == domain.RoleUser {
			write(v.styles.UserLabel.Render("You"))
			write(wordwrap.String(msg.Content, width))
			write("")
			continue
		}

		write(v.styles.AssistantLabel.Render("Assistant"))
		write(v.markdown(msg.Content, width))
		if len(msg.Citations) > 0 {
			write(v.styles.Muted.Render("Sources"))
		}
		for j, cite := range msg.Citations {
			k := domain.CitationKey{Message: i, Citation: j}
			expanded := v.conversation.IsExpanded(k)
			isSelected := v.browsing && hasSelection && k == selectedKey
			if isSelected {
				selectedLine = lines
			}
			write(v.renderCitation(j, cite, expanded, isSelected))
			if expanded {
				snippet := wordwrap.String(strings.TrimSpace(cite.Content), width-6)
				write(v.styles.Quote.Render(indent.String(snippet, 6)))
			}
		}
		write("")
	}

	if v.conversation.Loading() {
		write(fmt.Sprintf("%s %s", v.spinner.View(), v.styles.Muted.Render("Thinking…")))
	}
	return strings.TrimRight(b.String(), "\n"), selectedLine
}

func (v *View) renderCitation(index int, cite domain.Citation, expanded, selected bool) string {
	marker := "▸"
	if expanded {
		marker = "▾"
	}
	line := fmt.Sprintf("  %s [%d] %s · p. %d", marker, index+1, cite.Title(), cite.Page)
	if selected {
		return v.styles.Selected.Render(line)
	}
	return v.styles.Citation.Render(line)
}

// markdown renders an answer with glamour, falling back to wrapped text.
func (v *View) markdown(content string, width int) string {
	if v.renderer == nil || v.rendererWidth != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStylePath("dark"),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return wordwrap.String(content, width)
		}
		v.renderer = r
		v.rendererWidth = width
	}
	out, err := v.renderer.Render(content)
	if err != nil {
		return wordwrap.String(content, width)
	}
	return strings.Trim(out, "\n")
}

func (v *View) contentWidth() int {
	w := v.viewport.Width - 2
	if w < 20 {
		w = 20
	}
	return w
}

// View renders the chat view.
func (v *View) View() string {
	var footer string
	if v.browsing {
		footer = v.styles.Help.Render(fmt.Sprintf("Browsing citations (%d/%d) · i to compose",
			v.cursor.Index()+1, len(v.keys)))
	} else {
		footer = v.composer.View()
	}
	return v.viewport.View() + "\n" + footer
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.viewport.Width = width
	v.viewport.Height = max(height-composerHeight-1, 3)
	v.composer.SetWidth(width)
	v.refresh()
}

// Capturing reports whether the composer takes every key.
func (v *View) Capturing() bool {
	return !v.browsing
}

// Browsing reports whether citation browse mode is active.
func (v *View) Browsing() bool {
	return v.browsing
}

// Hints returns the bindings for the current mode.
func (v *View) Hints() []key.Binding {
	if v.browsing {
		return v.keymap.BrowseHelp()
	}
	return v.keymap.ComposeHelp()
}

// Draft returns the composer text.
func (v *View) Draft() string {
	return v.composer.Value()
}

// SelectedCitation returns the citation under the browse cursor.
func (v *View) SelectedCitation() (domain.CitationKey, bool) {
	return v.selected()
}

func errorCmd(err error) tea.Cmd {
	return func() tea.Msg { return messages.ErrorOccurred{Err: err} }
}
