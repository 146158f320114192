// Package claims provides the claims browser view for the TUI.
package claims

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/copilot-cli/internal/core/domain"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driving"
)

const loadedAtLayout = "15:04:05"

// Filters lists the category filters in display order.
func Filters() []domain.ClaimCategory {
	return append([]domain.ClaimCategory{domain.CategoryAll}, domain.ClaimCategories()...)
}

// View is the claims view.
type View struct {
	ctx         context.Context
	styles      *styles.Styles
	keymap      *keymap.KeyMap
	claims      driving.ClaimsService
	coordinator driving.ViewCoordinator

	filter   int
	visible  []domain.Claim
	cursor   list.Cursor
	viewport viewport.Model
	pending  int
	err      error
}

// NewView creates a claims view.
func NewView(
	ctx context.Context,
	s *styles.Styles,
	km *keymap.KeyMap,
	claims driving.ClaimsService,
	coordinator driving.ViewCoordinator,
) *View {
	return &View{
		ctx:         ctx,
		styles:      s,
		keymap:      km,
		claims:      claims,
		coordinator: coordinator,
		viewport:    viewport.New(80, 20),
	}
}

// Load returns a command that reloads the claims snapshot.
func (v *View) Load() tea.Cmd {
	v.pending++
	v.refresh()
	claims := v.claims
	ctx := v.ctx
	return func() tea.Msg {
		return messages.ClaimsLoaded{Err: claims.Load(ctx)}
	}
}

// Update handles messages for the claims view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.ClaimsLoaded:
		if v.pending > 0 {
			v.pending--
		}
		v.err = msg.Err
		v.refresh()
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	filters := Filters()
	switch {
	case key.Matches(msg, v.keymap.NextCategory):
		v.filter = (v.filter + 1) % len(filters)
		v.cursor.Reset()
	case key.Matches(msg, v.keymap.PrevCategory):
		v.filter = (v.filter + len(filters) - 1) % len(filters)
		v.cursor.Reset()
	case key.Matches(msg, v.keymap.Up):
		v.cursor.Up()
	case key.Matches(msg, v.keymap.Down):
		v.cursor.Down()
	case key.Matches(msg, v.keymap.ViewSource), key.Matches(msg, v.keymap.Select):
		return v, v.viewSource()
	case key.Matches(msg, v.keymap.Reload):
		return v, v.Load()
	case msg.Type == tea.KeyPgUp || msg.Type == tea.KeyPgDown:
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd
	default:
		return v, nil
	}
	v.refresh()
	return v, nil
}

func (v *View) viewSource() tea.Cmd {
	claim, ok := v.Selected()
	if !ok {
		return nil
	}
	page := claim.Page
	if page < 1 {
		page = 1
	}
	if err := v.coordinator.ViewSource(claim.DocID, page); err != nil {
		return func() tea.Msg { return messages.ErrorOccurred{Err: err} }
	}
	target := domain.PDFTarget{DocID: claim.DocID, Page: page}
	return func() tea.Msg { return messages.SourceOpened{Target: target} }
}

// Refresh re-reads the snapshot. Call it when the view becomes active.
func (v *View) Refresh() {
	v.refresh()
}

func (v *View) refresh() {
	category := v.Category()
	groups := v.claims.Groups(category)

	v.visible = v.visible[:0]
	for _, g := range groups {
		v.visible = append(v.visible, g.Claims...)
	}
	v.cursor.SetLen(len(v.visible))

	content, selectedLine := v.render(category, groups)
	v.viewport.SetContent(content)
	if selectedLine >= 0 &&
		(selectedLine < v.viewport.YOffset || selectedLine >= v.viewport.YOffset+v.viewport.Height-2) {
		v.viewport.SetYOffset(selectedLine - 2)
	}
}

func (v *View) render(category domain.ClaimCategory, groups []domain.ClaimGroup) (string, int) {
	width := v.viewport.Width - 2
	if width < 20 {
		width = 20
	}

	var b strings.Builder
	b.WriteString(v.renderFilters(category))
	b.WriteString("\n\n")
	lines := 2

	switch {
	case v.pending > 0 && len(v.claims.Claims()) == 0:
		b.WriteString(v.styles.Muted.Render("Loading claims…"))
		return b.String(), -1
	case v.err != nil && len(v.claims.Claims()) == 0:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Could not load claims: %s", v.err)))
		return b.String(), -1
	case len(v.visible) == 0:
		if category == domain.CategoryAll {
			b.WriteString(v.styles.Muted.Render("No claims extracted yet."))
		} else {
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("No %s claims.", strings.ToLower(category.Label()))))
		}
		return b.String(), -1
	}

	selectedLine := -1
	index := 0
	for _, g := range groups {
		name := g.Filename
		if name == "" {
			name = domain.ShortID(g.DocID)
		}
		header := v.styles.Subtitle.Render(name) + v.styles.Muted.Render(fmt.Sprintf(" (%d)", len(g.Claims)))
		b.WriteString(header + "\n")
		lines++

		for _, c := range g.Claims {
			card, n := v.renderCard(c, index == v.cursor.Index(), width)
			if index == v.cursor.Index() {
				selectedLine = lines
			}
			b.WriteString(card + "\n")
			lines += n
			index++
		}
		b.WriteString("\n")
		lines++
	}
	return strings.TrimRight(b.String(), "\n"), selectedLine
}

func (v *View) renderFilters(active domain.ClaimCategory) string {
	parts := make([]string, 0, len(Filters()))
	for _, f := range Filters() {
		label := fmt.Sprintf("%s %d", f.Label(), len(v.claims.Filter(f)))
		if f == active {
			parts = append(parts, v.styles.ActiveTab.Render(label))
		} else {
			parts = append(parts, v.styles.Tab.Render(label))
		}
	}
	if at := v.claims.LoadedAt(); !at.IsZero() {
		parts = append(parts, v.styles.Muted.Render("  loaded "+at.Format(loadedAtLayout)))
	}
	return strings.Join(parts, "")
}

// renderCard returns a claim card and its line count.
func (v *View) renderCard(c domain.Claim, selected bool, width int) (string, int) {
	marker := "  "
	if selected {
		marker = v.styles.Title.Render("› ")
	}
	head := marker + v.styles.CategoryBadge(c.Category) + v.styles.Muted.Render(fmt.Sprintf(" p. %d", c.Page))

	text := indent.String(wordwrap.String(c.Text, width-4), 4)
	if selected {
		text = v.styles.Normal.Bold(true).Render(text)
	} else {
		text = v.styles.Normal.Render(text)
	}

	parts := []string{head, text}
	if c.SourceQuote != nil && strings.TrimSpace(*c.SourceQuote) != "" {
		quote := wordwrap.String(fmt.Sprintf("“%s”", strings.TrimSpace(*c.SourceQuote)), width-6)
		parts = append(parts, v.styles.Quote.Render(indent.String(quote, 6)))
	}
	card := strings.Join(parts, "\n")
	return card, strings.Count(card, "\n") + 1
}

// View renders the claims view.
func (v *View) View() string {
	return v.viewport.View()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.viewport.Width = width
	v.viewport.Height = max(height, 3)
	v.refresh()
}

// Category returns the active filter.
func (v *View) Category() domain.ClaimCategory {
	return Filters()[v.filter]
}

// SetCategory activates category if it is a known filter.
func (v *View) SetCategory(category domain.ClaimCategory) {
	for i, f := range Filters() {
		if f == category {
			v.filter = i
			v.cursor.Reset()
			v.refresh()
			return
		}
	}
}

// Selected returns the claim under the cursor.
func (v *View) Selected() (domain.Claim, bool) {
	i := v.cursor.Index()
	if i < 0 || i >= len(v.visible) {
		return domain.Claim{}, false
	}
	return v.visible[i], true
}

// Loading reports whether a load is in flight.
func (v *View) Loading() bool {
	return v.pending > 0
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}

// Hints returns the view's bindings.
func (v *View) Hints() []key.Binding {
	return v.keymap.ClaimsHelp()
}
