package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/tui/views/claims"
	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/tui/views/pdf"
	"github.com/custodia-labs/copilot-cli/internal/core/domain"
	"github.com/custodia-labs/copilot-cli/internal/logger"
)

const (
	appTitle        = "Research Copilot"
	defaultSubtitle = "Evidence-grounded research analysis"

	minSidebarWidth = 28
	maxSidebarWidth = 42

	// header, tab bar, status bar and the pane borders.
	chromeHeight = 5
)

// Pane identifies which side of the screen takes keys.
type Pane int

const (
	// PaneWorkspace is the active tab.
	PaneWorkspace Pane = iota
	// PaneDocuments is the documents sidebar.
	PaneDocuments
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	sidebar    *documents.View
	chatView   *chat.View
	claimsView *claims.View
	pdfView    *pdf.View
	statusBar  *status.Bar

	// updates is the registry subscription, read one value per command.
	updates <-chan struct{}

	currentView domain.View
	focus       Pane

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ctx context.Context, ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	a := &App{
		ports:  ports,
		ctx:    ctx,
		styles: s,
		keymap: km,
		sidebar: documents.NewView(ctx, s, km,
			ports.Registry, ports.Selection, ports.Coordinator, ports.Upload),
		chatView:    chat.NewView(ctx, s, km, ports.Conversation, ports.Citations),
		claimsView:  claims.NewView(ctx, s, km, ports.Claims, ports.Coordinator),
		pdfView:     pdf.NewView(ctx, s, km, ports.PDF, ports.Registry),
		statusBar:   status.NewBar(s, km),
		updates:     ports.Registry.Subscribe(),
		currentView: ports.Coordinator.Current(),
		focus:       PaneWorkspace,
	}
	a.syncChrome()
	return a, nil
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("copilot - "+appTitle),
		a.chatView.Init(),
		a.waitForRegistry(),
	)
}

// waitForRegistry blocks until the registry applies a snapshot.
func (a *App) waitForRegistry() tea.Cmd {
	updates := a.updates
	ctx := a.ctx
	return func() tea.Msg {
		select {
		case <-updates:
			return messages.RegistryUpdated{}
		case <-ctx.Done():
			return nil
		}
	}
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.ViewChanged:
		return a, a.switchView(msg.View)

	case messages.SourceOpened:
		a.currentView = a.ports.Coordinator.Current()
		a.setFocus(PaneWorkspace)
		a.statusBar.Clear()
		a.syncChrome()
		return a, a.pdfView.Load(msg.Target)

	case messages.RegistryUpdated:
		a.sidebar, cmd = a.sidebar.Update(msg)
		a.syncChrome()
		return a, tea.Batch(cmd, a.waitForRegistry())

	case messages.AnswerReceived, spinner.TickMsg:
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.ClaimsLoaded:
		a.claimsView, cmd = a.claimsView.Update(msg)
		if msg.Err != nil {
			a.reportError(msg.Err)
		}
		return a, cmd

	case messages.PDFLoaded:
		a.pdfView, cmd = a.pdfView.Update(msg)
		return a, cmd

	case messages.DocumentDeleted, messages.DocumentUploaded:
		a.sidebar, cmd = a.sidebar.Update(msg)
		a.syncChrome()
		return a, cmd

	case messages.ScopeChanged:
		a.statusBar.SetInfo(a.scopeLabel())
		return a, nil

	case messages.StatusChanged:
		a.statusBar.SetInfo(msg.Text)
		return a, nil

	case messages.ErrorOccurred:
		a.reportError(msg.Err)
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	return a, nil
}

func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return a, tea.Quit
	}
	if key.Matches(msg, a.keymap.Focus) {
		if a.focus == PaneWorkspace {
			a.setFocus(PaneDocuments)
		} else {
			a.setFocus(PaneWorkspace)
		}
		return a, nil
	}

	if !a.capturing() {
		views := domain.Views()
		switch {
		case key.Matches(msg, a.keymap.Quit):
			return a, tea.Quit
		case key.Matches(msg, a.keymap.Chat):
			return a, a.switchView(domain.ViewChat)
		case key.Matches(msg, a.keymap.Claims):
			return a, a.switchView(domain.ViewClaims)
		case key.Matches(msg, a.keymap.PDF):
			return a, a.switchView(domain.ViewPDF)
		case key.Matches(msg, a.keymap.NextTab):
			return a, a.switchView(views[(int(a.currentView)+1)%len(views)])
		case key.Matches(msg, a.keymap.PrevTab):
			return a, a.switchView(views[(int(a.currentView)+len(views)-1)%len(views)])
		}
	}

	var cmd tea.Cmd
	if a.focus == PaneDocuments {
		a.sidebar, cmd = a.sidebar.Update(msg)
		a.syncChrome()
		return a, cmd
	}

	switch a.currentView {
	case domain.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case domain.ViewClaims:
		a.claimsView, cmd = a.claimsView.Update(msg)
	case domain.ViewPDF:
		a.pdfView, cmd = a.pdfView.Update(msg)
	}
	a.syncChrome()
	return a, cmd
}

// switchView activates view through the coordinator and starts whatever
// load the new view needs.
func (a *App) switchView(view domain.View) tea.Cmd {
	load, err := a.ports.Coordinator.Switch(view)
	if err != nil {
		a.reportError(err)
		return nil
	}
	a.currentView = a.ports.Coordinator.Current()
	a.setFocus(PaneWorkspace)

	var cmd tea.Cmd
	switch a.currentView {
	case domain.ViewClaims:
		a.claimsView.Refresh()
		if load {
			cmd = a.claimsView.Load()
		}
	case domain.ViewPDF:
		cmd = a.pdfView.Load(a.ports.Selection.Snapshot().PDF)
	case domain.ViewChat:
	}
	a.syncChrome()
	return cmd
}

func (a *App) capturing() bool {
	if a.focus == PaneDocuments {
		return a.sidebar.Capturing()
	}
	return a.currentView == domain.ViewChat && a.chatView.Capturing()
}

func (a *App) setFocus(p Pane) {
	a.focus = p
	a.sidebar.SetFocused(p == PaneDocuments)
	a.syncChrome()
}

func (a *App) reportError(err error) {
	logger.Warn("tui: %v", err)
	a.statusBar.SetError(err)
}

// syncChrome updates the status bar for the focused pane.
func (a *App) syncChrome() {
	if a.focus == PaneDocuments {
		a.statusBar.SetHints(a.sidebar.Hints())
	} else {
		switch a.currentView {
		case domain.ViewChat:
			a.statusBar.SetHints(a.chatView.Hints())
		case domain.ViewClaims:
			a.statusBar.SetHints(a.claimsView.Hints())
		case domain.ViewPDF:
			a.statusBar.SetHints(a.pdfView.Hints())
		}
	}

	st := a.ports.Registry.Status()
	summary := fmt.Sprintf("%d documents · %s", len(a.sidebar.Documents()), a.scopeLabel())
	if st.LastError != "" {
		summary += " · backend unreachable"
	}
	a.statusBar.SetSummary(summary)
}

func (a *App) scopeLabel() string {
	scoped := a.ports.Selection.ScopedDocIDs()
	switch len(scoped) {
	case 0:
		return "Scope: all ready documents"
	case 1:
		return "Scope: 1 document"
	default:
		return fmt.Sprintf("Scope: %d documents", len(scoped))
	}
}

// Subtitle returns the header subtitle.
func (a *App) Subtitle() string {
	target := a.ports.Selection.Snapshot().PDF
	if target.IsZero() {
		return defaultSubtitle
	}
	return fmt.Sprintf("Selected doc: %s…", domain.ShortID(target.DocID))
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	header := a.styles.Title.Render(appTitle) + "  " + a.styles.Muted.Render(a.Subtitle())

	tabs := make([]string, 0, len(domain.Views()))
	for i, v := range domain.Views() {
		label := fmt.Sprintf("%d %s", i+1, v.Title())
		if v == a.currentView {
			tabs = append(tabs, a.styles.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, a.styles.Tab.Render(label))
		}
	}

	sidebarWidth, workspaceWidth, bodyHeight := a.layout()

	sidebarStyle, workspaceStyle := a.styles.Pane, a.styles.FocusedPane
	if a.focus == PaneDocuments {
		sidebarStyle, workspaceStyle = a.styles.FocusedPane, a.styles.Pane
	}

	var workspace string
	switch a.currentView {
	case domain.ViewChat:
		workspace = a.chatView.View()
	case domain.ViewClaims:
		workspace = a.claimsView.View()
	case domain.ViewPDF:
		workspace = a.pdfView.View()
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Width(sidebarWidth-2).Height(bodyHeight).Render(a.sidebar.View()),
		workspaceStyle.Width(workspaceWidth-2).Height(bodyHeight).Render(workspace),
	)

	return strings.Join([]string{
		header,
		strings.Join(tabs, ""),
		body,
		a.statusBar.View(),
	}, "\n")
}

// layout returns the outer pane widths and the inner body height.
func (a *App) layout() (sidebar, workspace, body int) {
	sidebar = a.width / 3
	if sidebar < minSidebarWidth {
		sidebar = minSidebarWidth
	}
	if sidebar > maxSidebarWidth {
		sidebar = maxSidebarWidth
	}
	workspace = a.width - sidebar
	if workspace < 20 {
		workspace = 20
	}
	body = a.height - chromeHeight
	if body < 5 {
		body = 5
	}
	return sidebar, workspace, body
}

// SetDimensions sets the terminal dimensions and resizes every pane.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	sidebar, workspace, body := a.layout()
	// pane borders and padding take four columns.
	a.sidebar.SetDimensions(sidebar-4, body)
	a.chatView.SetDimensions(workspace-4, body)
	a.claimsView.SetDimensions(workspace-4, body)
	a.pdfView.SetDimensions(workspace-4, body)
	a.statusBar.SetWidth(width)
}

// Run starts the TUI. The registry polls for the lifetime of the program.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(a.ctx)
	defer cancel()

	go func() {
		if err := a.ports.Registry.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("registry: %v", err)
		}
	}()
	defer a.ports.Registry.Stop()

	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the active tab.
func (a *App) CurrentView() domain.View {
	return a.currentView
}

// Focus returns the pane taking keys.
func (a *App) Focus() Pane {
	return a.focus
}

// Ready returns whether the app has received its first window size.
func (a *App) Ready() bool {
	return a.ready
}

// StatusBar returns the status bar.
func (a *App) StatusBar() *status.Bar {
	return a.statusBar
}

// Chat returns the chat view.
func (a *App) Chat() *chat.View {
	return a.chatView
}

// Claims returns the claims view.
func (a *App) Claims() *claims.View {
	return a.claimsView
}

// PDF returns the PDF view.
func (a *App) PDF() *pdf.View {
	return a.pdfView
}

// Documents returns the sidebar.
func (a *App) Documents() *documents.View {
	return a.sidebar
}
