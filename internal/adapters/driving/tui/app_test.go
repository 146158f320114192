package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/tui/tuitest"
	"github.com/custodia-labs/copilot-cli/internal/core/domain"
)

func newTestApp(t *testing.T) (*App, *tuitest.Services) {
	t.Helper()
	backend := &tuitest.Backend{
		Docs: []domain.Document{
			tuitest.Doc("aaaaaaaa-1111", "attention.pdf", domain.StatusReady, 15),
			tuitest.Doc("bbbbbbbb-2222", "scaling.pdf", domain.StatusProcessing, 0),
		},
		Claims: []domain.Claim{
			{ID: 1, DocID: "aaaaaaaa-1111", Filename: "attention.pdf", Page: 3, Text: "Attention suffices.", Category: domain.CategoryFinding},
			{ID: 2, DocID: "aaaaaaaa-1111", Filename: "attention.pdf", Page: 5, Text: "Eight GPUs.", Category: domain.CategoryMethod},
		},
		Answer: &domain.ChatResponse{
			Answer: "Transformers rely on **attention**.",
			Citations: []domain.Citation{
				{DocID: "aaaaaaaa-1111", Filename: "attention.pdf", Page: 4, Content: "We propose the Transformer."},
			},
		},
	}
	svc := tuitest.NewServices(backend)
	app, err := NewApp(context.Background(), portsFor(svc))
	require.NoError(t, err)
	app.SetDimensions(140, 40)
	return app, svc
}

func portsFor(svc *tuitest.Services) *Ports {
	return &Ports{
		Registry:     svc.Registry,
		Conversation: svc.Conversation,
		Citations:    svc.Citations,
		Claims:       svc.Claims,
		Selection:    svc.Selection,
		Coordinator:  svc.Coordinator,
		PDF:          svc.PDF,
		Upload:       svc.Upload,
	}
}

// feed applies msgs to the app and returns the messages of the resulting commands.
func feed(app *App, msgs ...tea.Msg) []tea.Msg {
	var out []tea.Msg
	for _, m := range msgs {
		_, cmd := app.Update(m)
		out = append(out, tuitest.Drain(cmd)...)
	}
	return out
}

func typeText(app *App, s string) {
	for _, k := range tuitest.Keys(s) {
		app.Update(k)
	}
}

// ask sends a question and delivers the answer.
func ask(t *testing.T, app *App, question string) {
	t.Helper()
	typeText(app, question)
	out := feed(app, tea.KeyMsg{Type: tea.KeyEnter})
	answer, ok := tuitest.Find[messages.AnswerReceived](out)
	require.True(t, ok, "enter should resolve the turn")
	feed(app, answer)
}

func TestPorts_Validate(t *testing.T) {
	svc := tuitest.NewServices(&tuitest.Backend{})

	tests := []struct {
		name   string
		mutate func(*Ports)
		want   error
	}{
		{"complete", func(*Ports) {}, nil},
		{"no upload is fine", func(p *Ports) { p.Upload = nil }, nil},
		{"registry", func(p *Ports) { p.Registry = nil }, ErrMissingRegistry},
		{"conversation", func(p *Ports) { p.Conversation = nil }, ErrMissingConversation},
		{"citations", func(p *Ports) { p.Citations = nil }, ErrMissingCitations},
		{"claims", func(p *Ports) { p.Claims = nil }, ErrMissingClaims},
		{"selection", func(p *Ports) { p.Selection = nil }, ErrMissingSelection},
		{"coordinator", func(p *Ports) { p.Coordinator = nil }, ErrMissingCoordinator},
		{"pdf", func(p *Ports) { p.PDF = nil }, ErrMissingPDFService},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := portsFor(svc)
			tt.mutate(p)
			assert.ErrorIs(t, p.Validate(), tt.want)
		})
	}
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(context.Background(), &Ports{})

	assert.Nil(t, app)
	assert.ErrorIs(t, err, ErrMissingRegistry)
}

func TestApp_StartsOnChat(t *testing.T) {
	app, _ := newTestApp(t)

	assert.Equal(t, domain.ViewChat, app.CurrentView())
	assert.Equal(t, PaneWorkspace, app.Focus())
}

func TestApp_View_NotReady(t *testing.T) {
	svc := tuitest.NewServices(&tuitest.Backend{})
	app, err := NewApp(context.Background(), portsFor(svc))
	require.NoError(t, err)

	assert.Equal(t, "Initialising...", app.View())
	assert.False(t, app.Ready())
}

func TestApp_View_Chrome(t *testing.T) {
	app, _ := newTestApp(t)

	view := app.View()

	assert.Contains(t, view, "Research Copilot")
	assert.Contains(t, view, "Evidence-grounded research analysis")
	assert.Contains(t, view, "Chat")
	assert.Contains(t, view, "Claims")
	assert.Contains(t, view, "PDF Viewer")
	assert.Contains(t, view, "attention.pdf")
	assert.Contains(t, view, "15 pages")
	assert.Contains(t, view, "Processing")
}

func TestApp_CtrlCQuits(t *testing.T) {
	app, _ := newTestApp(t)

	out := feed(app, tea.KeyMsg{Type: tea.KeyCtrlC})

	_, ok := tuitest.Find[tea.QuitMsg](out)
	assert.True(t, ok)
}

func TestApp_QTypesIntoComposer(t *testing.T) {
	app, _ := newTestApp(t)

	out := feed(app, tuitest.Keys("q")[0])

	_, quit := tuitest.Find[tea.QuitMsg](out)
	assert.False(t, quit)
	assert.Equal(t, "q", app.Chat().Draft())
}

func TestApp_AskShowsAnswerAndCitation(t *testing.T) {
	app, svc := newTestApp(t)

	ask(t, app, "What is attention?")

	msgs := svc.Conversation.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "What is attention?", msgs[0].Content)
	assert.Equal(t, domain.RoleAssistant, msgs[1].Role)
	assert.False(t, svc.Conversation.Loading())

	view := app.View()
	assert.Contains(t, view, "attention")
	assert.Contains(t, view, "[1] attention.pdf · p. 4")
}

func TestApp_AskUsesScope(t *testing.T) {
	app, svc := newTestApp(t)
	require.NoError(t, svc.Selection.ToggleScope("aaaaaaaa-1111"))

	ask(t, app, "scoped?")

	require.Len(t, svc.Backend.Asked, 1)
	assert.Equal(t, []string{"aaaaaaaa-1111"}, svc.Backend.Asked[0].DocIDs)
}

func TestApp_EnterIgnoredWhileLoading(t *testing.T) {
	app, svc := newTestApp(t)

	typeText(app, "first")
	first := feed(app, tea.KeyMsg{Type: tea.KeyEnter})
	typeText(app, "second")
	second := feed(app, tea.KeyMsg{Type: tea.KeyEnter})

	_, ok := tuitest.Find[messages.AnswerReceived](second)
	assert.False(t, ok, "a second question must wait for the first")
	assert.Equal(t, "second", app.Chat().Draft())
	require.Len(t, svc.Conversation.Messages(), 1)

	answer, ok := tuitest.Find[messages.AnswerReceived](first)
	require.True(t, ok)
	feed(app, answer)
	assert.Len(t, svc.Conversation.Messages(), 2)
}

func TestApp_ClearDropsLateAnswer(t *testing.T) {
	app, svc := newTestApp(t)

	typeText(app, "question")
	out := feed(app, tea.KeyMsg{Type: tea.KeyEnter})
	answer, ok := tuitest.Find[messages.AnswerReceived](out)
	require.True(t, ok)

	feed(app, tea.KeyMsg{Type: tea.KeyCtrlL})
	feed(app, answer)

	assert.Empty(t, svc.Conversation.Messages())
	assert.False(t, svc.Conversation.Loading())
}

func TestApp_ViewCitationOpensPDF(t *testing.T) {
	app, svc := newTestApp(t)
	ask(t, app, "What is attention?")

	feed(app, tea.KeyMsg{Type: tea.KeyEsc})
	require.True(t, app.Chat().Browsing())

	out := feed(app, tuitest.Keys("v")[0])
	opened, ok := tuitest.Find[messages.SourceOpened](out)
	require.True(t, ok)
	assert.Equal(t, domain.PDFTarget{DocID: "aaaaaaaa-1111", Page: 4}, opened.Target)

	loaded := feed(app, opened)
	assert.Equal(t, domain.ViewPDF, app.CurrentView())
	assert.Equal(t, "Selected doc: aaaaaaaa…", app.Subtitle())

	page, ok := tuitest.Find[messages.PDFLoaded](loaded)
	require.True(t, ok)
	feed(app, page)
	require.NotNil(t, app.PDF().Page())
	assert.Equal(t, domain.ViewPDF, svc.Selection.Snapshot().View)
	assert.Contains(t, app.View(), "Page 4")
}

func TestApp_ToggleCitationExpands(t *testing.T) {
	app, svc := newTestApp(t)
	ask(t, app, "What is attention?")
	feed(app, tea.KeyMsg{Type: tea.KeyEsc})

	feed(app, tea.KeyMsg{Type: tea.KeySpace})

	assert.True(t, svc.Conversation.IsExpanded(domain.CitationKey{Message: 1, Citation: 0}))
	assert.Contains(t, app.View(), "We propose the Transformer.")
}

func TestApp_ClaimsLoadOnEntry(t *testing.T) {
	app, svc := newTestApp(t)

	out := feed(app, messages.ViewChanged{View: domain.ViewClaims})
	loaded, ok := tuitest.Find[messages.ClaimsLoaded](out)
	require.True(t, ok, "entering claims loads them")
	feed(app, loaded)

	assert.Equal(t, domain.ViewClaims, app.CurrentView())
	assert.Len(t, svc.Claims.Claims(), 2)
	assert.Contains(t, app.View(), "Attention suffices.")

	again := feed(app, messages.ViewChanged{View: domain.ViewClaims})
	_, reloaded := tuitest.Find[messages.ClaimsLoaded](again)
	assert.False(t, reloaded, "re-selecting the active tab does not reload")
}

func TestApp_ClaimViewSource(t *testing.T) {
	app, _ := newTestApp(t)
	feed(app, feed(app, messages.ViewChanged{View: domain.ViewClaims})...)

	out := feed(app, tuitest.Keys("v")[0])

	opened, ok := tuitest.Find[messages.SourceOpened](out)
	require.True(t, ok)
	assert.Equal(t, domain.PDFTarget{DocID: "aaaaaaaa-1111", Page: 3}, opened.Target)
}

func TestApp_TabSwitchesFocus(t *testing.T) {
	app, _ := newTestApp(t)

	feed(app, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, PaneDocuments, app.Focus())

	feed(app, tuitest.Keys("2")[0])
	assert.Equal(t, domain.ViewClaims, app.CurrentView())
	assert.Equal(t, PaneWorkspace, app.Focus())
}

func TestApp_SidebarScope(t *testing.T) {
	app, svc := newTestApp(t)
	feed(app, tea.KeyMsg{Type: tea.KeyTab})

	feed(app, feed(app, tea.KeyMsg{Type: tea.KeySpace})...)

	assert.Equal(t, []string{"aaaaaaaa-1111"}, svc.Selection.ScopedDocIDs())
	assert.Equal(t, "Scope: 1 document", app.StatusBar().Message())

	// The processing document cannot be scoped.
	feed(app, tea.KeyMsg{Type: tea.KeyDown})
	feed(app, feed(app, tea.KeyMsg{Type: tea.KeySpace})...)

	assert.Equal(t, status.StateError, app.StatusBar().State())
	assert.Equal(t, []string{"aaaaaaaa-1111"}, svc.Selection.ScopedDocIDs())
}

func TestApp_SidebarDelete(t *testing.T) {
	app, svc := newTestApp(t)
	feed(app, tea.KeyMsg{Type: tea.KeyTab})

	out := feed(app, tuitest.Keys("d")[0])
	deleted, ok := tuitest.Find[messages.DocumentDeleted](out)
	require.True(t, ok)
	require.NoError(t, deleted.Err)
	feed(app, feed(app, deleted)...)

	assert.Equal(t, []string{"aaaaaaaa-1111"}, svc.Backend.Deleted)
	assert.Len(t, app.Documents().Documents(), 1)
	assert.Contains(t, app.StatusBar().Message(), "Deleted aaaaaaaa")
}

func TestApp_SidebarOpenDocument(t *testing.T) {
	app, _ := newTestApp(t)
	feed(app, tea.KeyMsg{Type: tea.KeyTab})

	out := feed(app, tea.KeyMsg{Type: tea.KeyEnter})

	opened, ok := tuitest.Find[messages.SourceOpened](out)
	require.True(t, ok)
	assert.Equal(t, 1, opened.Target.Page)
}

func TestApp_RegistryUpdatedRefreshesSidebar(t *testing.T) {
	app, svc := newTestApp(t)
	svc.Backend.Docs = append(svc.Backend.Docs,
		tuitest.Doc("cccccccc-3333", "new.pdf", domain.StatusReady, 2))
	require.NoError(t, svc.Registry.Refresh(context.Background()))

	_, cmd := app.Update(messages.RegistryUpdated{})

	assert.NotNil(t, cmd, "the subscription is re-armed")
	assert.Len(t, app.Documents().Documents(), 3)
	assert.Contains(t, app.View(), "new.pdf")
}

func TestApp_ErrorShownInStatusBar(t *testing.T) {
	app, _ := newTestApp(t)

	feed(app, messages.ErrorOccurred{Err: domain.ErrBackend})

	assert.Equal(t, status.StateError, app.StatusBar().State())
	assert.Contains(t, app.View(), "Error:")
}
