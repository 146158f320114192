package chat

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/tui/tuitest"
	"github.com/custodia-labs/copilot-cli/internal/core/domain"
)

func newView(t *testing.T) (*View, *tuitest.Services) {
	t.Helper()
	svc := tuitest.NewServices(&tuitest.Backend{
		Docs: []domain.Document{tuitest.Doc("doc-1", "paper.pdf", domain.StatusReady, 10)},
		Answer: &domain.ChatResponse{
			Answer: "It uses attention.",
			Citations: []domain.Citation{
				{DocID: "doc-1", Filename: "paper.pdf", Page: 4, Content: "multi-head attention"},
				{DocID: "doc-1", Filename: "paper.pdf", Page: 7, Content: "positional encoding"},
			},
		},
	})
	v := NewView(context.Background(), styles.DefaultStyles(), keymap.DefaultKeyMap(), svc.Conversation, svc.Citations)
	v.SetDimensions(100, 30)
	return v, svc
}

func typeText(v *View, s string) {
	for _, k := range tuitest.Keys(s) {
		v.Update(k)
	}
}

// ask types q, presses enter and feeds the answer back.
func ask(t *testing.T, v *View, q string) {
	t.Helper()
	typeText(v, q)
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	answer, ok := tuitest.Find[messages.AnswerReceived](tuitest.Drain(cmd))
	require.True(t, ok)
	v.Update(answer)
}

func TestView_EmptyHint(t *testing.T) {
	v, _ := newView(t)

	assert.Contains(t, v.View(), "Ask a question about your documents")
	assert.True(t, v.Capturing())
}

func TestView_SendShowsThinkingThenAnswer(t *testing.T) {
	v, svc := newView(t)
	typeText(v, "What is used?")
	assert.Equal(t, "What is used?", v.Draft())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Empty(t, v.Draft())
	assert.True(t, svc.Conversation.Loading())
	assert.Contains(t, v.View(), "Thinking")

	answer, ok := tuitest.Find[messages.AnswerReceived](tuitest.Drain(cmd))
	require.True(t, ok)
	v.Update(answer)

	assert.False(t, svc.Conversation.Loading())
	out := v.View()
	assert.Contains(t, out, "What is used?")
	assert.Contains(t, out, "attention")
	assert.Contains(t, out, "[1] paper.pdf · p. 4")
	assert.Contains(t, out, "[2] paper.pdf · p. 7")
}

func TestView_BlankSendIgnored(t *testing.T) {
	v, svc := newView(t)
	typeText(v, "   ")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Empty(t, svc.Conversation.Messages())
}

func TestView_BrowseNeedsCitations(t *testing.T) {
	v, _ := newView(t)

	v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, v.Browsing())
}

func TestView_BrowseToggleAndViewSource(t *testing.T) {
	v, svc := newView(t)
	ask(t, v, "q")

	v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.True(t, v.Browsing())
	assert.False(t, v.Capturing())

	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	k, ok := v.SelectedCitation()
	require.True(t, ok)
	assert.Equal(t, domain.CitationKey{Message: 1, Citation: 1}, k)

	v.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.True(t, svc.Conversation.IsExpanded(k))
	assert.Contains(t, v.View(), "positional encoding")

	_, cmd := v.Update(tuitest.Keys("v")[0])
	opened, ok := tuitest.Find[messages.SourceOpened](tuitest.Drain(cmd))
	require.True(t, ok)
	assert.Equal(t, domain.PDFTarget{DocID: "doc-1", Page: 7}, opened.Target)

	snap := svc.Selection.Snapshot()
	assert.Equal(t, domain.ViewPDF, snap.View)
	assert.Equal(t, opened.Target, snap.PDF)
}

func TestView_CopyWithoutClipboard(t *testing.T) {
	v, _ := newView(t)
	ask(t, v, "q")
	v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	_, cmd := v.Update(tuitest.Keys("y")[0])

	failed, ok := tuitest.Find[messages.ErrorOccurred](tuitest.Drain(cmd))
	require.True(t, ok)
	assert.True(t, errors.Is(failed.Err, domain.ErrViewerUnavailable))
}

func TestView_ClearResetsTranscript(t *testing.T) {
	v, svc := newView(t)
	ask(t, v, "q")
	v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlL})

	assert.Empty(t, svc.Conversation.Messages())
	assert.False(t, v.Browsing())
	status, ok := tuitest.Find[messages.StatusChanged](tuitest.Drain(cmd))
	require.True(t, ok)
	assert.Equal(t, "Conversation cleared", status.Text)
}

func TestView_ComposeLeavesBrowse(t *testing.T) {
	v, _ := newView(t)
	ask(t, v, "q")
	v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	v.Update(tuitest.Keys("i")[0])

	assert.False(t, v.Browsing())
	assert.Equal(t, keymap.DefaultKeyMap().ComposeHelp(), v.Hints())
}
