package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrompt(t *testing.T) {
	p := NewPrompt(nil, "Ask: ", "Ask about your documents...")

	require.NotNil(t, p)
	assert.True(t, p.Focused())
	assert.Empty(t, p.Value())
	assert.Contains(t, p.View(), "Ask: ")
}

func TestPrompt_Typing(t *testing.T) {
	p := NewPrompt(nil, "Ask: ", "")

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hi")})

	assert.Equal(t, "hi", p.Value())
}

func TestPrompt_BlurIgnoresTyping(t *testing.T) {
	p := NewPrompt(nil, "Ask: ", "")
	p.Blur()

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})

	assert.False(t, p.Focused())
	assert.Empty(t, p.Value())
}

func TestPrompt_Reset(t *testing.T) {
	p := NewPrompt(nil, "Path: ", "")
	p.SetValue("/tmp/a.pdf")

	p.Reset()

	assert.Empty(t, p.Value())
}

func TestPrompt_SetWidthHasFloor(t *testing.T) {
	p := NewPrompt(nil, "Ask: ", "")

	p.SetWidth(10)

	assert.Equal(t, 10, p.Width())
	assert.Equal(t, 20, p.textinput.Width)
}
