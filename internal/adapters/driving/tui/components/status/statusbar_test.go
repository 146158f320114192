package status

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/tui/keymap"
)

func TestNewBar_NilDependencies(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Contains(t, bar.View(), "Ready")
}

func TestBar_Error(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(200)

	bar.SetError(errors.New("backend down"))

	assert.Equal(t, StateError, bar.State())
	assert.Contains(t, bar.View(), "Error: backend down")
}

func TestBar_NilErrorClears(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetInfo("copied")

	bar.SetError(nil)

	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
}

func TestBar_SummaryWhenIdle(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(200)
	bar.SetSummary("3 documents · 2 ready")

	assert.Contains(t, bar.View(), "3 documents")

	bar.SetInfo("Uploaded paper.pdf")
	assert.Contains(t, bar.View(), "Uploaded paper.pdf")
	assert.NotContains(t, bar.View(), "3 documents")
}

func TestBar_HintsPrecedeGlobal(t *testing.T) {
	km := keymap.DefaultKeyMap()
	bar := NewBar(nil, km)
	bar.SetWidth(300)
	bar.SetHints(km.PDFHelp())

	view := bar.View()
	assert.Contains(t, view, "next page")
	assert.Contains(t, view, "quit")
}
