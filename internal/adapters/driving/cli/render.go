package cli

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/term"

	"github.com/custodia-labs/copilot-cli/internal/logger"
)

const (
	defaultWidth = 80
	maxWidth     = 100
)

// outputWidth returns the terminal width of w and whether w is a terminal.
func outputWidth(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultWidth, false
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth, true
	}
	return min(width, maxWidth), true
}

// renderMarkdown styles md for a terminal. Pipes and files get md unchanged.
func renderMarkdown(w io.Writer, md string) string {
	width, tty := outputWidth(w)
	if !tty {
		return strings.TrimSpace(md)
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width-2),
	)
	if err != nil {
		logger.Warn("markdown renderer: %v", err)
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		logger.Warn("render markdown: %v", err)
		return md
	}
	return strings.TrimRight(out, "\n")
}

// block wraps text to the output width and indents it by n spaces.
func block(w io.Writer, text string, n int) string {
	width, _ := outputWidth(w)
	return indent.String(wordwrap.String(strings.TrimSpace(text), width-n), uint(n))
}
