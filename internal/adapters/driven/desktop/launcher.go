// Package desktop hands URLs and text to the desktop environment.
package desktop

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/custodia-labs/copilot-cli/internal/core/ports/driven"
)

// Operating system identifiers.
const (
	osDarwin  = "darwin"
	osLinux   = "linux"
	osWindows = "windows"
)

// Ensure Launcher implements the interface.
var _ driven.Launcher = (*Launcher)(nil)

// command is one external program invocation.
type command struct {
	name  string
	args  []string
	stdin string
	// wait blocks until the program exits. Openers are started and left running.
	wait bool
}

// Launcher opens URLs with the platform opener and copies text with the
// platform clipboard tool.
type Launcher struct {
	goos     string
	lookPath func(string) (string, error)
	run      func(command) error
}

// NewLauncher creates a launcher for the running platform.
func NewLauncher() *Launcher {
	return &Launcher{
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		run:      runCommand,
	}
}

// Open hands url to the operating system's default handler.
func (l *Launcher) Open(url string) error {
	var cmd command
	switch l.goos {
	case osDarwin:
		cmd = command{name: "open", args: []string{url}}
	case osLinux:
		cmd = command{name: "xdg-open", args: []string{url}}
	case osWindows:
		cmd = command{name: "rundll32", args: []string{"url.dll,FileProtocolHandler", url}}
	default:
		return fmt.Errorf("unsupported platform: %s", l.goos)
	}
	return l.run(cmd)
}

// Copy places text on the system clipboard.
func (l *Launcher) Copy(text string) error {
	var cmd command
	switch l.goos {
	case osDarwin:
		cmd = command{name: "pbcopy"}
	case osLinux:
		// Try wl-copy on Wayland, then xclip, then xsel
		switch {
		case l.has("wl-copy"):
			cmd = command{name: "wl-copy"}
		case l.has("xclip"):
			cmd = command{name: "xclip", args: []string{"-selection", "clipboard"}}
		case l.has("xsel"):
			cmd = command{name: "xsel", args: []string{"--clipboard", "--input"}}
		default:
			return fmt.Errorf("no clipboard utility found (install wl-clipboard, xclip or xsel)")
		}
	case osWindows:
		cmd = command{name: "cmd", args: []string{"/c", "clip"}}
	default:
		return fmt.Errorf("unsupported platform: %s", l.goos)
	}
	cmd.stdin = text
	cmd.wait = true
	return l.run(cmd)
}

func (l *Launcher) has(name string) bool {
	_, err := l.lookPath(name)
	return err == nil
}

func runCommand(c command) error {
	cmd := exec.Command(c.name, c.args...) //nolint:gosec // G204: fixed program names
	if c.stdin != "" {
		cmd.Stdin = strings.NewReader(c.stdin)
	}
	if c.wait {
		return cmd.Run()
	}
	return cmd.Start()
}
