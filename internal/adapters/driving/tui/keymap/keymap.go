// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Global.
	Quit    key.Binding
	Focus   key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Chat    key.Binding
	Claims  key.Binding
	PDF     key.Binding

	// Lists.
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Back   key.Binding
	Reload key.Binding

	// Chat.
	Send       key.Binding
	Browse     key.Binding
	Compose    key.Binding
	Toggle     key.Binding
	ViewSource key.Binding
	Copy       key.Binding
	Clear      key.Binding

	// Claims.
	NextCategory key.Binding
	PrevCategory key.Binding

	// PDF.
	NextPage     key.Binding
	PrevPage     key.Binding
	OpenExternal key.Binding

	// Documents.
	Delete     key.Binding
	Upload     key.Binding
	Scope      key.Binding
	ClearScope key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Focus:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		NextTab: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next tab")),
		PrevTab: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev tab")),
		Chat:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "chat")),
		Claims:  key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "claims")),
		PDF:     key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "pdf")),

		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),

		Send:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		Browse:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "browse citations")),
		Compose:    key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "compose")),
		Toggle:     key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "expand")),
		ViewSource: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "view source")),
		Copy:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		Clear:      key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear chat")),

		NextCategory: key.NewBinding(key.WithKeys("f", "right", "l"), key.WithHelp("f", "next category")),
		PrevCategory: key.NewBinding(key.WithKeys("F", "left", "h"), key.WithHelp("F", "prev category")),

		NextPage:     key.NewBinding(key.WithKeys("n", "right", "l"), key.WithHelp("n", "next page")),
		PrevPage:     key.NewBinding(key.WithKeys("p", "left", "h"), key.WithHelp("p", "prev page")),
		OpenExternal: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open externally")),

		Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Upload:     key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "upload")),
		Scope:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "scope")),
		ClearScope: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear scope")),
	}
}

// ShortHelp returns the global bindings shown on every screen.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Focus, k.PrevTab, k.NextTab, k.Quit}
}

// ComposeHelp returns the bindings for the chat composer.
func (k *KeyMap) ComposeHelp() []key.Binding {
	return []key.Binding{k.Send, k.Browse, k.Clear}
}

// BrowseHelp returns the bindings for citation browsing.
func (k *KeyMap) BrowseHelp() []key.Binding {
	return []key.Binding{k.Down, k.Toggle, k.ViewSource, k.Copy, k.Compose}
}

// ClaimsHelp returns the bindings for the claims view.
func (k *KeyMap) ClaimsHelp() []key.Binding {
	return []key.Binding{k.Down, k.NextCategory, k.ViewSource, k.Reload}
}

// PDFHelp returns the bindings for the PDF view.
func (k *KeyMap) PDFHelp() []key.Binding {
	return []key.Binding{k.PrevPage, k.NextPage, k.Down, k.OpenExternal}
}

// DocumentsHelp returns the bindings for the documents sidebar.
func (k *KeyMap) DocumentsHelp() []key.Binding {
	return []key.Binding{k.Select, k.Scope, k.ClearScope, k.Upload, k.Delete}
}

// Matches reports whether msg triggers binding.
func Matches(msg tea.KeyMsg, binding key.Binding) bool {
	return key.Matches(msg, binding)
}
