package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/metcalfc/digest/internal/pager"
)

type keyMap struct {
	PageDown    key.Binding
	PageUp      key.Binding
	Next        key.Binding
	Previous    key.Binding
	Focus       key.Binding
	Menu        key.Binding
	Help        key.Binding
	Close       key.Binding
	Up          key.Binding
	Down        key.Binding
	Open        key.Binding
	Select      key.Binding
	Delete      key.Binding
	DeleteNow   key.Binding
	PushBook    key.Binding
	PushArticle key.Binding
	Larger      key.Binding
	Smaller     key.Binding
	Links       key.Binding
	Ink         key.Binding
	Level       key.Binding
	Locate      key.Binding
	NavPageDown key.Binding
	NavPageUp   key.Binding
	Reload      key.Binding
	Quit        key.Binding
}

var keys = keyMap{
	PageDown:    key.NewBinding(key.WithKeys(" ", "pgdown", "down", "right"), key.WithHelp("SPACE/↓", "page down")),
	PageUp:      key.NewBinding(key.WithKeys("pgup", "up", "left"), key.WithHelp("↑", "page up")),
	Next:        key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next article")),
	Previous:    key.NewBinding(key.WithKeys("["), key.WithHelp("[", "previous article")),
	Focus:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("TAB", "catalog")),
	Menu:        key.NewBinding(key.WithKeys("m"), key.WithHelp("M", "menu")),
	Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
	Close:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("ESC", "close menu")),
	Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Open:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("ENTER", "open/toggle")),
	Select:      key.NewBinding(key.WithKeys("x", " "), key.WithHelp("X", "select book")),
	Delete:      key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete selected")),
	DeleteNow:   key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("^D", "delete without asking")),
	PushBook:    key.NewBinding(key.WithKeys("b"), key.WithHelp("B", "push book")),
	PushArticle: key.NewBinding(key.WithKeys("a"), key.WithHelp("A", "push article")),
	Larger:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "font size")),
	Smaller:     key.NewBinding(key.WithKeys("-")),
	Links:       key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "links")),
	Ink:         key.NewBinding(key.WithKeys("i"), key.WithHelp("I", "ink mode")),
	Level:       key.NewBinding(key.WithKeys("0", "1", "2"), key.WithHelp("0-2", "expand level")),
	Locate:      key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "locate")),
	NavPageDown: key.NewBinding(key.WithKeys("J"), key.WithHelp("J/K", "scroll catalog")),
	NavPageUp:   key.NewBinding(key.WithKeys("K")),
	Reload:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Quit:        key.NewBinding(key.WithKeys("q", "Q", "ctrl+c"), key.WithHelp("Q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PageDown, k.PageUp, k.Focus, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PageDown, k.PageUp, k.Next, k.Previous, k.Focus, k.Menu, k.Close},
		{k.Up, k.Down, k.Open, k.Select, k.Delete, k.DeleteNow},
		{k.PushBook, k.PushArticle, k.Larger, k.Links, k.Ink},
		{k.Level, k.Locate, k.NavPageDown, k.Reload, k.Quit},
	}
}

// domKey translates a terminal key into the key names the pager binds.
func domKey(msg tea.KeyMsg) string {
	switch msg.String() {
	case " ":
		return pager.KeySpace
	case "down":
		return pager.KeyArrowDown
	case "up":
		return pager.KeyArrowUp
	case "left":
		return pager.KeyArrowLeft
	case "right":
		return pager.KeyArrowRight
	case "pgdown":
		return pager.KeyPageDown
	case "pgup":
		return pager.KeyPageUp
	}
	return msg.String()
}
