package session

import (
	"sync"

	"github.com/metcalfc/digest/internal/pager"
)

// Menu tracks the navigation bar and the popup menu. On a wide viewport the
// navigation bar stays visible.
type Menu struct {
	class  pager.ViewportClass
	navbar bool
	popup  bool
}

// NewMenu creates the menu state for class.
func NewMenu(class pager.ViewportClass) *Menu {
	m := &Menu{}
	m.SetClass(class)
	return m
}

// SetClass applies a new viewport class.
func (m *Menu) SetClass(class pager.ViewportClass) {
	m.class = class
	m.navbar = class == pager.Wide
}

// Open reports whether any part of the menu covers the content.
func (m *Menu) Open() bool {
	return m.popup || (m.class == pager.Narrow && m.navbar)
}

// Toggle shows or hides the navigation bar.
func (m *Menu) Toggle() {
	m.navbar = !m.navbar
}

// TogglePopup shows or hides the popup menu.
func (m *Menu) TogglePopup() {
	m.popup = !m.popup
}

// Close hides the popup, and the navigation bar on a narrow viewport.
func (m *Menu) Close() {
	m.popup = false
	if m.class == pager.Narrow {
		m.navbar = false
	}
}

// ClosePopup hides the popup menu only.
func (m *Menu) ClosePopup() {
	m.popup = false
}

// NavbarVisible reports whether the navigation bar is shown.
func (m *Menu) NavbarVisible() bool {
	return m.navbar
}

// PopupVisible reports whether the popup menu is shown.
func (m *Menu) PopupVisible() bool {
	return m.popup
}

// Operations guarded by Inflight.
const (
	OpDelete = "delete"
	OpPush   = "push"
)

// Inflight keeps a second delete or push from starting before the first
// one completed.
type Inflight struct {
	mu   sync.Mutex
	busy map[string]bool
}

// Begin marks op as running. It reports false if op is already running.
func (g *Inflight) Begin(op string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy == nil {
		g.busy = make(map[string]bool)
	}
	if g.busy[op] {
		return false
	}
	g.busy[op] = true
	return true
}

// End marks op as finished.
func (g *Inflight) End(op string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.busy, op)
}

// Busy reports whether op is running.
func (g *Inflight) Busy(op string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.busy[op]
}
