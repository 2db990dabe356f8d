// Package ui is the terminal front-end of the digest reader.
package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"go.uber.org/zap"

	"github.com/metcalfc/digest/internal/catalog"
	"github.com/metcalfc/digest/internal/navtree"
	"github.com/metcalfc/digest/internal/pager"
	"github.com/metcalfc/digest/internal/reader"
	"github.com/metcalfc/digest/internal/session"
	"github.com/metcalfc/digest/internal/state"
)

// navPanelWidth is the width of the catalog panel beside the article.
const navPanelWidth = 34

// Store persists the cursor and the reader settings.
type Store interface {
	Cursor(origin string) catalog.Article
	SetCursor(origin string, a catalog.Article) error
	Settings() state.Settings
	SetSettings(s state.Settings) error
}

// Options configure the terminal reader.
type Options struct {
	Origin      string
	ExpandLevel int
	NarrowWidth int // columns
	Overlap     int // lines
	Timeout     time.Duration
	Fresh       bool // do not reopen the saved article

	Store   Store
	Log     *zap.Logger
	Changes <-chan struct{} // library changes, may be nil
}

type focus int

const (
	focusContent focus = iota
	focusNav
)

// Model is the bubbletea model of the reader.
type Model struct {
	src  reader.Source
	opts Options
	log  *zap.Logger

	tree     *navtree.Tree
	sess     *session.Session
	menu     *session.Menu
	pager    *pager.Controller
	frame    *contentFrame
	inflight session.Inflight
	help     help.Model

	settings state.Settings
	theme    *theme
	focus    focus
	width    int
	height   int
	loaded   bool

	body      string // HTML of the open article
	hasBody   bool
	loading   bool
	missing   bool
	wrapWidth int
	notice    string

	confirm   *huh.Form
	confirmed bool
	pending   navtree.DeleteRequest

	quitting bool
}

// New creates the reader for src.
func New(src reader.Source, opts Options) *Model {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Overlap < 0 {
		opts.Overlap = 0
	}

	m := &Model{
		src:      src,
		opts:     opts,
		log:      log,
		frame:    newContentFrame(),
		menu:     session.NewMenu(pager.Wide),
		help:     help.New(),
		settings: state.DefaultSettings(),
		width:    80,
		height:   24,
	}
	if opts.Store != nil {
		m.settings = opts.Store.Settings()
	}
	m.theme = themeFor(m.settings.InkMode)

	m.tree = navtree.New(navtree.WithOverlap(float64(opts.Overlap)), navtree.WithLogger(log))
	m.sess = session.New(catalog.New(nil), m.frame, m.tree,
		session.WithMenu(m.menu),
		session.WithOnOpen(m.saveCursor),
		session.WithLogger(log))
	m.pager = pager.NewController(m.frame, m.sess, m.menu, pager.WithOverlap(float64(opts.Overlap)))
	m.pager.SetClass(pager.Wide)
	m.frame.pager = m.pager
	m.layout()
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadCatalog(), m.waitForChange())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case catalogMsg:
		m.catalogLoaded(msg)

	case articleMsg:
		m.articleLoaded(msg)
		return m, nil

	case deletedMsg:
		m.inflight.End(session.OpDelete)
		if err := m.tree.FinishDelete(msg.req, msg.err); err != nil {
			m.notice = err.Error()
		} else {
			m.notice = fmt.Sprintf("Deleted %d book(s)", len(msg.req.Dirs))
		}
		return m, nil

	case pushedMsg:
		m.inflight.End(session.OpPush)
		m.notice = strings.ReplaceAll(msg.notice.Text, "\n", ": ")
		return m, nil

	case settingsSavedMsg:
		if msg.err != nil {
			m.log.Debug("Settings not saved on server", zap.Error(msg.err))
		}
		return m, nil

	case libraryChangedMsg:
		return m, tea.Batch(m.loadCatalog(), m.waitForChange())

	default:
		if m.confirm != nil {
			return m, m.updateConfirm(msg)
		}
		switch msg := msg.(type) {
		case tea.KeyMsg:
			cmd = m.handleKey(msg)
		case tea.MouseMsg:
			m.handleMouse(msg)
		}
	}

	m.layout()
	return m, tea.Batch(cmd, m.takeLoad())
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	class := pager.Classify(float64(width), float64(m.opts.NarrowWidth))
	if class != m.pager.Class() {
		m.pager.SetClass(class)
		m.menu.SetClass(class)
	}
	m.help.Width = width
	m.layout()
}

func (m *Model) bodyHeight() int {
	return max(1, m.height-2)
}

func (m *Model) navWidth() int {
	if !m.menu.NavbarVisible() {
		return 0
	}
	if m.pager.Class() == pager.Narrow {
		return m.width
	}
	return min(navPanelWidth, m.width/2)
}

// contentX is the first column of the article pane.
func (m *Model) contentX() int {
	if m.pager.Class() == pager.Wide && m.menu.NavbarVisible() {
		return m.navWidth() + 1
	}
	return 0
}

func (m *Model) contentWidth() int {
	return max(1, m.width-m.contentX()-1)
}

// textWidth scales the wrap width down as the font size grows.
func (m *Model) textWidth() int {
	cw := m.contentWidth()
	w := int(float64(cw) / max(m.settings.FontSize, 0.1))
	return max(min(w, cw), min(20, cw))
}

func (m *Model) navFocused() bool {
	if !m.menu.NavbarVisible() {
		return false
	}
	return m.pager.Class() == pager.Narrow || m.focus == focusNav
}

// layout sizes the panes and re-wraps the article when its width changed.
func (m *Model) layout() {
	h := m.bodyHeight()
	m.frame.vp.Width = m.contentWidth()
	m.frame.vp.Height = h
	m.tree.SetHeight(float64(h))
	if w := m.textWidth(); w != m.wrapWidth {
		m.wrapWidth = w
		m.render()
	}
}

// render lays the article out again, keeping the scroll position.
func (m *Model) render() {
	if !m.hasBody {
		return
	}
	top := m.frame.vp.YOffset
	lines := reader.Render(m.body, m.wrapWidth, m.settings.AllowLinks)
	m.frame.vp.SetContent(strings.Join(lines, "\n"))
	m.frame.vp.SetYOffset(top)
	m.pager.ContentLoaded(float64(len(lines)))
}

func (m *Model) catalogLoaded(msg catalogMsg) {
	if msg.err != nil {
		m.log.Warn("Unable to load catalog", zap.Error(msg.err))
		m.notice = msg.err.Error()
		return
	}
	first := !m.loaded
	m.loaded = true
	m.sess.SetCatalog(msg.cat)
	m.tree.Rebuild(msg.cat, m.opts.ExpandLevel)

	switch {
	case first && !m.opts.Fresh && m.opts.Store != nil:
		m.sess.Restore(m.opts.Store.Cursor(m.opts.Origin))
	case !first:
		m.tree.Locate(m.sess.Cursor())
	}
}

func (m *Model) articleLoaded(msg articleMsg) {
	if msg.src != m.sess.Cursor().Src {
		return
	}
	m.loading = false
	m.missing = false
	switch {
	case errors.Is(msg.err, reader.ErrNotFound):
		m.missing = true
		m.hasBody = false
		m.frame.vp.SetContent("")
		m.pager.ContentLoaded(0)
		return
	case msg.err != nil:
		m.log.Warn("Unable to load article", zap.String("src", msg.src), zap.Error(msg.err))
		m.notice = msg.err.Error()
		return
	}
	m.body = msg.body
	m.hasBody = true
	m.frame.vp.SetYOffset(0)
	m.render()
}

// takeLoad starts fetching the article the session asked the frame for.
func (m *Model) takeLoad() tea.Cmd {
	src := m.frame.takePending()
	if src == "" {
		return nil
	}
	m.hasBody = false
	m.missing = false
	m.loading = true
	m.frame.vp.SetContent("Loading…")
	return m.fetchArticle(src)
}

func (m *Model) saveCursor(a catalog.Article) {
	if m.opts.Store == nil {
		return
	}
	if err := m.opts.Store.SetCursor(m.opts.Origin, a); err != nil {
		m.log.Warn("Unable to save position", zap.Error(err))
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	m.notice = ""

	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return tea.Quit
	case key.Matches(msg, keys.Help):
		m.menu.TogglePopup()
	case key.Matches(msg, keys.Close):
		m.menu.Close()
		m.focus = focusContent
	case key.Matches(msg, keys.Focus):
		m.switchFocus()
	case key.Matches(msg, keys.Menu):
		m.menu.Toggle()
	case key.Matches(msg, keys.Next):
		m.sess.OpenNext()
	case key.Matches(msg, keys.Previous):
		m.sess.OpenPrevious()
	case key.Matches(msg, keys.PushBook):
		return m.push(reader.PushBook)
	case key.Matches(msg, keys.PushArticle):
		return m.push(reader.PushArticle)
	case key.Matches(msg, keys.Delete):
		return m.startDelete(false)
	case key.Matches(msg, keys.DeleteNow):
		return m.startDelete(true)
	case key.Matches(msg, keys.Larger):
		return m.changeSettings(state.Settings.Larger)
	case key.Matches(msg, keys.Smaller):
		return m.changeSettings(state.Settings.Smaller)
	case key.Matches(msg, keys.Links):
		return m.changeSettings(state.Settings.ToggleLinks)
	case key.Matches(msg, keys.Ink):
		return m.changeSettings(state.Settings.ToggleInkMode)
	case key.Matches(msg, keys.Level):
		m.tree.ExpandCollapseAll(int(msg.String()[0] - '0'))
	case key.Matches(msg, keys.Locate):
		m.tree.Locate(m.sess.Cursor())
	case key.Matches(msg, keys.NavPageDown):
		m.tree.NavPageDown()
	case key.Matches(msg, keys.NavPageUp):
		m.tree.NavPageUp()
	case key.Matches(msg, keys.Reload):
		return m.loadCatalog()
	case m.menuCoversArticle() && (msg.String() == "pgdown" || msg.String() == "pgup"):
		m.pager.Key(domKey(msg))
	case m.navFocused():
		m.navKey(msg)
	case !m.loading:
		m.pager.Key(domKey(msg))
	}
	return nil
}

// menuCoversArticle reports whether the navigation panel is drawn over the
// article. Page keys then close it before paging.
func (m *Model) menuCoversArticle() bool {
	return m.pager.Class() == pager.Narrow && m.menu.Open()
}

func (m *Model) navKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, keys.Up):
		m.tree.MoveUp()
	case key.Matches(msg, keys.Down):
		m.tree.MoveDown()
	case key.Matches(msg, keys.Open):
		if a, ok := m.tree.Activate(); ok {
			m.sess.OpenArticle(a)
			m.focus = focusContent
		}
	case key.Matches(msg, keys.Select):
		m.tree.ToggleCursorSelected()
	case msg.String() == "pgdown":
		m.tree.NavPageDown()
	case msg.String() == "pgup":
		m.tree.NavPageUp()
	}
}

func (m *Model) switchFocus() {
	if m.focus == focusNav {
		m.focus = focusContent
		if m.pager.Class() == pager.Narrow {
			m.menu.Close()
		}
		return
	}
	m.focus = focusNav
	if !m.menu.NavbarVisible() {
		m.menu.Toggle()
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	y := msg.Y - 1 // status line
	if y < 0 || y >= m.bodyHeight() {
		return
	}
	nw := m.navWidth()
	overNav := nw > 0 && msg.X < nw

	if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
		if !overNav {
			m.frame.vp, _ = m.frame.vp.Update(msg)
		}
		return
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return
	}

	if overNav {
		m.focus = focusNav
		m.clickNav(msg.X, y)
		return
	}
	if !m.loading {
		m.pager.Tap(pager.Tap{X: float64(msg.X - m.contentX()), Y: float64(y)})
	}
}

func (m *Model) clickNav(x, y int) {
	index := m.tree.RowAt(float64(y))
	rows := m.tree.Rows()
	if index < 0 || index >= len(rows) {
		return
	}
	if row := rows[index]; row.Kind == navtree.BookRow && x >= checkboxStart && x < checkboxEnd {
		m.tree.ToggleSelected(row.BookDir)
		return
	}
	if a, ok := m.tree.Click(index); ok {
		m.sess.OpenArticle(a)
		m.focus = focusContent
	}
}

func (m *Model) push(target string) tea.Cmd {
	req, ok := m.sess.PushRequest(target)
	m.menu.Close()
	if !ok {
		m.notice = session.NothingOpenNotice().Text
		return nil
	}
	if !m.inflight.Begin(session.OpPush) {
		m.notice = "A push is already in progress"
		return nil
	}
	return m.pushCmd(req)
}

func (m *Model) startDelete(fast bool) tea.Cmd {
	if m.inflight.Busy(session.OpDelete) {
		m.notice = "A deletion is already in progress"
		return nil
	}
	req, err := m.tree.PrepareDelete()
	if err != nil {
		m.notice = err.Error()
		return nil
	}
	if fast {
		return m.deleteCmd(req)
	}
	m.pending = req
	m.confirmed = false
	m.confirm = newDeleteConfirm(req, &m.confirmed)
	return m.confirm.Init()
}

func (m *Model) updateConfirm(msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "ctrl+c" {
		m.confirm.State = huh.StateAborted
	}
	var cmd tea.Cmd
	if m.confirm.State == huh.StateNormal {
		var f tea.Model
		f, cmd = m.confirm.Update(msg)
		if form, ok := f.(*huh.Form); ok {
			m.confirm = form
		}
	}
	if done := m.resolveConfirm(); done != nil || m.confirm == nil {
		return done
	}
	return cmd
}

// resolveConfirm acts on a finished confirmation dialog.
func (m *Model) resolveConfirm() tea.Cmd {
	switch m.confirm.State {
	case huh.StateCompleted:
		m.confirm = nil
		if m.confirmed {
			return m.deleteCmd(m.pending)
		}
	case huh.StateAborted:
		m.confirm = nil
	}
	return nil
}

func (m *Model) changeSettings(change func(state.Settings) state.Settings) tea.Cmd {
	m.settings = change(m.settings)
	m.theme = themeFor(m.settings.InkMode)
	if m.opts.Store != nil {
		if err := m.opts.Store.SetSettings(m.settings); err != nil {
			m.log.Warn("Unable to save settings", zap.Error(err))
		}
	}
	m.wrapWidth = m.textWidth()
	m.render()
	return m.saveSettingsCmd(m.settings)
}
