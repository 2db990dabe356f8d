//go:build gui

package main

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/metcalfc/digest/internal/catalog"
	"github.com/metcalfc/digest/internal/navtree"
	"github.com/metcalfc/digest/internal/pager"
	"github.com/metcalfc/digest/internal/reader"
	"github.com/metcalfc/digest/internal/session"
	"github.com/metcalfc/digest/internal/state"
)

// readerTheme scales text by the font size setting and forces the light
// variant in ink mode.
type readerTheme struct {
	fyne.Theme
	scale float32
	ink   bool
}

func (t *readerTheme) Color(n fyne.ThemeColorName, v fyne.ThemeVariant) color.Color {
	if t.ink {
		v = theme.VariantLight
	}
	return t.Theme.Color(n, v)
}

func (t *readerTheme) Size(n fyne.ThemeSizeName) float32 {
	s := t.Theme.Size(n)
	switch n {
	case theme.SizeNameText, theme.SizeNameHeadingText, theme.SizeNameSubHeadingText:
		return s * t.scale
	}
	return s
}

// tapLayer lies over the article and turns taps into page turns.
type tapLayer struct {
	widget.BaseWidget
	onTap func(pos fyne.Position)
}

func newTapLayer(onTap func(pos fyne.Position)) *tapLayer {
	l := &tapLayer{onTap: onTap}
	l.ExtendBaseWidget(l)
	return l
}

func (l *tapLayer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(canvas.NewRectangle(color.Transparent))
}

func (l *tapLayer) Tapped(ev *fyne.PointEvent) {
	l.onTap(ev.Position)
}

// scrollFrame adapts the article scroll container to the pager's geometry.
type scrollFrame struct {
	scroll *container.Scroll
	load   func(src string)
}

func (f *scrollFrame) Load(src string)       { f.load(src) }
func (f *scrollFrame) ClientWidth() float64  { return float64(f.scroll.Size().Width) }
func (f *scrollFrame) ScrollTop() float64    { return float64(f.scroll.Offset.Y) }
func (f *scrollFrame) ClientHeight() float64 { return float64(f.scroll.Size().Height) }
func (f *scrollFrame) ScrollHeight() float64 { return float64(f.scroll.Content.MinSize().Height) }

func (f *scrollFrame) SetScrollTop(v float64) {
	f.scroll.Offset.Y = float32(v)
	f.scroll.Refresh()
}

type gui struct {
	e   *env
	ctx context.Context
	app fyne.App
	w   fyne.Window

	settings state.Settings
	tree     *navtree.Tree
	sess     *session.Session
	menu     *session.Menu
	pager    *pager.Controller
	frame    *scrollFrame
	inflight session.Inflight

	body    string
	article *widget.RichText
	list    *widget.List
	rows    []navtree.Row
	navTop  float64
	status  *widget.Label
	navPane fyne.CanvasObject
	content fyne.CanvasObject
	popup   *widget.PopUp
	split   *container.Split
}

func newGUI(ctx context.Context, e *env) *gui {
	g := &gui{e: e, ctx: ctx, settings: state.DefaultSettings()}
	if e.store != nil {
		g.settings = e.store.Settings()
	}

	g.app = app.New()
	g.applyTheme()
	g.w = g.app.NewWindow("digest")

	g.article = widget.NewRichText()
	g.article.Wrapping = fyne.TextWrapWord
	scroll := container.NewVScroll(g.article)
	g.frame = &scrollFrame{scroll: scroll, load: g.fetch}

	g.menu = session.NewMenu(pager.Wide)
	g.tree = navtree.New(navtree.WithRowHeight(float64(g.rowHeight())), navtree.WithLogger(e.log))
	g.sess = session.New(catalog.New(nil), g.frame, g.tree,
		session.WithMenu(g.menu),
		session.WithOnOpen(g.opened),
		session.WithLogger(e.log))
	g.pager = pager.NewController(g.frame, g.sess, g.menu)

	g.status = widget.NewLabel("Loading catalog…")
	g.status.Truncation = fyne.TextTruncateEllipsis

	g.list = widget.NewList(
		func() int { return len(g.rows) },
		func() fyne.CanvasObject {
			return container.NewHBox(widget.NewCheck("", nil), widget.NewLabel("Title"))
		},
		g.updateRow,
	)
	g.list.OnSelected = func(id widget.ListItemID) {
		g.list.UnselectAll()
		if a, ok := g.tree.Click(id); ok {
			g.sess.OpenArticle(a)
		}
		g.refreshNav()
	}

	g.navPane = container.NewBorder(
		widget.NewLabel("Catalog"),
		container.NewGridWithColumns(3,
			widget.NewButton("Books", func() { g.expand(navtree.LevelBooks) }),
			widget.NewButton("All", func() { g.expand(navtree.LevelArticles) }),
			widget.NewButton("Locate", func() { g.tree.Locate(g.sess.Cursor()); g.refreshNav() }),
		),
		nil, nil,
		g.list,
	)
	g.content = container.NewStack(scroll, newTapLayer(g.tap))

	controls := widget.NewLabel("SPACE/PgDn: page  [ ]: article  M: menu  O: options  Q: quit")
	controls.Alignment = fyne.TextAlignCenter
	reading := container.NewBorder(g.status, controls, nil, nil, g.content)

	g.split = container.NewHSplit(g.navPane, reading)
	g.split.Offset = 0.3
	g.w.SetContent(g.split)
	g.w.Resize(fyne.NewSize(1280, 800))

	g.w.Canvas().SetOnTypedKey(g.typedKey)
	g.w.Canvas().SetOnTypedRune(g.typedRune)
	g.w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyD, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) {
		g.deleteSelected(true)
	})
	return g
}

func (g *gui) rowHeight() float32 {
	return widget.NewLabel("Title").MinSize().Height
}

func (g *gui) applyTheme() {
	g.app.Settings().SetTheme(&readerTheme{
		Theme: theme.DefaultTheme(),
		scale: float32(g.settings.FontSize),
		ink:   g.settings.InkMode,
	})
}

func (g *gui) run() {
	go g.loadCatalog(true)
	go g.watchLibrary()
	go g.watchSize()
	g.w.ShowAndRun()
}

func (g *gui) request() (context.Context, context.CancelFunc) {
	if g.e.cfg.Timeout <= 0 {
		return context.WithCancel(g.ctx)
	}
	return context.WithTimeout(g.ctx, g.e.cfg.Timeout)
}

func (g *gui) loadCatalog(first bool) {
	ctx, cancel := g.request()
	defer cancel()
	cat, err := g.e.src.Catalog(ctx)
	fyne.Do(func() {
		if err != nil {
			g.e.log.Warn("Unable to load catalog", zap.Error(err))
			g.status.SetText(err.Error())
			return
		}
		g.sess.SetCatalog(cat)
		g.tree.Rebuild(cat, g.e.cfg.ExpandLevel)
		switch {
		case first && !g.e.fresh && g.e.store != nil:
			g.sess.Restore(g.e.store.Cursor(g.e.cfg.Origin()))
		case !first:
			g.tree.Locate(g.sess.Cursor())
		}
		if g.sess.Cursor().IsZero() {
			g.status.SetText("Select an article")
		}
		g.refreshNav()
	})
}

func (g *gui) watchLibrary() {
	if g.e.changes == nil {
		return
	}
	for {
		select {
		case <-g.ctx.Done():
			return
		case _, ok := <-g.e.changes:
			if !ok {
				return
			}
			g.loadCatalog(false)
		}
	}
}

// watchSize reclassifies the viewport when the window width changes.
func (g *gui) watchSize() {
	var lastWidth float32
	for {
		select {
		case <-g.ctx.Done():
			return
		case <-time.After(100 * time.Millisecond):
			fyne.Do(func() {
				width := g.w.Canvas().Size().Width
				if width <= 0 || width == lastWidth {
					return
				}
				lastWidth = width
				class := pager.Classify(float64(width), pager.DefaultNarrowWidth)
				if class != g.pager.Class() {
					g.pager.SetClass(class)
					g.menu.SetClass(class)
					g.applyMenu()
				}
				g.tree.SetHeight(float64(g.list.Size().Height))
			})
		}
	}
}

// applyMenu shows the panes the menu state asks for. A narrow window shows
// either the catalog or the article.
func (g *gui) applyMenu() {
	if g.menu.NavbarVisible() {
		g.navPane.Show()
	} else {
		g.navPane.Hide()
	}
	if g.pager.Class() == pager.Narrow && g.menu.NavbarVisible() {
		g.content.Hide()
	} else {
		g.content.Show()
	}
	if g.popup != nil && !g.menu.PopupVisible() {
		g.popup.Hide()
		g.popup = nil
	}
	g.split.Refresh()
}

func (g *gui) fetch(src string) {
	g.pager.Invalidate()
	g.article.Segments = []widget.RichTextSegment{&widget.TextSegment{Text: "Loading…", Style: widget.RichTextStyleParagraph}}
	g.article.Refresh()
	go func() {
		ctx, cancel := g.request()
		defer cancel()
		body, err := g.e.src.Article(ctx, src)
		fyne.Do(func() {
			if src != g.sess.Cursor().Src {
				return
			}
			switch {
			case errors.Is(err, reader.ErrNotFound):
				g.body = ""
				g.showText("Article not found")
			case err != nil:
				g.e.log.Warn("Unable to load article", zap.String("src", src), zap.Error(err))
				g.showText(err.Error())
			default:
				g.body = body
				g.frame.SetScrollTop(0)
				g.render()
			}
		})
	}()
}

func (g *gui) showText(text string) {
	g.article.Segments = []widget.RichTextSegment{&widget.TextSegment{Text: text, Style: widget.RichTextStyleEmphasis}}
	g.article.Refresh()
	g.pager.ContentLoaded(0)
}

func (g *gui) render() {
	paragraphs, links := reader.Paragraphs(g.body, g.settings.AllowLinks)
	segs := make([]widget.RichTextSegment, 0, len(paragraphs)+len(links))
	for _, p := range paragraphs {
		segs = append(segs, &widget.TextSegment{Text: p, Style: widget.RichTextStyleParagraph})
	}
	for i, href := range links {
		segs = append(segs, &widget.TextSegment{Text: fmt.Sprintf("[%d] %s", i+1, href), Style: widget.RichTextStyleCodeInline})
	}
	g.article.Segments = segs
	g.article.Refresh()
	g.frame.scroll.Refresh()
	g.pager.ContentLoaded(float64(g.article.MinSize().Height))
}

func (g *gui) opened(a catalog.Article) {
	g.status.SetText(a.Text)
	g.applyMenu()
	g.refreshNav()
	if g.e.store == nil {
		return
	}
	if err := g.e.store.SetCursor(g.e.cfg.Origin(), a); err != nil {
		g.e.log.Warn("Unable to save position", zap.Error(err))
	}
}

// refreshNav redraws the catalog list. The list only follows the tree's
// scroll offset when the tree moved it, so manual scrolling is kept.
func (g *gui) refreshNav() {
	g.rows = g.tree.Rows()
	g.list.Refresh()
	g.tree.SetHeight(float64(g.list.Size().Height))
	if top := g.tree.ScrollTop(); top != g.navTop {
		g.navTop = top
		g.list.ScrollToOffset(float32(top))
	}
}

func (g *gui) updateRow(id widget.ListItemID, obj fyne.CanvasObject) {
	if id >= len(g.rows) {
		return
	}
	row := g.rows[id]
	box := obj.(*fyne.Container)
	check := box.Objects[0].(*widget.Check)
	label := box.Objects[1].(*widget.Label)

	arrow := "▸ "
	if row.Expanded {
		arrow = "▾ "
	}
	label.TextStyle = fyne.TextStyle{}
	switch row.Kind {
	case navtree.DateRow:
		check.Hide()
		label.TextStyle.Bold = true
		label.SetText(arrow + row.Label)
	case navtree.BookRow:
		check.OnChanged = nil
		check.SetChecked(row.Selected)
		check.OnChanged = func(bool) {
			g.tree.ToggleSelected(row.BookDir)
			g.rows = g.tree.Rows()
		}
		check.Show()
		label.SetText(arrow + row.Label)
	default:
		check.Hide()
		label.TextStyle.Italic = row.Article.Src == g.sess.Cursor().Src
		label.SetText("    " + row.Label)
	}
}

func (g *gui) expand(level int) {
	g.tree.ExpandCollapseAll(level)
	g.refreshNav()
}

func (g *gui) tap(pos fyne.Position) {
	g.pager.Tap(pager.Tap{X: float64(pos.X), Y: float64(pos.Y)})
	g.applyMenu()
}

// pagerKey translates fyne key names into the names the pager binds.
func pagerKey(name fyne.KeyName) string {
	switch name {
	case fyne.KeySpace:
		return pager.KeySpace
	case fyne.KeyDown:
		return pager.KeyArrowDown
	case fyne.KeyUp:
		return pager.KeyArrowUp
	case fyne.KeyLeft:
		return pager.KeyArrowLeft
	case fyne.KeyRight:
		return pager.KeyArrowRight
	case fyne.KeyPageDown:
		return pager.KeyPageDown
	case fyne.KeyPageUp:
		return pager.KeyPageUp
	}
	return string(name)
}

func (g *gui) typedKey(ev *fyne.KeyEvent) {
	switch ev.Name {
	case fyne.KeyEscape:
		g.menu.Close()
		g.applyMenu()
	case fyne.KeyF11:
		g.w.SetFullScreen(!g.w.FullScreen())
	default:
		g.pager.Key(pagerKey(ev.Name))
		g.applyMenu()
	}
}

func (g *gui) typedRune(r rune) {
	switch r {
	case ']':
		g.sess.OpenNext()
		g.refreshNav()
	case '[':
		g.sess.OpenPrevious()
		g.refreshNav()
	case 'm', 'M':
		g.menu.Toggle()
	case 'o', 'O':
		g.togglePopup()
	case 'l':
		g.tree.Locate(g.sess.Cursor())
		g.refreshNav()
	case '0', '1', '2':
		g.expand(int(r - '0'))
	case '+', '=':
		g.changeSettings(state.Settings.Larger)
	case '-':
		g.changeSettings(state.Settings.Smaller)
	case 'q', 'Q':
		g.app.Quit()
	}
	g.applyMenu()
}

func (g *gui) togglePopup() {
	g.menu.TogglePopup()
	if !g.menu.PopupVisible() {
		return
	}
	closeThen := func(fn func()) func() {
		return func() {
			g.menu.TogglePopup()
			g.applyMenu()
			fn()
		}
	}
	g.popup = widget.NewModalPopUp(container.NewVBox(
		widget.NewLabelWithStyle("Menu", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		widget.NewButton("Push book", closeThen(func() { g.push(reader.PushBook) })),
		widget.NewButton("Push article", closeThen(func() { g.push(reader.PushArticle) })),
		widget.NewButton("Delete selected books", closeThen(func() { g.deleteSelected(false) })),
		widget.NewButton("Larger text", closeThen(func() { g.changeSettings(state.Settings.Larger) })),
		widget.NewButton("Smaller text", closeThen(func() { g.changeSettings(state.Settings.Smaller) })),
		widget.NewButton("Toggle links", closeThen(func() { g.changeSettings(state.Settings.ToggleLinks) })),
		widget.NewButton("Toggle ink mode", closeThen(func() { g.changeSettings(state.Settings.ToggleInkMode) })),
		widget.NewButton("Close", closeThen(func() {})),
	), g.w.Canvas())
	g.popup.Show()
}

func (g *gui) push(target string) {
	req, ok := g.sess.PushRequest(target)
	if !ok {
		dialog.ShowInformation("Push", session.NothingOpenNotice().Text, g.w)
		return
	}
	if !g.inflight.Begin(session.OpPush) {
		return
	}
	go func() {
		defer g.inflight.End(session.OpPush)
		ctx, cancel := g.request()
		defer cancel()
		notice := session.PushResult(req, g.e.src.Push(ctx, req))
		fyne.Do(func() {
			dialog.ShowInformation("Push", notice.Text, g.w)
		})
	}()
}

// deleteSelected asks before deleting the selected books unless fast is set,
// as with the Ctrl+D shortcut.
func (g *gui) deleteSelected(fast bool) {
	req, err := g.tree.PrepareDelete()
	if err != nil {
		dialog.ShowInformation("Delete", err.Error(), g.w)
		return
	}
	if fast {
		g.runDelete(req)
		return
	}
	dialog.ShowConfirm("Delete these books?", req.Prompt(), func(ok bool) {
		if ok {
			g.runDelete(req)
		}
	}, g.w)
}

func (g *gui) runDelete(req navtree.DeleteRequest) {
	if !g.inflight.Begin(session.OpDelete) {
		return
	}
	go func() {
		defer g.inflight.End(session.OpDelete)
		ctx, cancel := g.request()
		defer cancel()
		err := g.e.src.DeleteBooks(ctx, req.Dirs)
		fyne.Do(func() {
			if err := g.tree.FinishDelete(req, err); err != nil {
				dialog.ShowError(err, g.w)
			}
			g.refreshNav()
		})
	}()
}

func (g *gui) changeSettings(change func(state.Settings) state.Settings) {
	g.settings = change(g.settings)
	g.applyTheme()
	if g.e.store != nil {
		if err := g.e.store.SetSettings(g.settings); err != nil {
			g.e.log.Warn("Unable to save settings", zap.Error(err))
		}
	}
	if g.body != "" {
		g.render()
	}
	settings := g.settings
	go func() {
		ctx, cancel := g.request()
		defer cancel()
		if err := g.e.src.SaveSettings(ctx, settings); err != nil {
			g.e.log.Debug("Settings not saved on server", zap.Error(err))
		}
	}()
}

func runGUI(ctx context.Context, e *env) error {
	newGUI(ctx, e).run()
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cmd := newRootCommand("grr", "Read digest books in a window", runGUI)
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
