package session

import (
	"context"
	"errors"
	"testing"

	"github.com/metcalfc/digest/internal/catalog"
	"github.com/metcalfc/digest/internal/navtree"
	"github.com/metcalfc/digest/internal/pager"
	"github.com/metcalfc/digest/internal/reader"
)

type fakeFrame struct {
	loads []string
}

func (f *fakeFrame) Load(src string) { f.loads = append(f.loads, src) }

type fakePusher struct {
	got reader.PushRequest
	err error
	n   int
}

func (p *fakePusher) Push(_ context.Context, req reader.PushRequest) error {
	p.got = req
	p.n++
	return p.err
}

func art(src string) catalog.Article {
	return catalog.Article{Src: src, Text: "title " + src}
}

func sampleCatalog() *catalog.Catalog {
	return catalog.New([]catalog.DayEntry{
		{Date: "d1", Books: []catalog.Book{
			{BookDir: "a", Language: "en", Articles: []catalog.Article{art("A1"), art("A2")}},
			{BookDir: "b", Language: "fr", Articles: []catalog.Article{art("B1"), art("B2")}},
		}},
	})
}

func newTestSession(opts ...Option) (*Session, *fakeFrame, *navtree.Tree) {
	cat := sampleCatalog()
	tree := navtree.New()
	tree.Rebuild(cat, navtree.LevelCollapsed)
	tree.SetHeight(10)
	frame := &fakeFrame{}
	return New(cat, frame, tree, opts...), frame, tree
}

func TestOpenNextWalksCatalog(t *testing.T) {
	s, frame, tree := newTestSession()

	want := []string{"A1", "A2", "B1", "B2"}
	for _, src := range want {
		s.OpenNext()
		if s.Cursor().Src != src {
			t.Fatalf("cursor = %q, want %q", s.Cursor().Src, src)
		}
	}
	if len(frame.loads) != 4 {
		t.Errorf("loads = %v", frame.loads)
	}
	if !tree.BookExpanded(0, 1) || tree.BookExpanded(0, 0) {
		t.Error("tree should be located on B2's book only")
	}

	// Past the end: no load, cursor unchanged.
	s.OpenNext()
	if s.Cursor().Src != "B2" || len(frame.loads) != 4 {
		t.Errorf("end of catalog must be a no-op: cursor %q, loads %d", s.Cursor().Src, len(frame.loads))
	}
}

func TestOpenPreviousAtStart(t *testing.T) {
	s, frame, _ := newTestSession()
	s.OpenArticle(art("A1"))
	s.OpenPrevious()
	if s.Cursor().Src != "A1" || len(frame.loads) != 1 {
		t.Errorf("cursor = %q, loads = %v", s.Cursor().Src, frame.loads)
	}
}

func TestOpenPreviousFromEmptyOpensFirst(t *testing.T) {
	s, _, _ := newTestSession()
	s.OpenPrevious()
	if s.Cursor().Src != "A1" {
		t.Errorf("cursor = %q, want A1", s.Cursor().Src)
	}
}

func TestOpenArticleClosesMenuAndNotifies(t *testing.T) {
	menu := NewMenu(pager.Narrow)
	menu.Toggle()
	menu.TogglePopup()
	var opened []catalog.Article
	s, _, _ := newTestSession(WithMenu(menu), WithOnOpen(func(a catalog.Article) { opened = append(opened, a) }))

	if s.OpenArticle(catalog.Article{Text: "no src"}) {
		t.Error("article without src must be ignored")
	}
	if !menu.Open() || len(opened) != 0 {
		t.Error("ignored open must not touch menu or hook")
	}

	s.OpenArticle(art("B1"))
	if menu.Open() {
		t.Error("menu must close on open")
	}
	if len(opened) != 1 || opened[0] != art("B1") {
		t.Errorf("hook calls = %v", opened)
	}
}

func TestRestore(t *testing.T) {
	s, frame, tree := newTestSession()
	if s.Restore(art("gone")) || s.Restore(catalog.Article{}) {
		t.Error("missing cursor must not restore")
	}
	if len(frame.loads) != 0 {
		t.Errorf("loads = %v", frame.loads)
	}
	if !s.Restore(art("A2")) {
		t.Fatal("Restore(A2) failed")
	}
	if s.Cursor() != art("A2") || !tree.BookExpanded(0, 0) {
		t.Errorf("cursor = %v", s.Cursor())
	}
}

func TestPush(t *testing.T) {
	s, _, _ := newTestSession()
	p := &fakePusher{}

	n := s.Push(context.Background(), p, reader.PushArticle)
	if n.Kind != NothingOpen || p.n != 0 {
		t.Fatalf("empty cursor: notice %v, calls %d", n, p.n)
	}

	s.OpenArticle(art("B2"))
	n = s.Push(context.Background(), p, reader.PushArticle)
	if n.Kind != Pushed {
		t.Errorf("notice = %v", n)
	}
	want := reader.PushRequest{Type: reader.PushArticle, Src: "B2", Title: "title B2", Language: "fr"}
	if p.got != want {
		t.Errorf("request = %+v, want %+v", p.got, want)
	}

	s.Push(context.Background(), p, reader.PushBook)
	if p.got.Type != reader.PushBook || p.got.Language != "" {
		t.Errorf("book request = %+v", p.got)
	}
}

func TestPushResult(t *testing.T) {
	req := reader.PushRequest{Title: "T"}
	tests := []struct {
		name string
		err  error
		kind NoticeKind
		text string
	}{
		{"ok", nil, Pushed, "Pushed\nT"},
		{"status", &reader.StatusError{Status: "quota"}, PushFailed, "quota"},
		{"network", errors.New("dial tcp: refused"), PushFailed, "dial tcp: refused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := PushResult(req, tt.err)
			if n.Kind != tt.kind || n.String() != tt.text {
				t.Errorf("PushResult = %+v", n)
			}
		})
	}
}

func TestMenu(t *testing.T) {
	m := NewMenu(pager.Wide)
	if !m.NavbarVisible() || m.Open() {
		t.Error("wide: navbar visible, not covering content")
	}
	m.Close()
	if !m.NavbarVisible() {
		t.Error("wide: close must keep navbar")
	}

	m.SetClass(pager.Narrow)
	if m.NavbarVisible() {
		t.Error("narrow: navbar hidden initially")
	}
	m.Toggle()
	if !m.Open() {
		t.Error("narrow: navbar covers content")
	}
	m.Close()
	if m.Open() {
		t.Error("narrow: close hides navbar")
	}
}

func TestContentTapDismissesPopup(t *testing.T) {
	s, _, _ := newTestSession()
	menu := NewMenu(pager.Wide)
	menu.TogglePopup()
	geom := &staticGeom{width: 1200, client: 800, scroll: 3000}
	c := pager.NewController(geom, s, menu)
	c.SetClass(pager.Wide)

	c.Tap(pager.Tap{X: 900, Y: 400})
	if menu.PopupVisible() {
		t.Error("tap on content must hide the popup")
	}
	if !menu.NavbarVisible() {
		t.Error("wide navbar must stay docked")
	}
	if geom.top != 760 {
		t.Errorf("tap still pages down: scrollTop = %v", geom.top)
	}
}

func TestInflight(t *testing.T) {
	var g Inflight
	if !g.Begin(OpDelete) {
		t.Fatal("first Begin must succeed")
	}
	if g.Begin(OpDelete) {
		t.Error("second Begin must fail while running")
	}
	if !g.Begin(OpPush) {
		t.Error("other operations are independent")
	}
	g.End(OpDelete)
	if g.Busy(OpDelete) || !g.Begin(OpDelete) {
		t.Error("End must release the operation")
	}
}

func TestPagerDrivesSession(t *testing.T) {
	s, _, _ := newTestSession()
	menu := NewMenu(pager.Wide)
	geom := &staticGeom{width: 80, client: 20, scroll: 20}
	c := pager.NewController(geom, s, menu, pager.WithOverlap(2))

	c.PageDown()
	if s.Cursor().Src != "A1" {
		t.Errorf("page down on a single page document opens next: %q", s.Cursor().Src)
	}
}

type staticGeom struct {
	width, top, client, scroll float64
}

func (g *staticGeom) ClientWidth() float64   { return g.width }
func (g *staticGeom) ScrollTop() float64     { return g.top }
func (g *staticGeom) ClientHeight() float64  { return g.client }
func (g *staticGeom) ScrollHeight() float64  { return g.scroll }
func (g *staticGeom) SetScrollTop(v float64) { g.top = v }
