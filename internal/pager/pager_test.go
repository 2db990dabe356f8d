package pager

import "testing"

type fakeGeom struct {
	width, top, client, scroll float64
}

func (g *fakeGeom) ClientWidth() float64   { return g.width }
func (g *fakeGeom) ScrollTop() float64     { return g.top }
func (g *fakeGeom) ClientHeight() float64  { return g.client }
func (g *fakeGeom) ScrollHeight() float64  { return g.scroll }
func (g *fakeGeom) SetScrollTop(v float64) { g.top = v }

type fakeNav struct {
	prev, next int
}

func (n *fakeNav) OpenPrevious() { n.prev++ }
func (n *fakeNav) OpenNext()     { n.next++ }

type fakeMenu struct {
	open bool
}

func (m *fakeMenu) Open() bool { return m.open }
func (m *fakeMenu) Toggle()    { m.open = !m.open }
func (m *fakeMenu) Close()     { m.open = false }

func newTestController(g *fakeGeom) (*Controller, *fakeNav, *fakeMenu) {
	nav := &fakeNav{}
	menu := &fakeMenu{}
	return NewController(g, nav, menu), nav, menu
}

func TestClassifyTap(t *testing.T) {
	vp := Viewport{Width: 1000, Height: 800}
	tests := []struct {
		name  string
		tap   Tap
		class ViewportClass
		want  Intent
	}{
		{"top left opens previous", Tap{X: 50, Y: 80}, Wide, PrevArticle},
		{"top right opens next", Tap{X: 900, Y: 10}, Narrow, NextArticle},
		{"top middle toggles menu on narrow", Tap{X: 500, Y: 10}, Narrow, ToggleMenu},
		{"top middle ignored on wide", Tap{X: 500, Y: 10}, Wide, None},
		{"left third pages up", Tap{X: 300, Y: 400}, Wide, PageUp},
		{"right two thirds page down", Tap{X: 400, Y: 400}, Wide, PageDown},
		{"band edge belongs below", Tap{X: 10, Y: 160}, Wide, PageUp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyTap(tt.tap, vp, tt.class); got != tt.want {
				t.Errorf("ClassifyTap(%+v) = %v, want %v", tt.tap, got, tt.want)
			}
		})
	}
}

func TestTapOpensPrevious(t *testing.T) {
	g := &fakeGeom{width: 600, client: 800, scroll: 3000}
	c, nav, _ := newTestController(g)

	got := c.Tap(Tap{X: 0.05 * 600, Y: 0.1 * 800})
	if got != PrevArticle || nav.prev != 1 {
		t.Errorf("tap = %v, prev calls = %d", got, nav.prev)
	}
}

func TestInDocument(t *testing.T) {
	tap := InDocument(10, 1250, 1200)
	if tap.Y != 50 || tap.X != 10 {
		t.Errorf("InDocument = %+v", tap)
	}
}

func TestKeyIntent(t *testing.T) {
	tests := []struct {
		key  string
		want Intent
		ok   bool
	}{
		{" ", PageDown, true},
		{"ArrowDown", PageDown, true},
		{"ArrowRight", PageDown, true},
		{"PageDown", PageDown, true},
		{"ArrowUp", PageUp, true},
		{"ArrowLeft", PageUp, true},
		{"PageUp", PageUp, true},
		{"Enter", None, false},
	}
	for _, tt := range tests {
		got, ok := KeyIntent(tt.key)
		if got != tt.want || ok != tt.ok {
			t.Errorf("KeyIntent(%q) = %v, %v; want %v, %v", tt.key, got, ok, tt.want, tt.ok)
		}
	}
}

func TestPageDownScrollsWithOverlap(t *testing.T) {
	g := &fakeGeom{width: 600, client: 800, scroll: 3000}
	c, nav, _ := newTestController(g)

	c.PageDown()
	if g.top != 760 {
		t.Errorf("scrollTop = %v, want 760", g.top)
	}
	if nav.next != 0 {
		t.Error("should not navigate while content remains")
	}
}

func TestPageDownClampsToBottom(t *testing.T) {
	g := &fakeGeom{width: 600, top: 2000, client: 800, scroll: 3000}
	c, _, _ := newTestController(g)

	c.PageDown()
	if g.top != 2200 {
		t.Errorf("scrollTop = %v, want 2200", g.top)
	}
}

func TestPageDownAtCachedBottomOpensNext(t *testing.T) {
	// Live geometry still reports a taller document than the laid out one.
	g := &fakeGeom{width: 600, top: 1200, client: 800, scroll: 5000}
	c, nav, _ := newTestController(g)
	c.ContentLoaded(2000)

	c.PageDown()
	if nav.next != 1 {
		t.Fatalf("expected next article, got %d calls", nav.next)
	}
	if g.top != 1200 {
		t.Errorf("scrollTop changed to %v", g.top)
	}
}

func TestInvalidateFallsBackToLiveHeight(t *testing.T) {
	g := &fakeGeom{width: 600, top: 1200, client: 800, scroll: 5000}
	c, nav, _ := newTestController(g)
	c.ContentLoaded(2000)
	c.Invalidate()

	if c.Extent() != 5000 {
		t.Errorf("Extent() = %v, want live 5000", c.Extent())
	}
	c.PageDown()
	if nav.next != 0 || g.top != 1960 {
		t.Errorf("next = %d, top = %v", nav.next, g.top)
	}
}

func TestContentLoadedShortDocument(t *testing.T) {
	g := &fakeGeom{width: 600, client: 800, scroll: 800}
	c, nav, _ := newTestController(g)
	c.ContentLoaded(300)

	if c.Extent() != 800 {
		t.Errorf("Extent() = %v, want viewport height", c.Extent())
	}
	c.PageDown()
	if nav.next != 1 {
		t.Error("single page document should advance to next article")
	}
}

func TestPageUp(t *testing.T) {
	g := &fakeGeom{width: 600, top: 1000, client: 800, scroll: 3000}
	c, nav, _ := newTestController(g)

	c.PageUp()
	if g.top != 240 {
		t.Errorf("scrollTop = %v, want 240", g.top)
	}
	c.PageUp()
	if g.top != 0 {
		t.Errorf("scrollTop = %v, want clamp to 0", g.top)
	}
	c.PageUp()
	if nav.prev != 1 {
		t.Errorf("expected previous article at top, got %d", nav.prev)
	}
}

func TestMenuClosePrecedence(t *testing.T) {
	g := &fakeGeom{width: 600, top: 0, client: 800, scroll: 800}
	c, nav, menu := newTestController(g)
	c.SetClass(Narrow)
	menu.open = true

	c.PageUp()
	if menu.open || nav.prev != 0 {
		t.Errorf("menu open = %v, prev = %d", menu.open, nav.prev)
	}

	menu.open = true
	c.SetClass(Wide)
	c.PageDown()
	if !menu.open || nav.next != 1 {
		t.Errorf("wide viewport must ignore menu: open = %v, next = %d", menu.open, nav.next)
	}
}

func TestWithOverlap(t *testing.T) {
	g := &fakeGeom{width: 80, client: 20, scroll: 100}
	c := NewController(g, &fakeNav{}, nil, WithOverlap(2))
	c.PageDown()
	if g.top != 18 {
		t.Errorf("scrollTop = %v, want 18", g.top)
	}
}

func TestOverlapNotSmallerThanViewport(t *testing.T) {
	tests := []struct {
		name    string
		top     float64
		client  float64
		overlap float64
		up      bool
		want    float64
	}{
		{"page down moves forward", 10, 22, 40, false, 11},
		{"page up moves back", 10, 22, 40, true, 9},
		{"equal overlap still advances", 0, 22, 22, false, 1},
		{"page up never passes the bottom", 190, 22, 40, true, 178},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &fakeGeom{width: 80, top: tt.top, client: tt.client, scroll: 200}
			c := NewController(g, &fakeNav{}, nil, WithOverlap(tt.overlap))
			if tt.up {
				c.PageUp()
			} else {
				c.PageDown()
			}
			if g.top != tt.want {
				t.Errorf("scrollTop = %v, want %v", g.top, tt.want)
			}
		})
	}
}

func TestTinyViewportReachesNextArticle(t *testing.T) {
	g := &fakeGeom{width: 80, client: 2, scroll: 5}
	nav := &fakeNav{}
	c := NewController(g, nav, nil, WithOverlap(2))
	for i := 0; i < 10 && nav.next == 0; i++ {
		c.PageDown()
		if g.top < 0 || g.top > 3 {
			t.Fatalf("scrollTop = %v out of [0, 3]", g.top)
		}
	}
	if nav.next != 1 || g.top != 3 {
		t.Errorf("next = %d, top = %v; want next article from the bottom", nav.next, g.top)
	}
}

type popupMenu struct {
	fakeMenu
	popup bool
}

func (m *popupMenu) ClosePopup() { m.popup = false }

func TestTapClosesPopup(t *testing.T) {
	tests := []struct {
		name  string
		class ViewportClass
		tap   Tap
	}{
		{"wide page down", Wide, Tap{X: 500, Y: 400}},
		{"wide top band", Wide, Tap{X: 300, Y: 10}},
		{"narrow next article", Narrow, Tap{X: 580, Y: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &fakeGeom{width: 600, client: 800, scroll: 3000}
			menu := &popupMenu{popup: true}
			c := NewController(g, &fakeNav{}, menu)
			c.SetClass(tt.class)
			c.Tap(tt.tap)
			if menu.popup {
				t.Error("popup still visible after tap")
			}
		})
	}
}

func TestKeyDispatch(t *testing.T) {
	g := &fakeGeom{width: 600, client: 800, scroll: 3000}
	c, _, _ := newTestController(g)
	if !c.Key("PageDown") || g.top != 760 {
		t.Errorf("PageDown key: top = %v", g.top)
	}
	if c.Key("a") {
		t.Error("unbound key must not be consumed")
	}
}

func TestClassify(t *testing.T) {
	if Classify(1072, DefaultNarrowWidth) != Narrow {
		t.Error("1072 should be narrow")
	}
	if Classify(1073, DefaultNarrowWidth) != Wide {
		t.Error("1073 should be wide")
	}
}

func TestIndicatorOffset(t *testing.T) {
	tests := []struct {
		name                                     string
		top, client, scroll, size, reserve, want float64
	}{
		{"top", 0, 800, 1600, 50, 5, 0},
		{"half", 400, 800, 1600, 50, 5, 375},
		{"bottom keeps reserve", 800, 800, 1600, 50, 5, 745},
		{"not scrollable", 0, 800, 800, 50, 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IndicatorOffset(tt.top, tt.client, tt.scroll, tt.size, tt.reserve)
			if got != tt.want {
				t.Errorf("IndicatorOffset = %v, want %v", got, tt.want)
			}
		})
	}
}
