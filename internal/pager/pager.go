// Package pager turns taps, key presses and viewport geometry into page
// movements, handing off to article navigation at the document boundaries.
package pager

// DefaultOverlap is kept visible from the previous page after a page turn.
const DefaultOverlap = 40

// DefaultNarrowWidth is the widest viewport still treated as narrow (the
// resolution of the larger e-ink panels).
const DefaultNarrowWidth = 1072

// ViewportClass distinguishes narrow (mobile / e-ink) viewports, where the
// side menu overlays the content, from wide ones where it stays docked.
type ViewportClass int

const (
	Wide ViewportClass = iota
	Narrow
)

func (c ViewportClass) String() string {
	if c == Narrow {
		return "narrow"
	}
	return "wide"
}

// Classify computes the viewport class for a layout event.
func Classify(width, narrowWidth float64) ViewportClass {
	if width <= narrowWidth {
		return Narrow
	}
	return Wide
}

// Intent is what a gesture asks for.
type Intent int

const (
	None Intent = iota
	PrevArticle
	NextArticle
	ToggleMenu
	PageUp
	PageDown
)

var intentNames = [...]string{"none", "prev-article", "next-article", "toggle-menu", "page-up", "page-down"}

func (i Intent) String() string {
	if i < 0 || int(i) >= len(intentNames) {
		return "unknown"
	}
	return intentNames[i]
}

// Geometry is a live view of the content frame. Values are re-read on every
// call and never cached by the controller.
type Geometry interface {
	ClientWidth() float64
	ScrollTop() float64
	ClientHeight() float64
	ScrollHeight() float64
	SetScrollTop(float64)
}

// Navigator opens neighbouring articles.
type Navigator interface {
	OpenPrevious()
	OpenNext()
}

// Menu is the side menu that a page gesture closes first on narrow viewports.
type Menu interface {
	Open() bool
	Toggle()
	Close()
}

// Controller maps gestures to scrolling or article navigation.
type Controller struct {
	geom    Geometry
	nav     Navigator
	menu    Menu
	class   ViewportClass
	overlap float64

	// Last reported content height. The frame may still be laying out when
	// a fast page-down arrives, so this is trusted over live geometry.
	extent float64
}

// Option customises a Controller.
type Option func(*Controller)

// WithOverlap sets the page overlap, for geometry not measured in pixels.
func WithOverlap(overlap float64) Option {
	return func(c *Controller) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// NewController creates a controller. menu may be nil.
func NewController(geom Geometry, nav Navigator, menu Menu, opts ...Option) *Controller {
	c := &Controller{
		geom:    geom,
		nav:     nav,
		menu:    menu,
		overlap: DefaultOverlap,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetClass records the viewport class of the latest layout event.
func (c *Controller) SetClass(class ViewportClass) {
	c.class = class
}

// Class returns the current viewport class.
func (c *Controller) Class() ViewportClass {
	return c.class
}

// Invalidate forgets the cached content extent. Call it whenever the frame
// starts loading a new article.
func (c *Controller) Invalidate() {
	c.extent = 0
}

// ContentLoaded caches the extent of a freshly laid out article. Content
// shorter than the viewport is treated as one full page.
func (c *Controller) ContentLoaded(scrollHeight float64) {
	c.extent = max(scrollHeight, c.geom.ClientHeight())
}

// Extent returns the content height used for boundary checks.
func (c *Controller) Extent() float64 {
	if c.extent > 0 {
		return c.extent
	}
	return c.geom.ScrollHeight()
}

func (c *Controller) closeMenu() bool {
	if c.class == Narrow && c.menu != nil && c.menu.Open() {
		c.menu.Close()
		return true
	}
	return false
}

// step is the distance of one page turn. It never drops below one unit, so
// an overlap as tall as the viewport still makes progress.
func (c *Controller) step(height float64) float64 {
	return max(1, height-c.overlap)
}

// PageUp scrolls one page back, or opens the previous article when the
// content is already at its top.
func (c *Controller) PageUp() {
	if c.closeMenu() {
		return
	}
	top := c.geom.ScrollTop()
	if top <= 0 {
		c.nav.OpenPrevious()
		return
	}
	height := c.geom.ClientHeight()
	bottom := max(0, c.Extent()-height)
	c.geom.SetScrollTop(max(0, min(top-c.step(height), bottom)))
}

// PageDown scrolls one page forward, or opens the next article when the
// content is already at its bottom.
func (c *Controller) PageDown() {
	if c.closeMenu() {
		return
	}
	top := c.geom.ScrollTop()
	height := c.geom.ClientHeight()
	extent := c.Extent()
	if top >= extent-height {
		c.nav.OpenNext()
		return
	}
	c.geom.SetScrollTop(max(0, min(top+c.step(height), extent-height)))
}

// Dispatch performs intent.
func (c *Controller) Dispatch(intent Intent) {
	switch intent {
	case PrevArticle:
		c.nav.OpenPrevious()
	case NextArticle:
		c.nav.OpenNext()
	case ToggleMenu:
		if c.class == Narrow && c.menu != nil {
			c.menu.Toggle()
		}
	case PageUp:
		c.PageUp()
	case PageDown:
		c.PageDown()
	}
}

// popupCloser is implemented by menus with a popup that any tap on the
// content dismisses, whatever the viewport class.
type popupCloser interface {
	ClosePopup()
}

// Tap classifies a tap on the content frame and performs it.
func (c *Controller) Tap(t Tap) Intent {
	if p, ok := c.menu.(popupCloser); ok {
		p.ClosePopup()
	}
	intent := ClassifyTap(t, Viewport{Width: c.geom.ClientWidth(), Height: c.geom.ClientHeight()}, c.class)
	c.Dispatch(intent)
	return intent
}

// Key performs the page movement bound to key. It reports whether the key
// was consumed, in which case default scrolling must be suppressed.
func (c *Controller) Key(key string) bool {
	intent, ok := KeyIntent(key)
	if ok {
		c.Dispatch(intent)
	}
	return ok
}
