package pager

// Key names follow the DOM KeyboardEvent.key values; front-ends translate
// their own key events into these.
const (
	KeySpace      = " "
	KeyArrowDown  = "ArrowDown"
	KeyArrowUp    = "ArrowUp"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyPageDown   = "PageDown"
	KeyPageUp     = "PageUp"
)

// Viewport is the visible size of the content frame.
type Viewport struct {
	Width  float64
	Height float64
}

// Tap is a tap position relative to the visible content frame.
type Tap struct {
	X float64
	Y float64
}

// InDocument builds a Tap from document coordinates of a frame scrolled to
// scrollTop.
func InDocument(x, y, scrollTop float64) Tap {
	return Tap{X: x, Y: y - scrollTop}
}

// ClassifyTap maps a tap to an intent. The top fifth of the frame holds the
// article controls (left 15% previous, right 20% next, the middle toggles
// the side menu on narrow viewports); below it the left third pages back
// and the rest pages forward.
func ClassifyTap(t Tap, vp Viewport, class ViewportClass) Intent {
	if t.Y < vp.Height/5 {
		switch {
		case t.X < vp.Width*0.15:
			return PrevArticle
		case t.X > vp.Width*0.80:
			return NextArticle
		case class == Narrow:
			return ToggleMenu
		default:
			return None
		}
	}
	if t.X < vp.Width/3 {
		return PageUp
	}
	return PageDown
}

// KeyIntent maps a key to a page intent. ok is false for keys that are not
// bound, which must keep their default behaviour.
func KeyIntent(key string) (intent Intent, ok bool) {
	switch key {
	case KeySpace, KeyArrowDown, KeyArrowRight, KeyPageDown:
		return PageDown, true
	case KeyArrowUp, KeyArrowLeft, KeyPageUp:
		return PageUp, true
	}
	return None, false
}

// IndicatorOffset places a scroll position indicator of the given size along
// a track of clientHeight, keeping reserve units free at the bottom.
func IndicatorOffset(scrollTop, clientHeight, scrollHeight, size, reserve float64) float64 {
	scrollable := scrollHeight - clientHeight
	ratio := 0.0
	if scrollable > 0 {
		ratio = scrollTop / scrollable
	}
	pos := min(ratio*(clientHeight-size), clientHeight-size-reserve)
	return max(0, pos)
}
