package navtree

// SetHeight records the visible height of the panel.
func (t *Tree) SetHeight(h float64) {
	t.height = max(0, h)
	t.scrollTop = min(t.scrollTop, t.maxScroll())
}

// Height returns the visible height of the panel.
func (t *Tree) Height() float64 {
	return t.height
}

// ScrollTop returns the panel scroll offset.
func (t *Tree) ScrollTop() float64 {
	return t.scrollTop
}

// ContentHeight returns the height of all visible rows.
func (t *Tree) ContentHeight() float64 {
	return float64(len(t.Rows())) * t.rowHeight
}

func (t *Tree) maxScroll() float64 {
	return max(0, t.ContentHeight()-t.height)
}

// ScrollToRow scrolls so that row index is vertically centred, as far as
// the content allows.
func (t *Tree) ScrollToRow(index int) {
	top := float64(index) * t.rowHeight
	pos := max(0, top-t.height/2+t.rowHeight/2)
	t.scrollTop = min(pos, t.maxScroll())
}

// NavPageUp scrolls the panel one page back.
func (t *Tree) NavPageUp() {
	if t.height <= 0 {
		return
	}
	t.scrollTop = max(t.scrollTop-t.pageStep(), 0)
}

// NavPageDown scrolls the panel one page forward.
func (t *Tree) NavPageDown() {
	if t.height <= 0 {
		return
	}
	t.scrollTop = min(t.scrollTop+t.pageStep(), t.maxScroll())
}

func (t *Tree) pageStep() float64 {
	return max(t.rowHeight, t.height-t.overlap)
}

// Visible reports whether row index lies fully inside the visible area.
func (t *Tree) Visible(index int) bool {
	top := float64(index) * t.rowHeight
	return top >= t.scrollTop && top+t.rowHeight <= t.scrollTop+t.height
}

// Cursor returns the keyboard cursor row.
func (t *Tree) Cursor() int {
	return t.cursor
}

// MoveUp moves the keyboard cursor one row up.
func (t *Tree) MoveUp() {
	if t.cursor > 0 {
		t.cursor--
	}
	t.ensureVisible()
}

// MoveDown moves the keyboard cursor one row down.
func (t *Tree) MoveDown() {
	if t.cursor < len(t.Rows())-1 {
		t.cursor++
	}
	t.ensureVisible()
}

func (t *Tree) ensureVisible() {
	if t.height <= 0 {
		return
	}
	top := float64(t.cursor) * t.rowHeight
	switch {
	case top < t.scrollTop:
		t.scrollTop = top
	case top+t.rowHeight > t.scrollTop+t.height:
		t.scrollTop = top + t.rowHeight - t.height
	}
}

func (t *Tree) clampCursor() {
	n := len(t.Rows())
	if t.cursor >= n {
		t.cursor = max(0, n-1)
	}
	t.scrollTop = min(t.scrollTop, t.maxScroll())
}
