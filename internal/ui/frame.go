package ui

import (
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/metcalfc/digest/internal/pager"
)

// contentFrame is the article pane. It measures in lines and columns and
// hands article loads to the model, which fetches them off the event loop.
type contentFrame struct {
	vp      viewport.Model
	pager   *pager.Controller
	pending string
}

func newContentFrame() *contentFrame {
	vp := viewport.New(80, 22)
	vp.MouseWheelEnabled = true
	return &contentFrame{vp: vp}
}

// Load queues src for fetching and forgets the extent of the previous
// article.
func (f *contentFrame) Load(src string) {
	f.pending = src
	if f.pager != nil {
		f.pager.Invalidate()
	}
}

func (f *contentFrame) takePending() string {
	src := f.pending
	f.pending = ""
	return src
}

func (f *contentFrame) ClientWidth() float64  { return float64(f.vp.Width) }
func (f *contentFrame) ScrollTop() float64    { return float64(f.vp.YOffset) }
func (f *contentFrame) ClientHeight() float64 { return float64(f.vp.Height) }

func (f *contentFrame) ScrollHeight() float64 {
	return float64(max(f.vp.TotalLineCount(), f.vp.Height))
}

func (f *contentFrame) SetScrollTop(v float64) {
	f.vp.SetYOffset(int(v))
}
