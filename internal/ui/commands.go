package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/metcalfc/digest/internal/catalog"
	"github.com/metcalfc/digest/internal/navtree"
	"github.com/metcalfc/digest/internal/reader"
	"github.com/metcalfc/digest/internal/session"
	"github.com/metcalfc/digest/internal/state"
)

type catalogMsg struct {
	cat *catalog.Catalog
	err error
}

type articleMsg struct {
	src  string
	body string
	err  error
}

type deletedMsg struct {
	req navtree.DeleteRequest
	err error
}

type pushedMsg struct {
	notice session.Notice
}

type settingsSavedMsg struct {
	err error
}

type libraryChangedMsg struct{}

// request runs fn with the configured timeout.
func (m *Model) request(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	timeout := m.opts.Timeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return fn(ctx)
	}
}

func (m *Model) loadCatalog() tea.Cmd {
	src := m.src
	return m.request(func(ctx context.Context) tea.Msg {
		cat, err := src.Catalog(ctx)
		return catalogMsg{cat: cat, err: err}
	})
}

func (m *Model) fetchArticle(articleSrc string) tea.Cmd {
	src := m.src
	return m.request(func(ctx context.Context) tea.Msg {
		body, err := src.Article(ctx, articleSrc)
		return articleMsg{src: articleSrc, body: body, err: err}
	})
}

func (m *Model) deleteCmd(req navtree.DeleteRequest) tea.Cmd {
	if !m.inflight.Begin(session.OpDelete) {
		m.notice = "A deletion is already in progress"
		return nil
	}
	src := m.src
	return m.request(func(ctx context.Context) tea.Msg {
		return deletedMsg{req: req, err: src.DeleteBooks(ctx, req.Dirs)}
	})
}

func (m *Model) pushCmd(req reader.PushRequest) tea.Cmd {
	src := m.src
	return m.request(func(ctx context.Context) tea.Msg {
		return pushedMsg{notice: session.PushResult(req, src.Push(ctx, req))}
	})
}

func (m *Model) saveSettingsCmd(settings state.Settings) tea.Cmd {
	src := m.src
	return m.request(func(ctx context.Context) tea.Msg {
		return settingsSavedMsg{err: src.SaveSettings(ctx, settings)}
	})
}

// waitForChange waits for the next library change.
func (m *Model) waitForChange() tea.Cmd {
	changes := m.opts.Changes
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return libraryChangedMsg{}
	}
}
