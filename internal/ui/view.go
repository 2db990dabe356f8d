package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/metcalfc/digest/internal/navtree"
	"github.com/metcalfc/digest/internal/pager"
)

// Columns of the "[x]" box on book rows.
const (
	checkboxStart = 4
	checkboxEnd   = 7
)

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(m.statusLine())
	sb.WriteString("\n")
	sb.WriteString(m.panes())
	sb.WriteString("\n")
	sb.WriteString(m.footer())
	return sb.String()
}

func (m *Model) statusLine() string {
	title := "digest"
	if cur := m.sess.Cursor(); cur.Text != "" {
		title = cur.Text
	}

	flags := fmt.Sprintf("%3.0f%%  %.1fem", m.frame.vp.ScrollPercent()*100, m.settings.FontSize)
	if m.settings.AllowLinks {
		flags += "  links"
	}
	if m.settings.InkMode {
		flags += "  ink"
	}

	// Padding(0, 1) takes two columns.
	avail := max(0, m.width-2)
	room := max(0, avail-runewidth.StringWidth(flags)-1)
	line := runewidth.FillRight(runewidth.Truncate(title, room, "…"), room) + " " + flags
	return m.theme.status.Render(runewidth.Truncate(line, avail, ""))
}

func (m *Model) footer() string {
	if m.notice != "" {
		return m.theme.notice.Render(runewidth.Truncate(m.notice, m.width, "…"))
	}
	return m.theme.controls.Render(m.help.ShortHelpView(keys.ShortHelp()))
}

func (m *Model) panes() string {
	h := m.bodyHeight()
	switch {
	case m.confirm != nil:
		return lipgloss.Place(m.width, h, lipgloss.Center, lipgloss.Center, m.confirm.View())
	case m.menu.PopupVisible():
		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Render(m.help.FullHelpView(keys.FullHelp()))
		return lipgloss.Place(m.width, h, lipgloss.Center, lipgloss.Center, box)
	}

	if !m.menu.NavbarVisible() {
		return m.content(h)
	}
	if m.pager.Class() == pager.Narrow {
		return m.nav(m.width, h)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.nav(m.navWidth(), h),
		m.navSeparator(h),
		m.content(h),
	)
}

// nav draws the visible rows of the catalog panel.
func (m *Model) nav(width, h int) string {
	rows := m.tree.Rows()
	first := int(m.tree.ScrollTop())
	current := m.sess.Cursor().Src
	focused := m.navFocused()

	lines := make([]string, h)
	for i := range lines {
		index := first + i
		if index >= len(rows) {
			lines[i] = strings.Repeat(" ", width)
			continue
		}
		row := rows[index]
		text := runewidth.FillRight(runewidth.Truncate(rowText(row), width, "…"), width)

		style := m.theme.article
		switch {
		case row.Kind == navtree.DateRow:
			style = m.theme.date
		case row.Kind == navtree.BookRow:
			style = m.theme.book
		case row.Article.Src == current:
			style = m.theme.current
		}
		if focused && index == m.tree.Cursor() {
			style = style.Inherit(m.theme.cursor)
		}
		lines[i] = style.Render(text)
	}
	return strings.Join(lines, "\n")
}

func rowText(row navtree.Row) string {
	arrow := "▸"
	if row.Expanded {
		arrow = "▾"
	}
	switch row.Kind {
	case navtree.DateRow:
		return arrow + " " + row.Label
	case navtree.BookRow:
		box := "[ ]"
		if row.Selected {
			box = "[x]"
		}
		return "  " + arrow + " " + box + " " + row.Label
	default:
		return "      " + row.Label
	}
}

// navSeparator draws the column between the panels with the panel's scroll
// position on it.
func (m *Model) navSeparator(h int) string {
	pos := int(pager.IndicatorOffset(m.tree.ScrollTop(), float64(h), m.tree.ContentHeight(), 1, 0))
	scrollable := m.tree.ContentHeight() > float64(h)

	lines := make([]string, h)
	for i := range lines {
		if scrollable && i == pos {
			lines[i] = m.theme.indicator.Render("┃")
			continue
		}
		lines[i] = m.theme.separator.Render("│")
	}
	return strings.Join(lines, "\n")
}

// content draws the article pane and its position indicator.
func (m *Model) content(h int) string {
	cw := m.contentWidth()
	var pane string
	switch {
	case m.missing:
		pane = lipgloss.Place(cw, h, lipgloss.Center, lipgloss.Center,
			m.theme.missing.Render("Article not found"))
	case !m.hasBody && !m.loading:
		pane = lipgloss.Place(cw, h, lipgloss.Center, lipgloss.Center,
			m.theme.controls.Render("Select an article from the menu"))
	default:
		pane = lipgloss.NewStyle().Width(cw).Height(h).MaxHeight(h).Render(m.frame.vp.View())
	}

	pos := int(pager.IndicatorOffset(m.frame.ScrollTop(), float64(h), m.frame.ScrollHeight(), 1, 0))
	scrollable := m.frame.ScrollHeight() > float64(h)
	marks := make([]string, h)
	for i := range marks {
		marks[i] = " "
		if scrollable && i == pos {
			marks[i] = m.theme.indicator.Render("█")
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, pane, strings.Join(marks, "\n"))
}
