// Package navtree keeps the expand/collapse state of the catalog tree shown
// in the navigation panel, independent of how the panel is drawn.
package navtree

import (
	"github.com/metcalfc/digest/internal/catalog"
	"go.uber.org/zap"
)

// Expand levels accepted by Rebuild and ExpandCollapseAll.
const (
	LevelCollapsed = 0 // dates only
	LevelBooks     = 1 // dates and books
	LevelArticles  = 2 // everything
)

// DefaultOverlap is kept visible when paging the panel.
const DefaultOverlap = 40

// RowKind tells which level of the hierarchy a row shows.
type RowKind int

const (
	DateRow RowKind = iota
	BookRow
	ArticleRow
)

// NodeID identifies a date (Book < 0) or book node by catalog indices.
type NodeID struct {
	Day  int
	Book int
}

func dateID(day int) NodeID       { return NodeID{Day: day, Book: -1} }
func bookID(day, book int) NodeID { return NodeID{Day: day, Book: book} }

// Row is one visible line of the panel.
type Row struct {
	Kind     RowKind
	Loc      catalog.Location
	Label    string
	BookDir  string
	Article  catalog.Article
	Expanded bool
	Selected bool
	Top      float64
}

// Tree is the view-state of the navigation panel.
type Tree struct {
	cat      *catalog.Catalog
	expanded map[NodeID]bool
	selected map[string]bool

	rowHeight float64
	height    float64
	overlap   float64
	scrollTop float64
	cursor    int

	log *zap.Logger
}

// Option customises a Tree.
type Option func(*Tree)

// WithRowHeight sets the height of every row (1 for terminal cells).
func WithRowHeight(h float64) Option {
	return func(t *Tree) {
		if h > 0 {
			t.rowHeight = h
		}
	}
}

// WithOverlap sets the panel paging overlap.
func WithOverlap(overlap float64) Option {
	return func(t *Tree) {
		if overlap >= 0 {
			t.overlap = overlap
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(log *zap.Logger) Option {
	return func(t *Tree) {
		if log != nil {
			t.log = log
		}
	}
}

// New creates an empty tree.
func New(opts ...Option) *Tree {
	t := &Tree{
		expanded:  make(map[NodeID]bool),
		selected:  make(map[string]bool),
		rowHeight: 1,
		overlap:   DefaultOverlap,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Catalog returns the catalog the tree shows.
func (t *Tree) Catalog() *catalog.Catalog {
	return t.cat
}

// Rebuild discards all view-state and shows cat expanded to level.
func (t *Tree) Rebuild(cat *catalog.Catalog, level int) {
	t.cat = cat
	t.selected = make(map[string]bool)
	t.scrollTop = 0
	t.cursor = 0
	t.ExpandCollapseAll(level)
}

// ExpandCollapseAll opens dates iff level >= 1 and books iff level >= 2.
func (t *Tree) ExpandCollapseAll(level int) {
	t.expanded = make(map[NodeID]bool)
	if t.cat == nil {
		return
	}
	for i, day := range t.cat.Days {
		t.expanded[dateID(i)] = level >= LevelBooks
		for j := range day.Books {
			t.expanded[bookID(i, j)] = level >= LevelArticles
		}
	}
	t.clampCursor()
}

// DateExpanded reports the state of a date node.
func (t *Tree) DateExpanded(day int) bool {
	return t.expanded[dateID(day)]
}

// BookExpanded reports the state of a book node.
func (t *Tree) BookExpanded(day, book int) bool {
	return t.expanded[bookID(day, book)]
}

// ToggleDate shows or hides all books of a date together.
func (t *Tree) ToggleDate(day int) {
	id := dateID(day)
	t.expanded[id] = !t.expanded[id]
	t.clampCursor()
}

// ToggleBook shows or hides the articles of one book.
func (t *Tree) ToggleBook(day, book int) {
	id := bookID(day, book)
	t.expanded[id] = !t.expanded[id]
	t.clampCursor()
}

// Rows returns the visible rows in display order with their offsets.
func (t *Tree) Rows() []Row {
	if t.cat == nil {
		return nil
	}
	var rows []Row
	add := func(r Row) {
		r.Top = float64(len(rows)) * t.rowHeight
		rows = append(rows, r)
	}
	for i, day := range t.cat.Days {
		if !day.Valid() {
			continue
		}
		dayOpen := t.expanded[dateID(i)]
		add(Row{Kind: DateRow, Loc: catalog.Location{Day: i, Book: -1, Article: -1}, Label: day.Date, Expanded: dayOpen})
		if !dayOpen {
			continue
		}
		for j, book := range day.Books {
			if !book.Valid() {
				continue
			}
			bookOpen := t.expanded[bookID(i, j)]
			add(Row{
				Kind:     BookRow,
				Loc:      catalog.Location{Day: i, Book: j, Article: -1},
				Label:    bookLabel(book),
				BookDir:  book.BookDir,
				Expanded: bookOpen,
				Selected: t.selected[book.BookDir],
			})
			if !bookOpen {
				continue
			}
			for k, a := range book.Articles {
				if !a.Valid() {
					continue
				}
				add(Row{Kind: ArticleRow, Loc: catalog.Location{Day: i, Book: j, Article: k}, Label: a.Text, BookDir: book.BookDir, Article: a})
			}
		}
	}
	return rows
}

// Locate reveals the node of a, together with every book of its date, and
// scrolls the panel so the node sits in the middle. It reports whether a
// was found.
func (t *Tree) Locate(a catalog.Article) bool {
	if a.IsZero() || t.cat == nil {
		return false
	}
	loc, ok := t.cat.Lookup(a.Src)
	if !ok {
		return false
	}

	t.ExpandCollapseAll(LevelCollapsed)
	t.expanded[dateID(loc.Day)] = true
	t.expanded[bookID(loc.Day, loc.Book)] = true

	for i, row := range t.Rows() {
		if row.Kind == ArticleRow && row.Loc == loc {
			t.cursor = i
			t.ScrollToRow(i)
			return true
		}
	}
	return false
}

// Click performs the action of a row: articles are returned for opening,
// books and dates toggle.
func (t *Tree) Click(index int) (catalog.Article, bool) {
	rows := t.Rows()
	if index < 0 || index >= len(rows) {
		return catalog.Article{}, false
	}
	t.cursor = index
	row := rows[index]
	switch row.Kind {
	case ArticleRow:
		return row.Article, true
	case BookRow:
		t.ToggleBook(row.Loc.Day, row.Loc.Book)
	case DateRow:
		t.ToggleDate(row.Loc.Day)
	}
	return catalog.Article{}, false
}

// Activate clicks the row under the keyboard cursor.
func (t *Tree) Activate() (catalog.Article, bool) {
	return t.Click(t.cursor)
}

// RowAt returns the index of the row covering offset y of the panel's
// visible area.
func (t *Tree) RowAt(y float64) int {
	return int((y + t.scrollTop) / t.rowHeight)
}

func bookLabel(b catalog.Book) string {
	if b.Title == "" {
		return b.BookDir
	}
	return b.Title
}
