// Package session owns the reading cursor and ties the catalog, the content
// frame and the navigation tree together.
package session

import (
	"go.uber.org/zap"

	"github.com/metcalfc/digest/internal/catalog"
)

// Frame shows article content.
type Frame interface {
	Load(src string)
}

// Locator reveals the tree node of an article.
type Locator interface {
	Locate(a catalog.Article) bool
}

// Session is the mutable reading state of one catalog.
type Session struct {
	cat    *catalog.Catalog
	cursor catalog.Article
	frame  Frame
	tree   Locator
	menu   *Menu
	onOpen func(catalog.Article)
	log    *zap.Logger
}

// Option customises a Session.
type Option func(*Session)

// WithMenu lets opening an article close the side menu.
func WithMenu(m *Menu) Option {
	return func(s *Session) {
		s.menu = m
	}
}

// WithOnOpen registers fn to be called after every article opened.
func WithOnOpen(fn func(catalog.Article)) Option {
	return func(s *Session) {
		s.onOpen = fn
	}
}

// WithLogger attaches a logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates a session with an empty cursor. tree may be nil.
func New(cat *catalog.Catalog, frame Frame, tree Locator, opts ...Option) *Session {
	s := &Session{
		cat:   cat,
		frame: frame,
		tree:  tree,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the current catalog.
func (s *Session) Catalog() *catalog.Catalog {
	return s.cat
}

// SetCatalog replaces the catalog after a reload. The cursor is kept.
func (s *Session) SetCatalog(cat *catalog.Catalog) {
	s.cat = cat
}

// Cursor returns the open article, or the empty article.
func (s *Session) Cursor() catalog.Article {
	return s.cursor
}

// OpenArticle loads a into the frame, makes it the cursor and closes the
// side menu. An article without src is ignored.
func (s *Session) OpenArticle(a catalog.Article) bool {
	if a.Src == "" {
		return false
	}
	s.log.Debug("Opening article", zap.String("src", a.Src))
	s.frame.Load(a.Src)
	s.cursor = a
	if s.menu != nil {
		s.menu.Close()
	}
	if s.onOpen != nil {
		s.onOpen(a)
	}
	return true
}

// OpenPrevious opens the article before the cursor.
func (s *Session) OpenPrevious() {
	s.OpenArticle(s.cat.FindPrevious(s.cursor))
	s.locate()
}

// OpenNext opens the article after the cursor.
func (s *Session) OpenNext() {
	s.OpenArticle(s.cat.FindNext(s.cursor))
	s.locate()
}

func (s *Session) locate() {
	if s.tree != nil {
		s.tree.Locate(s.cursor)
	}
}

// Restore reopens a saved cursor if its article is still in the catalog.
func (s *Session) Restore(a catalog.Article) bool {
	if a.IsZero() {
		return false
	}
	if _, ok := s.cat.Lookup(a.Src); !ok {
		s.log.Debug("Saved article is gone", zap.String("src", a.Src))
		return false
	}
	s.OpenArticle(a)
	s.locate()
	return true
}
