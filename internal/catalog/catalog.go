// Package catalog holds the date → book → article hierarchy of a digest and
// the linear traversal order used for previous/next navigation.
package catalog

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// Article is a single readable item. Src doubles as the content URL suffix.
type Article struct {
	Src  string `json:"src"`
	Text string `json:"text"`
}

// IsZero reports whether a is the empty article (no article open).
func (a Article) IsZero() bool {
	return a.Src == "" && a.Text == ""
}

// Valid reports whether a can be displayed and traversed.
func (a Article) Valid() bool {
	return a.Src != "" && a.Text != ""
}

// Book groups articles delivered together.
type Book struct {
	BookDir  string    `json:"bookDir"`
	Title    string    `json:"title"`
	Language string    `json:"language"`
	Articles []Article `json:"articles"`
}

// Valid reports whether b has at least one valid article.
func (b Book) Valid() bool {
	for _, a := range b.Articles {
		if a.Valid() {
			return true
		}
	}
	return false
}

// DayEntry groups the books delivered on one date.
type DayEntry struct {
	Date  string `json:"date"`
	Books []Book `json:"books"`
}

// Valid reports whether d has a label and at least one valid book.
func (d DayEntry) Valid() bool {
	if d.Date == "" {
		return false
	}
	for _, b := range d.Books {
		if b.Valid() {
			return true
		}
	}
	return false
}

// Catalog is the ordered list of days. Order is taken as provided.
type Catalog struct {
	Days []DayEntry
}

// New wraps days into a catalog.
func New(days []DayEntry) *Catalog {
	return &Catalog{Days: days}
}

// Parse decodes the server payload: a JSON array of day entries.
func Parse(data []byte) (*Catalog, error) {
	var days []DayEntry
	if err := json.Unmarshal(data, &days); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return New(days), nil
}

// Location identifies an article inside the catalog by indices into Days,
// Books and Articles.
type Location struct {
	Day     int
	Book    int
	Article int
}

// Walk calls fn for each valid article in traversal order until fn returns false.
func (c *Catalog) Walk(fn func(loc Location, book *Book, a Article) bool) {
	if c == nil {
		return
	}
	for i := range c.Days {
		day := &c.Days[i]
		if !day.Valid() {
			continue
		}
		for j := range day.Books {
			book := &day.Books[j]
			for k, a := range book.Articles {
				if !a.Valid() {
					continue
				}
				if !fn(Location{Day: i, Book: j, Article: k}, book, a) {
					return
				}
			}
		}
	}
}

// Articles returns the traversal order.
func (c *Catalog) Articles() []Article {
	var out []Article
	c.Walk(func(_ Location, _ *Book, a Article) bool {
		out = append(out, a)
		return true
	})
	return out
}

// Len returns the number of valid articles.
func (c *Catalog) Len() int {
	n := 0
	c.Walk(func(Location, *Book, Article) bool {
		n++
		return true
	})
	return n
}

// Lookup finds the first valid article with the given src.
func (c *Catalog) Lookup(src string) (Location, bool) {
	var (
		found Location
		ok    bool
	)
	if src == "" {
		return found, false
	}
	c.Walk(func(loc Location, _ *Book, a Article) bool {
		if a.Src == src {
			found, ok = loc, true
			return false
		}
		return true
	})
	return found, ok
}

// FindArticleLanguage returns the language of the book owning src, or "".
func (c *Catalog) FindArticleLanguage(src string) string {
	lang := ""
	c.Walk(func(_ Location, book *Book, a Article) bool {
		if a.Src == src {
			lang = book.Language
			return false
		}
		return true
	})
	return lang
}

// FindPrevious returns the article before cur in traversal order. An empty
// cur yields the first article. The first article, or a cur that is not in
// the catalog, yields the empty article.
func (c *Catalog) FindPrevious(cur Article) Article {
	var prev, first Article
	var result Article
	started := false
	c.Walk(func(_ Location, _ *Book, a Article) bool {
		if !started {
			first, started = a, true
		}
		if cur.Src == "" {
			return false
		}
		if a.Src == cur.Src {
			result = prev
			return false
		}
		prev = a
		return true
	})
	if cur.Src == "" {
		return first
	}
	return result
}

// FindNext returns the article after cur in traversal order. An empty cur
// yields the first article. The last article, or a cur that is not in the
// catalog, yields the empty article.
func (c *Catalog) FindNext(cur Article) Article {
	var result Article
	found := false
	c.Walk(func(_ Location, _ *Book, a Article) bool {
		if found || cur.Src == "" {
			result = a
			return false
		}
		if a.Src == cur.Src {
			found = true
		}
		return true
	})
	return result
}

// RemoveBooks drops every book whose BookDir is listed, then drops days left
// without books.
func (c *Catalog) RemoveBooks(bookDirs ...string) {
	if c == nil || len(bookDirs) == 0 {
		return
	}
	remove := make(map[string]struct{}, len(bookDirs))
	for _, dir := range bookDirs {
		remove[dir] = struct{}{}
	}

	days := c.Days[:0]
	for _, day := range c.Days {
		books := day.Books[:0]
		for _, b := range day.Books {
			if _, ok := remove[b.BookDir]; !ok {
				books = append(books, b)
			}
		}
		day.Books = books
		if len(day.Books) > 0 {
			days = append(days, day)
		}
	}
	c.Days = days
}
