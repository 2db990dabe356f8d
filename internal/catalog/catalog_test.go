package catalog

import (
	"fmt"
	"reflect"
	"testing"

	"pgregory.net/rapid"
)

func art(src string) Article {
	return Article{Src: src, Text: "title " + src}
}

func twoBooks() *Catalog {
	return New([]DayEntry{
		{
			Date: "2024-05-01",
			Books: []Book{
				{BookDir: "a", Title: "Book A", Language: "en", Articles: []Article{art("A1"), art("A2")}},
				{BookDir: "b", Title: "Book B", Language: "fr", Articles: []Article{art("B1"), art("B2")}},
			},
		},
	})
}

func TestFindNextAcrossBooks(t *testing.T) {
	c := twoBooks()

	if got := c.FindNext(art("A2")); got != art("B1") {
		t.Errorf("FindNext(A2) = %v, want B1", got)
	}
	if got := c.FindNext(art("B2")); !got.IsZero() {
		t.Errorf("FindNext(B2) = %v, want empty", got)
	}
	if got := c.FindPrevious(art("B1")); got != art("A2") {
		t.Errorf("FindPrevious(B1) = %v, want A2", got)
	}
	if got := c.FindPrevious(art("A1")); !got.IsZero() {
		t.Errorf("FindPrevious(A1) = %v, want empty", got)
	}
}

func TestEmptyCatalog(t *testing.T) {
	for _, c := range []*Catalog{New(nil), nil} {
		if got := c.FindPrevious(Article{}); !got.IsZero() {
			t.Errorf("FindPrevious(empty) = %v, want empty", got)
		}
		if got := c.FindNext(Article{}); !got.IsZero() {
			t.Errorf("FindNext(empty) = %v, want empty", got)
		}
	}
}

func TestEmptyCursorYieldsFirst(t *testing.T) {
	c := twoBooks()
	if got := c.FindPrevious(Article{}); got != art("A1") {
		t.Errorf("FindPrevious(empty) = %v, want A1", got)
	}
	if got := c.FindNext(Article{}); got != art("A1") {
		t.Errorf("FindNext(empty) = %v, want A1", got)
	}
}

func TestUnknownCursor(t *testing.T) {
	c := twoBooks()
	if got := c.FindNext(art("zz")); !got.IsZero() {
		t.Errorf("FindNext(unknown) = %v, want empty", got)
	}
	if got := c.FindPrevious(art("zz")); !got.IsZero() {
		t.Errorf("FindPrevious(unknown) = %v, want empty", got)
	}
}

func TestInvalidNodesSkipped(t *testing.T) {
	c := New([]DayEntry{
		{Date: "", Books: []Book{{BookDir: "x", Articles: []Article{art("X1")}}}},
		{Date: "d1", Books: []Book{
			{BookDir: "empty"},
			{BookDir: "a", Articles: []Article{{Src: "nosrc-text"}, {Text: "no src"}, art("A1")}},
		}},
		{Date: "d2"},
		{Date: "d3", Books: []Book{{BookDir: "b", Articles: []Article{art("B1"), {Src: "B2"}}}}},
	})

	want := []Article{art("A1"), art("B1")}
	if got := c.Articles(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Articles() = %v, want %v", got, want)
	}
	if got := c.FindNext(Article{}); got != art("A1") {
		t.Errorf("first = %v, want A1", got)
	}
	if got := c.FindNext(art("B1")); !got.IsZero() {
		t.Errorf("FindNext(B1) = %v, want empty (B2 is invalid)", got)
	}
	if got := c.FindNext(art("X1")); !got.IsZero() {
		t.Errorf("FindNext(X1) = %v, want empty (undated day)", got)
	}
}

func TestFindArticleLanguage(t *testing.T) {
	c := twoBooks()
	tests := []struct {
		src  string
		want string
	}{
		{"A1", "en"},
		{"B2", "fr"},
		{"missing", ""},
	}
	for _, tt := range tests {
		if got := c.FindArticleLanguage(tt.src); got != tt.want {
			t.Errorf("FindArticleLanguage(%q) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestLookup(t *testing.T) {
	c := twoBooks()
	loc, ok := c.Lookup("B2")
	if !ok {
		t.Fatal("Lookup(B2) not found")
	}
	if loc != (Location{Day: 0, Book: 1, Article: 1}) {
		t.Errorf("Lookup(B2) = %+v", loc)
	}
	if _, ok := c.Lookup(""); ok {
		t.Error("Lookup(\"\") should fail")
	}
}

func TestRemoveBooks(t *testing.T) {
	c := New([]DayEntry{
		{Date: "d1", Books: []Book{
			{BookDir: "a", Articles: []Article{art("A1")}},
			{BookDir: "b", Articles: []Article{art("B1")}},
		}},
		{Date: "d2", Books: []Book{{BookDir: "c", Articles: []Article{art("C1")}}}},
	})

	c.RemoveBooks("a", "c")
	if len(c.Days) != 1 {
		t.Fatalf("expected 1 day left, got %d", len(c.Days))
	}
	if c.Days[0].Date != "d1" || len(c.Days[0].Books) != 1 || c.Days[0].Books[0].BookDir != "b" {
		t.Errorf("unexpected catalog after removal: %+v", c.Days)
	}

	snapshot := fmt.Sprintf("%+v", c.Days)
	c.RemoveBooks("a", "c")
	if got := fmt.Sprintf("%+v", c.Days); got != snapshot {
		t.Errorf("RemoveBooks not idempotent:\n%s\n%s", snapshot, got)
	}
}

func TestParse(t *testing.T) {
	payload := `[{"date":"2024-05-01","books":[{"bookDir":"2024-05-01/news","title":"News","language":"de",
		"articles":[{"src":"2024-05-01/news/1.html","text":"Headline"}]}]}]`

	c, err := Parse([]byte(payload))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}
	if got := c.FindArticleLanguage("2024-05-01/news/1.html"); got != "de" {
		t.Errorf("language = %q, want de", got)
	}

	if _, err := Parse([]byte("{not json")); err == nil {
		t.Error("expected error for malformed payload")
	}
}

// genCatalog draws a catalog with unique srcs and a sprinkling of invalid
// days, books and articles.
func genCatalog(t *rapid.T) *Catalog {
	seq := 0
	days := make([]DayEntry, rapid.IntRange(0, 4).Draw(t, "days"))
	for i := range days {
		if rapid.IntRange(0, 5).Draw(t, "undated") > 0 {
			days[i].Date = fmt.Sprintf("day-%d", i)
		}
		books := make([]Book, rapid.IntRange(0, 3).Draw(t, "books"))
		for j := range books {
			books[j].BookDir = fmt.Sprintf("book-%d-%d", i, j)
			articles := make([]Article, rapid.IntRange(0, 4).Draw(t, "articles"))
			for k := range articles {
				seq++
				a := art(fmt.Sprintf("s%d", seq))
				switch rapid.IntRange(0, 6).Draw(t, "defect") {
				case 0:
					a.Src = ""
				case 1:
					a.Text = ""
				}
				articles[k] = a
			}
			books[j].Articles = articles
		}
		days[i].Books = books
	}
	return New(days)
}

func TestTraversalRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := genCatalog(t)
		order := c.Articles()

		for i, a := range order {
			if !a.Valid() {
				t.Fatalf("invalid article %v in traversal order", a)
			}
			prev := c.FindPrevious(a)
			if i == 0 {
				if !prev.IsZero() {
					t.Fatalf("FindPrevious(first) = %v, want empty", prev)
				}
			} else if got := c.FindNext(prev); got != a {
				t.Fatalf("FindNext(FindPrevious(%v)) = %v", a, got)
			}

			next := c.FindNext(a)
			if i == len(order)-1 {
				if !next.IsZero() {
					t.Fatalf("FindNext(last) = %v, want empty", next)
				}
			} else if got := c.FindPrevious(next); got != a {
				t.Fatalf("FindPrevious(FindNext(%v)) = %v", a, got)
			}
		}

		first := c.FindNext(Article{})
		if len(order) == 0 {
			if !first.IsZero() || !c.FindPrevious(Article{}).IsZero() {
				t.Fatalf("empty catalog should yield empty first article")
			}
		} else if first != order[0] || c.FindPrevious(Article{}) != order[0] {
			t.Fatalf("first article mismatch: %v vs %v", first, order[0])
		}
	})
}

func TestRemoveBooksProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := genCatalog(t)
		var dirs []string
		for _, d := range c.Days {
			for _, b := range d.Books {
				if rapid.Bool().Draw(t, "remove") {
					dirs = append(dirs, b.BookDir)
				}
			}
		}

		c.RemoveBooks(dirs...)
		once := fmt.Sprintf("%+v", c.Days)
		c.RemoveBooks(dirs...)
		if twice := fmt.Sprintf("%+v", c.Days); once != twice {
			t.Fatalf("RemoveBooks not idempotent")
		}

		removed := make(map[string]bool, len(dirs))
		for _, d := range dirs {
			removed[d] = true
		}
		for _, d := range c.Days {
			if len(d.Books) == 0 {
				t.Fatalf("day %q left without books", d.Date)
			}
			for _, b := range d.Books {
				if removed[b.BookDir] {
					t.Fatalf("book %q survived removal", b.BookDir)
				}
			}
		}
	})
}
