package reader

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// block elements end the current paragraph
var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true, atom.Tr: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Blockquote: true, atom.Pre: true, atom.Section: true, atom.Article: true,
	atom.Figure: true, atom.Figcaption: true, atom.Hr: true, atom.Table: true,
}

var skipElements = map[atom.Atom]bool{
	atom.Head: true, atom.Script: true, atom.Style: true, atom.Noscript: true,
}

type document struct {
	paragraphs []string
	current    strings.Builder
	links      []string
	allowLinks bool
}

func (d *document) flush() {
	if p := strings.Join(strings.Fields(d.current.String()), " "); p != "" {
		d.paragraphs = append(d.paragraphs, p)
	}
	d.current.Reset()
}

func (d *document) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		d.current.WriteString(n.Data)
		return
	case html.ElementNode:
		if skipElements[n.DataAtom] {
			return
		}
		if n.DataAtom == atom.Img {
			if alt := attr(n, "alt"); alt != "" {
				d.current.WriteString(" [" + alt + "] ")
			}
			return
		}
	}

	block := n.Type == html.ElementNode && blockElements[n.DataAtom]
	if block {
		d.flush()
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.walk(c)
	}
	if n.Type == html.ElementNode && n.DataAtom == atom.A && d.allowLinks {
		if href := attr(n, "href"); href != "" && !strings.HasPrefix(href, "#") {
			d.links = append(d.links, href)
			fmt.Fprintf(&d.current, "[%d]", len(d.links))
		}
	}
	if block {
		d.flush()
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// Paragraphs extracts the text of an HTML document as paragraphs with
// whitespace collapsed. When allowLinks is set, each link is marked with a
// numbered reference and the targets are returned in order.
func Paragraphs(s string, allowLinks bool) ([]string, []string) {
	root, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return nil, nil
	}
	d := &document{allowLinks: allowLinks}
	d.walk(root)
	d.flush()
	return d.paragraphs, d.links
}

// Render lays out article HTML as lines no wider than width, with a blank
// line between paragraphs and the link references listed at the end.
func Render(s string, width int, allowLinks bool) []string {
	paragraphs, links := Paragraphs(s, allowLinks)

	var lines []string
	for i, p := range paragraphs {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, wrap(p, width)...)
	}
	if len(links) > 0 {
		lines = append(lines, "")
		for i, l := range links {
			lines = append(lines, wrap(fmt.Sprintf("[%d] %s", i+1, l), width)...)
		}
	}
	return lines
}

func wrap(p string, width int) []string {
	if width > 0 {
		p = wordwrap.String(p, width)
	}
	return strings.Split(p, "\n")
}
