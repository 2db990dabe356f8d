package reader

import (
	"encoding/xml"
	"path"
	"strings"

	"github.com/taylorskalyo/goreader/epub"
)

const ncxMediaType = "application/x-dtbncx+xml"

// NCX XML structures for parsing toc.ncx
type ncx struct {
	NavMap struct {
		NavPoints []navPoint `xml:"navPoint"`
	} `xml:"navMap"`
}

type navPoint struct {
	Label struct {
		Text string `xml:"text"`
	} `xml:"navLabel"`
	Content struct {
		Src string `xml:"src,attr"`
	} `xml:"content"`
	Children []navPoint `xml:"navPoint"`
}

// sectionTitles maps spine hrefs to their NCX titles.
type sectionTitles map[string]string

// readSectionTitles reads the NCX of book. Books without a readable NCX
// give an empty map.
func readSectionTitles(book *epub.Rootfile) sectionTitles {
	titles := make(sectionTitles)
	for _, item := range book.Manifest.Items {
		if item.MediaType != ncxMediaType {
			continue
		}
		rc, err := item.Open()
		if err != nil {
			return titles
		}
		defer rc.Close()

		var doc ncx
		if err := xml.NewDecoder(rc).Decode(&doc); err == nil {
			titles.add(doc.NavMap.NavPoints)
		}
		return titles
	}
	return titles
}

// add records each point under its href, the href without fragment and its
// base name. The first title wins.
func (t sectionTitles) add(points []navPoint) {
	for _, np := range points {
		title := strings.TrimSpace(np.Label.Text)
		href := np.Content.Src
		bare, _, _ := strings.Cut(href, "#")
		for _, key := range []string{href, bare, path.Base(bare)} {
			if _, ok := t[key]; !ok && title != "" {
				t[key] = title
			}
		}
		t.add(np.Children)
	}
}

// lookup finds the title of a spine href.
func (t sectionTitles) lookup(href string) (string, bool) {
	if title, ok := t[href]; ok {
		return title, true
	}
	title, ok := t[path.Base(href)]
	return title, ok
}
