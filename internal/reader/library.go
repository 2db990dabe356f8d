package reader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/taylorskalyo/goreader/epub"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/metcalfc/digest/internal/catalog"
	"github.com/metcalfc/digest/internal/state"
)

const (
	epubExt    = ".epub"
	dateLayout = "2006-01-02"
)

const pushUnsupported = "push is not available for a local library"

// Library serves a directory of EPUB files as a catalog. Each file is a
// book, each spine item an article, and books are grouped into days by
// modification date.
type Library struct {
	dir string
	log *zap.Logger
}

// LibraryOption customises a Library.
type LibraryOption func(*Library)

// WithLibraryLogger attaches a logger.
func WithLibraryLogger(log *zap.Logger) LibraryOption {
	return func(l *Library) {
		if log != nil {
			l.log = log
		}
	}
}

// NewLibrary creates a library over dir.
func NewLibrary(dir string, opts ...LibraryOption) *Library {
	l := &Library{dir: dir, log: zap.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Dir returns the library directory.
func (l *Library) Dir() string {
	return l.dir
}

type bookFile struct {
	name    string
	modTime time.Time
}

func (l *Library) books() ([]bookFile, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("unable to read library: %w", err)
	}
	var files []bookFile
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), epubExt) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, bookFile{name: e.Name(), modTime: info.ModTime()})
	}
	sort.SliceStable(files, func(i, j int) bool {
		if !files[i].modTime.Equal(files[j].modTime) {
			return files[i].modTime.After(files[j].modTime)
		}
		return files[i].name < files[j].name
	})
	return files, nil
}

// Catalog scans the directory. Files that cannot be opened are logged and
// left out.
func (l *Library) Catalog(ctx context.Context) (*catalog.Catalog, error) {
	files, err := l.books()
	if err != nil {
		return nil, err
	}

	var days []catalog.DayEntry
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		book, err := l.readBook(f.name)
		if err != nil {
			l.log.Warn("Skipping book", zap.String("file", f.name), zap.Error(err))
			continue
		}
		date := f.modTime.Format(dateLayout)
		if n := len(days); n > 0 && days[n-1].Date == date {
			days[n-1].Books = append(days[n-1].Books, book)
			continue
		}
		days = append(days, catalog.DayEntry{Date: date, Books: []catalog.Book{book}})
	}
	l.log.Debug("Library scanned", zap.String("dir", l.dir), zap.Int("books", len(files)))
	return catalog.New(days), nil
}

func (l *Library) readBook(name string) (catalog.Book, error) {
	filename := filepath.Join(l.dir, name)
	rc, err := epub.OpenReader(filename)
	if err != nil {
		return catalog.Book{}, fmt.Errorf("failed to open epub: %w", err)
	}
	defer rc.Close()

	if len(rc.Rootfiles) == 0 {
		return catalog.Book{}, fmt.Errorf("no rootfiles found in epub")
	}
	root := rc.Rootfiles[0]
	titles := readSectionTitles(root)

	book := catalog.Book{
		BookDir:  name,
		Title:    strings.TrimSpace(root.Title),
		Language: strings.TrimSpace(root.Language),
	}
	for i, ref := range root.Spine.Itemrefs {
		if ref.Item == nil || ref.Item.HREF == "" {
			continue
		}
		title, ok := titles.lookup(ref.Item.HREF)
		if !ok {
			title = fmt.Sprintf("Section %d", i+1)
		}
		book.Articles = append(book.Articles, catalog.Article{
			Src:  name + "/" + ref.Item.HREF,
			Text: title,
		})
	}
	return book, nil
}

// splitSrc separates the book file from the item href of an article src.
func (l *Library) splitSrc(src string) (string, string, bool) {
	name, href, ok := strings.Cut(src, "/")
	if !ok || name == "" || href == "" || name != filepath.Base(name) ||
		!strings.EqualFold(filepath.Ext(name), epubExt) {
		return "", "", false
	}
	return name, href, true
}

// Article returns the HTML of a spine item.
func (l *Library) Article(ctx context.Context, src string) (string, error) {
	name, href, ok := l.splitSrc(src)
	if !ok {
		return "", ErrNotFound
	}
	filename := filepath.Join(l.dir, name)
	if _, err := os.Stat(filename); errors.Is(err, fs.ErrNotExist) {
		return "", ErrNotFound
	}
	rc, err := epub.OpenReader(filename)
	if err != nil {
		return "", fmt.Errorf("failed to open epub: %w", err)
	}
	defer rc.Close()

	for _, root := range rc.Rootfiles {
		for _, item := range root.Manifest.Items {
			if item.HREF != href {
				continue
			}
			r, err := item.Open()
			if err != nil {
				return "", fmt.Errorf("unable to open %s: %w", href, err)
			}
			defer r.Close()
			data, err := io.ReadAll(r)
			if err != nil {
				return "", fmt.Errorf("unable to read %s: %w", href, err)
			}
			return string(data), nil
		}
	}
	return "", ErrNotFound
}

// DeleteBooks removes the book files. Every file is attempted and all
// failures are reported together.
func (l *Library) DeleteBooks(ctx context.Context, bookDirs []string) error {
	var err error
	for _, name := range bookDirs {
		if name != filepath.Base(name) {
			err = multierr.Append(err, fmt.Errorf("invalid book %q", name))
			continue
		}
		if rerr := os.Remove(filepath.Join(l.dir, name)); rerr != nil {
			err = multierr.Append(err, rerr)
		}
	}
	return err
}

// Push is not available for a local library.
func (l *Library) Push(ctx context.Context, req PushRequest) error {
	return &StatusError{Status: pushUnsupported}
}

// SaveSettings does nothing, settings are only kept locally.
func (l *Library) SaveSettings(ctx context.Context, settings state.Settings) error {
	return nil
}
