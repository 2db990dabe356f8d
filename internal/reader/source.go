// Package reader provides the content sources a digest is read from and the
// conversion of article HTML into a document a terminal can page through.
package reader

import (
	"context"
	"errors"

	"github.com/metcalfc/digest/internal/catalog"
	"github.com/metcalfc/digest/internal/state"
)

// ErrNotFound is returned by Source.Article when the article does not exist.
var ErrNotFound = errors.New("article not found")

// StatusError carries a status text other than "ok" returned by a source.
type StatusError struct {
	Status string
}

func (e *StatusError) Error() string {
	return e.Status
}

// Push target types.
const (
	PushBook    = "book"
	PushArticle = "article"
)

// PushRequest asks the source to send a book or a single article to the
// user's device.
type PushRequest struct {
	Type     string
	Src      string
	Title    string
	Language string
}

// Source is where a catalog and its articles come from.
type Source interface {
	Catalog(ctx context.Context) (*catalog.Catalog, error)
	Article(ctx context.Context, src string) (string, error)
	DeleteBooks(ctx context.Context, bookDirs []string) error
	Push(ctx context.Context, req PushRequest) error
	SaveSettings(ctx context.Context, settings state.Settings) error
}
