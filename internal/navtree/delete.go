package navtree

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ErrNothingSelected is returned by DeleteBooks when no book is checked.
var ErrNothingSelected = errors.New("select at least one book")

// maxPromptTitles limits how many titles the confirmation lists.
const maxPromptTitles = 5

// Deleter removes books from the content store.
type Deleter interface {
	DeleteBooks(ctx context.Context, bookDirs []string) error
}

// Confirm asks the user to approve prompt.
type Confirm func(prompt string) bool

// ToggleSelected flips the checkbox of a book.
func (t *Tree) ToggleSelected(bookDir string) {
	if bookDir == "" {
		return
	}
	if t.selected[bookDir] {
		delete(t.selected, bookDir)
		return
	}
	t.selected[bookDir] = true
}

// ToggleCursorSelected flips the checkbox of the book row under the cursor.
func (t *Tree) ToggleCursorSelected() {
	rows := t.Rows()
	if t.cursor < 0 || t.cursor >= len(rows) {
		return
	}
	if row := rows[t.cursor]; row.Kind == BookRow {
		t.ToggleSelected(row.BookDir)
	}
}

// Selected returns checked book directories in catalog order, with titles.
func (t *Tree) Selected() (dirs, titles []string) {
	if t.cat == nil {
		return nil, nil
	}
	for _, day := range t.cat.Days {
		for _, b := range day.Books {
			if t.selected[b.BookDir] {
				dirs = append(dirs, b.BookDir)
				titles = append(titles, bookLabel(b))
			}
		}
	}
	return dirs, titles
}

// DeletePrompt builds the confirmation text for titles, listing the first
// few only.
func DeletePrompt(titles []string) string {
	shown := titles
	if len(shown) > maxPromptTitles {
		shown = shown[:maxPromptTitles]
	}
	prompt := strings.Join(shown, "\n")
	if len(titles) > maxPromptTitles {
		prompt += "\n..."
	}
	return prompt
}

// ApplyDeletion removes bookDirs from the catalog after the store confirmed
// the deletion, then redraws the tree with dates and books open.
func (t *Tree) ApplyDeletion(bookDirs []string) {
	if t.cat == nil {
		return
	}
	t.cat.RemoveBooks(bookDirs...)
	t.Rebuild(t.cat, LevelBooks)
}

// DeleteRequest is a deletion of the checked books awaiting the content
// store.
type DeleteRequest struct {
	Dirs   []string
	Titles []string
}

// Prompt returns the confirmation text of r.
func (r DeleteRequest) Prompt() string {
	return DeletePrompt(r.Titles)
}

// PrepareDelete snapshots the checked books. Front-ends that confirm and
// delete asynchronously call it first and FinishDelete once the store
// answered.
func (t *Tree) PrepareDelete() (DeleteRequest, error) {
	dirs, titles := t.Selected()
	if len(dirs) == 0 {
		return DeleteRequest{}, ErrNothingSelected
	}
	return DeleteRequest{Dirs: dirs, Titles: titles}, nil
}

// FinishDelete applies the outcome of the store's deletion. The catalog and
// tree only change when err is nil.
func (t *Tree) FinishDelete(req DeleteRequest, err error) error {
	if err != nil {
		t.log.Warn("Unable to delete books", zap.Strings("books", req.Dirs), zap.Error(err))
		return fmt.Errorf("unable to delete books: %w", err)
	}
	t.log.Info("Deleted books", zap.Strings("books", req.Dirs))
	t.ApplyDeletion(req.Dirs)
	return nil
}

// DeleteBooks deletes the checked books. Unless fast is set, confirm must
// approve first. The catalog and tree are only changed once del succeeds.
func (t *Tree) DeleteBooks(ctx context.Context, del Deleter, confirm Confirm, fast bool) (bool, error) {
	if t.cat == nil || len(t.cat.Days) == 0 {
		return false, nil
	}
	req, err := t.PrepareDelete()
	if err != nil {
		return false, err
	}
	if !fast && (confirm == nil || !confirm(req.Prompt())) {
		return false, nil
	}
	if err := t.FinishDelete(req, del.DeleteBooks(ctx, req.Dirs)); err != nil {
		return false, err
	}
	return true, nil
}
