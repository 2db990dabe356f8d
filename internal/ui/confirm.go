package ui

import (
	"github.com/charmbracelet/huh"

	"github.com/metcalfc/digest/internal/navtree"
)

// newDeleteConfirm asks whether the books of req should be deleted.
func newDeleteConfirm(req navtree.DeleteRequest, confirmed *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Delete these books?").
				Description(req.Prompt()).
				Affirmative("Delete").
				Negative("Keep").
				Value(confirmed),
		),
	).WithShowHelp(false)
}
