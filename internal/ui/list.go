package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/sciencehub/shx/internal/models"
)

var _ list.Item = bookItem{}

// bookItem wraps [models.Book] to implement [list.Item].
type bookItem struct {
	book     models.Book
	favorite bool
}

func (i bookItem) FilterValue() string { return i.book.Title + " " + i.book.Author }

func (i bookItem) Title() string {
	if i.favorite {
		return "♥ " + i.book.Title
	}
	return i.book.Title
}

func (i bookItem) Description() string {
	desc := i.book.Author
	if i.book.Category.Name != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.book.Category.Name)
	}
	if i.book.Difficulty != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.book.Difficulty)
	}
	return desc
}
