package models

import "strings"

// BookFilter narrows an already-fetched book list. Empty fields match
// everything.
type BookFilter struct {
	Query      string // substring match on title, author, description
	Category   string // category name or ID, exact (case-insensitive for names)
	Difficulty string
	Language   string
}

// Matches reports whether the book satisfies every set field of the filter.
func (f BookFilter) Matches(b Book) bool {
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(b.Title), q) &&
			!strings.Contains(strings.ToLower(b.Author), q) &&
			!strings.Contains(strings.ToLower(b.Description), q) {
			return false
		}
	}
	if f.Category != "" {
		if !strings.EqualFold(b.Category.Name, f.Category) && b.Category.ID != f.Category {
			return false
		}
	}
	if f.Difficulty != "" && !strings.EqualFold(b.Difficulty, f.Difficulty) {
		return false
	}
	if f.Language != "" && !strings.EqualFold(b.Language, f.Language) {
		return false
	}
	return true
}

// FilterBooks returns the books matching the filter, preserving order.
func FilterBooks(books []Book, f BookFilter) []Book {
	var out []Book
	for _, b := range books {
		if f.Matches(b) {
			out = append(out, b)
		}
	}
	return out
}
