package models

import "errors"

var ErrInvalidPage = errors.New("invalid page")

// Page is one slice of a paginated list. Number is 1-based.
type Page[T any] struct {
	Items    []T `json:"items"`
	Number   int `json:"number"`
	NumPages int `json:"num_pages"`
	Total    int `json:"total"`
}

func (p Page[T]) IsPaginated() bool   { return p.NumPages > 1 }
func (p Page[T]) HasPrevious() bool   { return p.Number > 1 }
func (p Page[T]) HasNext() bool       { return p.Number < p.NumPages }
func (p Page[T]) PreviousNumber() int { return p.Number - 1 }
func (p Page[T]) NextNumber() int     { return p.Number + 1 }

// Paginate cuts items into pages of perPage and returns page number.
// An empty list still has page 1; any other out-of-range number is
// ErrInvalidPage. perPage <= 0 disables pagination.
func Paginate[T any](items []T, number, perPage int) (Page[T], error) {
	total := len(items)
	if perPage <= 0 {
		perPage = total
	}
	numPages := 1
	if total > 0 && perPage > 0 {
		numPages = (total + perPage - 1) / perPage
	}
	if number < 1 || number > numPages {
		return Page[T]{}, ErrInvalidPage
	}

	start := (number - 1) * perPage
	end := start + perPage
	if end > total {
		end = total
	}

	return Page[T]{
		Items:    items[start:end],
		Number:   number,
		NumPages: numPages,
		Total:    total,
	}, nil
}
