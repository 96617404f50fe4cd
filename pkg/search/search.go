// Package search holds the list-view filter contract shared by every
// storage backend: a case-insensitive substring match on one field, where
// an empty query matches everything.
package search

import "strings"

// Query param names bound to the searched field of each entity kind.
const (
	ManufacturerParam = "name"
	CarParam          = "model"
	DriverParam       = "username"
)

// Matches reports whether value contains query, ignoring case.
func Matches(value, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(query))
}

// Filter returns the items whose field matches query, keeping their order.
// The input slice is never modified.
func Filter[T any](items []T, query string, field func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if Matches(field(item), query) {
			out = append(out, item)
		}
	}
	return out
}
