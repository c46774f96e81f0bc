// Package util holds generic containers and helpers shared by the grammar
// analysis packages and the server.
package util

import (
	"sort"
	"strings"
)

// SortBy returns a sorted copy of items using the given less function. The
// original slice is not modified.
func SortBy[E any](items []E, less func(l, r E) bool) []E {
	sorted := make([]E, len(items))
	copy(sorted, items)

	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})

	return sorted
}

// JoinStrings converts every element of items with conv and joins the results
// with sep.
func JoinStrings[E any](items []E, sep string, conv func(E) string) string {
	var sb strings.Builder
	for i := range items {
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(conv(items[i]))
	}
	return sb.String()
}
