// Package pagination clamps page numbers and maps navigation commands for
// the paged list views.
package pagination

import (
	"strconv"
	"strings"
)

// Page describes one resolved page of a list.
type Page struct {
	// Number is the clamped 1-based page number.
	Number int
	// Total is the number of pages. It is 0 for an empty list.
	Total int
	// Offset is the index of the first item on the page.
	Offset int
	// Size is the page size the page was resolved with.
	Size int
}

// Resolve clamps a requested page number against the item count and returns
// the page along with the offset of its first item. A requested page below 1
// snaps to the first page and one past the end snaps to the last.
func Resolve(totalItems, requested, pageSize int) Page {
	if totalItems <= 0 || pageSize <= 0 {
		return Page{Size: pageSize}
	}

	total := (totalItems + pageSize - 1) / pageSize

	number := requested
	if number < 1 {
		number = 1
	}
	if number > total {
		number = total
	}

	return Page{
		Number: number,
		Total:  total,
		Offset: (number - 1) * pageSize,
		Size:   pageSize,
	}
}

// Slice resolves a page against an in-memory list and returns the items on
// it along with the resolved page.
func Slice[T any](items []T, requested, pageSize int) ([]T, Page) {
	page := Resolve(len(items), requested, pageSize)
	if page.Total == 0 {
		return nil, page
	}

	end := page.Offset + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[page.Offset:end], page
}

// Apply interprets a navigation command against the current page. It returns
// the new page number and whether the input was a navigation command at all.
// Unrecognized input is returned unchanged for the caller to handle, such as
// a numeric selection.
func Apply(command string, current, total int) (int, bool) {
	cmd := strings.ToLower(strings.TrimSpace(command))

	switch cmd {
	case "p":
		if current > 1 {
			return current - 1, true
		}
		return current, true
	case "n":
		if current < total {
			return current + 1, true
		}
		return current, true
	case "f":
		return 1, true
	case "l":
		return total, true
	}

	if rest, ok := strings.CutPrefix(cmd, "g"); ok {
		if target, err := strconv.Atoi(strings.TrimSpace(rest)); err == nil {
			if target >= 1 && target <= total {
				return target, true
			}
			return current, true
		}
	}

	return current, false
}
