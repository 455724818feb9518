package catalog

import "fmt"

// Summary is the derived "showing N of M" count for a filtered list.
type Summary struct {
	Shown int `json:"shown"`
	Total int `json:"total"`
}

// Summarize compares a filtered list with the candidate list it was derived from.
func Summarize[T any](shown, candidates []T) Summary {
	return Summary{Shown: len(shown), Total: len(candidates)}
}

// Filtered reports whether any filter removed entries.
func (s Summary) Filtered() bool { return s.Shown < s.Total }

func (s Summary) String() string {
	return fmt.Sprintf("showing %d of %d", s.Shown, s.Total)
}

// Page is one page of a paginated list.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
	Total      int `json:"total"`
}

// Paginate returns the requested 1-based page. Out-of-range pages are clamped and a non-positive
// size returns everything on one page.
func Paginate[T any](items []T, page, size int) Page[T] {
	total := len(items)
	if size <= 0 {
		size = total
	}
	pages := 1
	if size > 0 && total > 0 {
		pages = (total + size - 1) / size
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}
	if start > total {
		start = total
	}
	return Page[T]{
		Items:      items[start:end],
		Page:       page,
		PageSize:   size,
		TotalPages: pages,
		Total:      total,
	}
}
