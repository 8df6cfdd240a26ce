package domain

// Paginate slices items into the requested page. The total page count
// is ceil(len(items)/pageSize) but never less than 1, so an empty
// collection yields exactly one empty page. The requested page is
// clamped into [1, totalPages] before slicing; callers that own a
// current-page value are expected to persist the clamp.
func Paginate[T any](items []T, page, pageSize int) (slice []T, totalPages int) {
	if pageSize < 1 {
		pageSize = 1
	}

	totalPages = (len(items) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	page = ClampPage(page, totalPages)

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	return items[start:end], totalPages
}

// ClampPage bounds a 1-based page number into [1, totalPages].
func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}
