package search

// Paginate returns items[(page-1)*pageSize : page*pageSize], clamped to the slice.
// Out-of-range pages yield an empty slice rather than an error.
func Paginate[T any](items []T, page, pageSize int) []T {
	if page < 1 || pageSize < 1 {
		return []T{}
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// TotalPages is ceil(n / pageSize)
func TotalPages(n, pageSize int) int {
	if pageSize < 1 || n <= 0 {
		return 0
	}
	return (n + pageSize - 1) / pageSize
}

// ClampPage pins page into [1, totalPages]; an empty result set still has page 1
func ClampPage(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}
