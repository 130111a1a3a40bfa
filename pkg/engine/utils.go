package engine

func GetNumberOfPages(total int, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// ClampPage maps page onto [1, numberOfPages]; it returns 1 when there are no pages.
func ClampPage(page int, numberOfPages int) int {
	if page < 1 || numberOfPages == 0 {
		return 1
	}
	if page > numberOfPages {
		return numberOfPages
	}
	return page
}

func SliceSearchResults(results []SearchResult, currentPage int) []SearchResult {
	total := len(results)
	if total == 0 {
		return []SearchResult{}
	}
	page := ClampPage(currentPage, GetNumberOfPages(total, PageSize))
	low := (page - 1) * PageSize
	high := low + PageSize
	if high > total {
		high = total
	}
	return results[low:high]
}
