package uifilter

// PageWindow selects one page of a sorted result.
type PageWindow struct {
	Index int
	Size  int
}

// Offset returns the index of the first record of the page.
func (p PageWindow) Offset() int {
	return p.Index * p.Size
}

// ResolvePagination converts the offset and page size of filter into a PageWindow.
//
// It returns false when the page size is zero; the caller then fetches the full (sorted) result.
// The page index is offset / pageSize rounded down, so an offset that is not a multiple of the
// page size yields the page containing it, not a window starting exactly at offset.
func ResolvePagination(filter Filter) (PageWindow, bool) {
	if filter.PageSize() <= 0 {
		return PageWindow{}, false
	}

	return PageWindow{
		Index: filter.Offset() / filter.PageSize(),
		Size:  filter.PageSize(),
	}, true
}
