package shared

// DefaultLimit is the page size used when a caller does not ask for one
const DefaultLimit = 100

// Window is limit/offset pagination
type Window struct {
	Limit  int
	Offset int
}

// NewWindow builds a window, falling back to DefaultLimit and capping at maxLimit
func NewWindow(limit, offset, maxLimit int) Window {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return Window{Limit: limit, Offset: offset}
}

// Normalize returns the window with defaults applied
func (w Window) Normalize() Window {
	return NewWindow(w.Limit, w.Offset, 0)
}

// Page is one window of a larger result
type Page[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// NewPage creates a page for the given window
func NewPage[T any](items []T, total int64, w Window) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:  items,
		Total:  total,
		Limit:  w.Limit,
		Offset: w.Offset,
	}
}

// HasNext reports whether rows exist beyond this page
func (p Page[T]) HasNext() bool {
	return int64(p.Offset+p.Limit) < p.Total
}

// HasPrevious reports whether rows exist before this page
func (p Page[T]) HasPrevious() bool {
	return p.Offset > 0
}

// MapPage converts the items of a page, keeping its window
func MapPage[T, U any](p Page[T], fn func(T) U) Page[U] {
	items := make([]U, len(p.Items))
	for i, item := range p.Items {
		items[i] = fn(item)
	}
	return Page[U]{Items: items, Total: p.Total, Limit: p.Limit, Offset: p.Offset}
}
