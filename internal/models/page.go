package models

// Page is an offset window derived from the from/size query pair.
type Page struct {
	Offset int
	Limit  int
}

// NewPage keeps the page-index semantics of from/size: the window starts at
// the beginning of the page that contains from.
func NewPage(from, size int) Page {
	if size <= 0 {
		return Page{}
	}
	return Page{Offset: (from / size) * size, Limit: size}
}

// Unbounded reports whether the page has no limit.
func (p Page) Unbounded() bool {
	return p.Limit <= 0
}
