package models

// Page is a 1-indexed pagination window.
type Page struct {
	Number  int
	PerPage int
}

// Offset is the number of rows skipped before this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}
