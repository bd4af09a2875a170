// Package paginate splits ordered result sets into numbered pages.
package paginate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrEmptyPage is returned for page numbers outside 1..NumPages.
var ErrEmptyPage = errors.New("page contains no results")

// Paginator describes Count items split into pages of PerPage.
type Paginator struct {
	Count   int
	PerPage int
}

// Page is one slice of the result set.
type Page struct {
	Number      int
	NumPages    int
	Offset      int
	Limit       int
	HasNext     bool
	HasPrevious bool
}

// New returns a paginator. A non-positive perPage is treated as 1.
func New(count, perPage int) Paginator {
	if perPage < 1 {
		perPage = 1
	}
	if count < 0 {
		count = 0
	}
	return Paginator{Count: count, PerPage: perPage}
}

// NumPages is the page count. An empty result set still has one (empty)
// first page.
func (p Paginator) NumPages() int {
	if p.Count <= 0 || p.PerPage <= 0 {
		return 1
	}
	return (p.Count + p.PerPage - 1) / p.PerPage
}

// Page returns page n, or ErrEmptyPage when n is out of range.
func (p Paginator) Page(n int) (Page, error) {
	num := p.NumPages()
	if n < 1 || n > num {
		return Page{}, fmt.Errorf("page %d of %d: %w", n, num, ErrEmptyPage)
	}
	return Page{
		Number:      n,
		NumPages:    num,
		Offset:      (n - 1) * p.PerPage,
		Limit:       p.PerPage,
		HasNext:     n < num,
		HasPrevious: n > 1,
	}, nil
}

// PageOrLast returns page n, falling back to the last page when n is out
// of range.
func (p Paginator) PageOrLast(n int) Page {
	page, err := p.Page(n)
	if err != nil {
		page, _ = p.Page(p.NumPages())
	}
	return page
}

// ParsePage returns the page number in raw, or 1 when raw is missing or not
// an integer.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return n
}
