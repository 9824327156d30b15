package domain

import "math"

// DefaultPageSize mirrors the storefront's historical listing window.
const DefaultPageSize = 2

// Page describes one window of a paginated listing.
type Page struct {
	Current     int
	Size        int
	TotalItems  int64
	HasNext     bool
	HasPrevious bool
	Next        int
	Previous    int
	Last        int
}

// NewPage computes pagination metadata. Requested pages below 1 become 1 and
// non-positive sizes fall back to DefaultPageSize.
func NewPage(requested, size int, total int64) Page {
	if requested < 1 {
		requested = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if total < 0 {
		total = 0
	}
	last := int((total + int64(size) - 1) / int64(size))
	next := requested
	if requested < math.MaxInt {
		next = requested + 1
	}
	return Page{
		Current:     requested,
		Size:        size,
		TotalItems:  total,
		HasNext:     requested < last,
		HasPrevious: requested > 1,
		Next:        next,
		Previous:    requested - 1,
		Last:        last,
	}
}

// PastEnd reports whether the page starts after the last item.
func (p Page) PastEnd() bool {
	return p.Current > p.Last
}

// Offset is the number of items preceding this page, saturating at
// math.MaxInt.
func (p Page) Offset() int {
	if p.Current <= 1 || p.Size <= 0 {
		return 0
	}
	if p.Current-1 > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return (p.Current - 1) * p.Size
}

// Limit is the maximum number of items on this page.
func (p Page) Limit() int {
	return p.Size
}
