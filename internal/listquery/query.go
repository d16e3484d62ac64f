// Package listquery reproduces the server-side list contract (search, sort,
// pagination, count and id lookup) over a fully fetched collection.
//
// Resources whose endpoint can only return the whole table are wrapped in an
// Emulator so callers cannot tell them apart from server-paginated ones.
package listquery

import "strings"

const (
	// DefaultSortMethod applies when a query names no direction.
	DefaultSortMethod = "DESC"
	DefaultPage       = 1
	DefaultPageSize   = 10
)

// Direction is the normalized sort order.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "DESC"
	}
	return "ASC"
}

// Query is a caller's combined sort, search, pagination and lookup request.
// Zero values mean "use the default".
type Query struct {
	SortField   string
	SortMethod  string
	Page        int
	PageSize    int
	SearchQuery string
	ID          string
}

// WithDefaults fills absent or invalid attributes. Invalid values default
// rather than fail.
func (q Query) WithDefaults(defaultSortField string) Query {
	if q.SortField == "" {
		q.SortField = defaultSortField
	}
	q.SortMethod = strings.ToUpper(strings.TrimSpace(q.SortMethod))
	if q.SortMethod == "" {
		q.SortMethod = DefaultSortMethod
	}
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	return q
}

// Direction reports the sort order named by SortMethod, compared without
// regard to case. Only DESC sorts descending; an empty method is DESC.
func (q Query) Direction() Direction {
	return ParseDirection(q.SortMethod)
}

// ParseDirection maps a sort method to a Direction.
func ParseDirection(method string) Direction {
	m := strings.TrimSpace(method)
	if m == "" || strings.EqualFold(m, "DESC") {
		return Descending
	}
	return Ascending
}

// Window returns the [start, end) range of a collection of n records that
// the query's page covers. Pages past the end yield start == end == n. The
// page count is checked before multiplying so huge pages cannot overflow.
func (q Query) Window(n int) (start, end int) {
	q = q.WithDefaults("")
	pages := n / q.PageSize
	if n%q.PageSize != 0 {
		pages++
	}
	if q.Page-1 >= pages {
		return n, n
	}
	start = (q.Page - 1) * q.PageSize
	return start, start + min(q.PageSize, n-start)
}
