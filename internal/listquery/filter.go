package listquery

import (
	"strings"

	"github.com/mazi76erX2/trac8-frontend/internal/record"
)

// Matches reports whether the canonical serialization of r contains search,
// ignoring case. Field names and nested values take part in the match. An
// empty search matches everything.
func Matches(r record.Record, search string) bool {
	if search == "" {
		return true
	}
	return matchesFolded(r, strings.ToLower(search))
}

func matchesFolded(r record.Record, folded string) bool {
	return strings.Contains(strings.ToLower(r.String()), folded)
}

// Filter returns the records matching search, in input order. The result is
// always a fresh slice.
func Filter(records []record.Record, search string) []record.Record {
	out := make([]record.Record, 0, len(records))
	if search == "" {
		return append(out, records...)
	}
	folded := strings.ToLower(search)
	for _, r := range records {
		if matchesFolded(r, folded) {
			out = append(out, r)
		}
	}
	return out
}

// CountMatches is len(Filter(records, search)) without building the slice.
func CountMatches(records []record.Record, search string) int {
	if search == "" {
		return len(records)
	}
	folded := strings.ToLower(search)
	n := 0
	for _, r := range records {
		if matchesFolded(r, folded) {
			n++
		}
	}
	return n
}

// Paginate returns the window of pageSize records starting at
// (page-1)*pageSize. Out of range pages yield an empty slice.
func Paginate(records []record.Record, page, pageSize int) []record.Record {
	start, end := Query{Page: page, PageSize: pageSize}.Window(len(records))
	out := make([]record.Record, end-start)
	copy(out, records[start:end])
	return out
}

// Lookup finds the record whose id, rendered as text, equals id.
func Lookup(records []record.Record, id string) (record.Record, bool) {
	id = strings.TrimSpace(id)
	for _, r := range records {
		if rid, ok := r.ID(); ok && rid == id {
			return r, true
		}
	}
	return record.Record{}, false
}

// Page is one window of a filtered, sorted collection.
type Page struct {
	Items []record.Record
	// TotalMatching counts every record that passed the search filter,
	// not just the ones in Items.
	TotalMatching int
}

// Run applies q to a full collection: id lookup when q.ID is set, otherwise
// filter, sort and paginate.
func Run(records []record.Record, q Query, defaultSortField string) Page {
	q = q.WithDefaults(defaultSortField)
	if q.ID != "" {
		r, ok := Lookup(records, q.ID)
		if !ok || !Matches(r, q.SearchQuery) {
			return Page{Items: []record.Record{}}
		}
		return Page{Items: []record.Record{r}, TotalMatching: 1}
	}
	sorted := Sort(Filter(records, q.SearchQuery), q.SortField, q.Direction())
	return Page{
		Items:         Paginate(sorted, q.Page, q.PageSize),
		TotalMatching: len(sorted),
	}
}
