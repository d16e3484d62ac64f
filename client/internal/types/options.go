package types

import (
	"github.com/mazi76erX2/trac8-frontend/internal/listquery"
)

// ListOptions is the list contract shared by every resource adapter. Zero
// values mean "use the default".
type ListOptions struct {
	SortField   string
	SortMethod  string
	Page        int
	PageSize    int
	SearchQuery string
	// ID switches Get to a single record lookup. Paging and sorting are
	// then ignored.
	ID string
	// FilterModel is sent as JSON in filter_model by server-delegating
	// adapters. The reader adapter ignores it.
	FilterModel any
}

// Query converts the options to an emulator query.
func (o ListOptions) Query() listquery.Query {
	return listquery.Query{
		SortField:   o.SortField,
		SortMethod:  o.SortMethod,
		Page:        o.Page,
		PageSize:    o.PageSize,
		SearchQuery: o.SearchQuery,
		ID:          o.ID,
	}
}

// CountOptions narrows a count. Selection lists only apply to
// server-delegating adapters.
type CountOptions struct {
	SearchQuery    string
	SelectedIDs    []string
	NotSelectedIDs []string
	FilterModel    any
}
