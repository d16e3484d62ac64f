package devserver

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mazi76erX2/trac8-frontend/internal/listquery"
	"github.com/mazi76erX2/trac8-frontend/internal/record"
)

// defaultSortColumn orders server-side lists that name no column.
const defaultSortColumn = "id"

// listParams is a parsed collection request.
type listParams struct {
	query   listquery.Query
	paged   bool
	filters map[string]string
}

func parseInt(q url.Values, key string) (int, error) {
	s := q.Get(key)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: not a number: %q", key, s)
	}
	return n, nil
}

func parseListParams(q url.Values) (listParams, error) {
	p := listParams{query: listquery.Query{
		SortField:   q.Get("sort_column"),
		SortMethod:  q.Get("sort_method"),
		SearchQuery: q.Get("search_string"),
		ID:          q.Get("id"),
	}}
	var err error
	if p.query.PageSize, err = parseInt(q, "number_per_page"); err != nil {
		return p, err
	}
	if p.query.Page, err = parseInt(q, "page_number"); err != nil {
		return p, err
	}
	p.paged = q.Has("number_per_page") || q.Has("page_number")
	if p.filters, err = parseFilterModel(q.Get("filter_model")); err != nil {
		return p, err
	}
	return p, nil
}

// parseFilterModel reads a grid filter model: field name to either a plain
// value or an object with a "filter" member.
func parseFilterModel(s string) (map[string]string, error) {
	if s == "" {
		return nil, nil
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, fmt.Errorf("filter_model: %w", err)
	}
	out := make(map[string]string, len(raw))
	for field, v := range raw {
		if m, ok := v.(map[string]any); ok {
			v = m["filter"]
		}
		if v == nil {
			continue
		}
		out[field] = strings.ToLower(record.FromAny(v).Text())
	}
	return out, nil
}

// applyFilters keeps records whose field text contains each filter value,
// compared without regard to case.
func applyFilters(rs []record.Record, filters map[string]string) []record.Record {
	if len(filters) == 0 {
		return rs
	}
	out := make([]record.Record, 0, len(rs))
	for _, r := range rs {
		keep := true
		for field, want := range filters {
			v, ok := listquery.FieldValue(r, field)
			if !ok || !strings.Contains(strings.ToLower(v.Text()), want) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, r)
		}
	}
	return out
}

func splitIDs(s string) map[string]bool {
	if s == "" {
		return nil
	}
	out := map[string]bool{}
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			out[id] = true
		}
	}
	return out
}

// countRecords applies search, filter model and id selection.
func countRecords(rs []record.Record, q url.Values) (int, error) {
	filters, err := parseFilterModel(q.Get("filter_model"))
	if err != nil {
		return 0, err
	}
	matched := applyFilters(listquery.Filter(rs, q.Get("search_string")), filters)
	selected := splitIDs(q.Get("selected_ids"))
	excluded := splitIDs(q.Get("not_selected_ids"))

	n := 0
	for _, r := range matched {
		id, _ := r.ID()
		if selected != nil && !selected[id] {
			continue
		}
		if excluded[id] {
			continue
		}
		n++
	}
	return n, nil
}

// answerList runs a parsed request over a collection the way the production
// API does: id lookup, or filter and sort with an optional page window.
func answerList(rs []record.Record, p listParams) []record.Record {
	rs = applyFilters(rs, p.filters)
	if p.query.ID != "" || p.paged {
		return listquery.Run(rs, p.query, defaultSortColumn).Items
	}
	q := p.query.WithDefaults(defaultSortColumn)
	return listquery.Sort(listquery.Filter(rs, q.SearchQuery), q.SortField, q.Direction())
}
