package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mazi76erX2/trac8-frontend/client/internal/types"
	"github.com/mazi76erX2/trac8-frontend/internal/listquery"
	"github.com/mazi76erX2/trac8-frontend/internal/record"
)

// Lister is the read contract every resource adapter satisfies, whether the
// server or the client does the filtering.
type Lister interface {
	All(ctx context.Context, opts types.ListOptions) (*types.ListResponse, error)
	Get(ctx context.Context, opts types.ListOptions) (*types.ListResponse, error)
	Count(ctx context.Context, opts types.CountOptions) (*types.CountResponse, error)
}

// CrudAdapter talks to a resource that sorts, filters, pages and counts on
// the server.
type CrudAdapter struct {
	conn Conn
	name string
	base string
}

// NewCrudAdapter returns the adapter for the resource mounted at base.
func NewCrudAdapter(conn Conn, name, base string) *CrudAdapter {
	return &CrudAdapter{conn: conn, name: name, base: base}
}

// Name is the resource name, e.g. "item".
func (a *CrudAdapter) Name() string { return a.name }

// Base is the resource path, e.g. "/item".
func (a *CrudAdapter) Base() string { return a.base }

func sortMethod(m string) string {
	m = strings.ToUpper(strings.TrimSpace(m))
	if m == "" {
		return listquery.DefaultSortMethod
	}
	return m
}

func setFilterModel(q url.Values, model any) error {
	if model == nil {
		return nil
	}
	b, err := json.Marshal(model)
	if err != nil {
		return fmt.Errorf("encode filter model: %w", err)
	}
	q.Set("filter_model", string(b))
	return nil
}

// All fetches every matching record, sorted by the server.
func (a *CrudAdapter) All(ctx context.Context, opts types.ListOptions) (*types.ListResponse, error) {
	q := url.Values{}
	if opts.SortField != "" {
		q.Set("sort_column", opts.SortField)
	}
	q.Set("sort_method", sortMethod(opts.SortMethod))
	if opts.SearchQuery != "" {
		q.Set("search_string", opts.SearchQuery)
	}
	if err := setFilterModel(q, opts.FilterModel); err != nil {
		return nil, err
	}
	rs, err := a.conn.getRecords(ctx, a.base, q, "list "+a.name)
	if err != nil {
		return nil, err
	}
	return &types.ListResponse{Data: rs}, nil
}

// Get fetches one page, or the record named by opts.ID.
func (a *CrudAdapter) Get(ctx context.Context, opts types.ListOptions) (*types.ListResponse, error) {
	q := url.Values{}
	if opts.ID != "" {
		q.Set("id", opts.ID)
		rs, err := a.conn.getRecords(ctx, a.base, q, "get "+a.name)
		if err != nil {
			return nil, err
		}
		return &types.ListResponse{Data: rs}, nil
	}

	page, size := opts.Page, opts.PageSize
	if page < 1 {
		page = listquery.DefaultPage
	}
	if size < 1 {
		size = listquery.DefaultPageSize
	}
	if opts.SortField != "" {
		q.Set("sort_column", opts.SortField)
	}
	q.Set("sort_method", sortMethod(opts.SortMethod))
	q.Set("number_per_page", strconv.Itoa(size))
	q.Set("page_number", strconv.Itoa(page))
	if opts.SearchQuery != "" {
		q.Set("search_string", opts.SearchQuery)
	}
	if err := setFilterModel(q, opts.FilterModel); err != nil {
		return nil, err
	}
	rs, err := a.conn.getRecords(ctx, a.base, q, "page "+a.name)
	if err != nil {
		return nil, err
	}
	return &types.ListResponse{Data: rs}, nil
}

// Count asks the server how many records match. Empty id lists are left
// out of the query.
func (a *CrudAdapter) Count(ctx context.Context, opts types.CountOptions) (*types.CountResponse, error) {
	q := url.Values{}
	if opts.SearchQuery != "" {
		q.Set("search_string", opts.SearchQuery)
	}
	if len(opts.SelectedIDs) > 0 {
		q.Set("selected_ids", strings.Join(opts.SelectedIDs, ","))
	}
	if len(opts.NotSelectedIDs) > 0 {
		q.Set("not_selected_ids", strings.Join(opts.NotSelectedIDs, ","))
	}
	if err := setFilterModel(q, opts.FilterModel); err != nil {
		return nil, err
	}
	data, err := a.conn.call(ctx, http.MethodGet, a.base+"/count", q, nil, "count "+a.name)
	if err != nil {
		return nil, err
	}
	return &types.CountResponse{Data: countText(data)}, nil
}

// countText accepts a bare number, a JSON string or a { data } object.
func countText(data []byte) string {
	v, err := decodeValue(data, "count")
	if err != nil {
		return strings.TrimSpace(string(data))
	}
	if obj, ok := v.AsObject(); ok {
		if d, ok := obj.Get("data"); ok {
			return d.Text()
		}
	}
	return v.Text()
}

// NextID returns the next value of the resource's id sequence.
func (a *CrudAdapter) NextID(ctx context.Context) (record.Value, error) {
	return a.conn.callValue(ctx, http.MethodGet, a.base+"/next_val", nil, "next id "+a.name)
}

// Create stores a new record and returns the server's answer.
func (a *CrudAdapter) Create(ctx context.Context, r record.Record) (record.Value, error) {
	return a.conn.callValue(ctx, http.MethodPost, a.base+"/create", r, "create "+a.name)
}

// Update replaces a record.
func (a *CrudAdapter) Update(ctx context.Context, r record.Record) (record.Value, error) {
	return a.conn.callValue(ctx, http.MethodPut, a.base, r, "update "+a.name)
}

// Bulk stores several records in one call.
func (a *CrudAdapter) Bulk(ctx context.Context, rs []record.Record) (record.Value, error) {
	if rs == nil {
		rs = []record.Record{}
	}
	return a.conn.callValue(ctx, http.MethodPost, a.base+"/bulk", rs, "bulk "+a.name)
}

// Delete removes the record with id.
func (a *CrudAdapter) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("delete %s: empty id", a.name)
	}
	_, err := a.conn.call(ctx, http.MethodDelete, a.base+"/remove/"+url.PathEscape(id), nil, nil, "delete "+a.name)
	return err
}
