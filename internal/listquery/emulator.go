package listquery

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mazi76erX2/trac8-frontend/internal/record"
)

// ErrFetchFailed marks every failure to retrieve the backing collection.
var ErrFetchFailed = errors.New("collection fetch failed")

// FetchError wraps the cause of a failed collection fetch.
type FetchError struct {
	Resource string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s collection: %v", e.Resource, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrFetchFailed) match any FetchError.
func (e *FetchError) Is(target error) bool { return target == ErrFetchFailed }

// Fetcher retrieves the complete collection for one resource.
type Fetcher interface {
	FetchCollection(ctx context.Context) ([]record.Record, error)
}

// FetchFunc adapts a function to Fetcher.
type FetchFunc func(ctx context.Context) ([]record.Record, error)

func (f FetchFunc) FetchCollection(ctx context.Context) ([]record.Record, error) { return f(ctx) }

// Emulator answers list queries for a resource whose endpoint only returns
// the whole collection. Every call fetches a fresh snapshot; nothing is
// cached and no state is shared between calls.
type Emulator struct {
	resource         string
	defaultSortField string
	fetcher          Fetcher
}

// New returns an Emulator for resource. defaultSortField is used when a
// query names no sort field.
func New(resource, defaultSortField string, f Fetcher) *Emulator {
	return &Emulator{resource: resource, defaultSortField: defaultSortField, fetcher: f}
}

// Resource returns the resource name used in errors and metrics.
func (e *Emulator) Resource() string { return e.resource }

func (e *Emulator) snapshot(ctx context.Context, op string) ([]record.Record, error) {
	queriesTotal.WithLabelValues(e.resource, op).Inc()
	rs, err := e.fetcher.FetchCollection(ctx)
	if err != nil {
		fetchFailuresTotal.WithLabelValues(e.resource).Inc()
		return nil, &FetchError{Resource: e.resource, Err: err}
	}
	recordsScanned.WithLabelValues(e.resource).Add(float64(len(rs)))
	return rs, nil
}

// FetchAll returns every record matching q.SearchQuery, sorted by
// q.SortField in q's direction. Pagination and id are ignored.
func (e *Emulator) FetchAll(ctx context.Context, q Query) ([]record.Record, error) {
	q = q.WithDefaults(e.defaultSortField)
	rs, err := e.snapshot(ctx, "all")
	if err != nil {
		return nil, err
	}
	out := Sort(Filter(rs, q.SearchQuery), q.SortField, q.Direction())
	log.Debug().
		Str("resource", e.resource).
		Str("sort_field", q.SortField).
		Str("sort_method", q.SortMethod).
		Int("fetched", len(rs)).
		Int("matched", len(out)).
		Msg("emulated list")
	return out, nil
}

// FetchPage returns one page of the FetchAll sequence together with the
// number of matching records, or the single record named by q.ID (still
// subject to q.SearchQuery) with page, size and sort ignored.
func (e *Emulator) FetchPage(ctx context.Context, q Query) (Page, error) {
	rs, err := e.snapshot(ctx, "page")
	if err != nil {
		return Page{}, err
	}
	p := Run(rs, q, e.defaultSortField)
	log.Debug().
		Str("resource", e.resource).
		Str("id", q.ID).
		Int("page", q.Page).
		Int("page_size", q.PageSize).
		Int("items", len(p.Items)).
		Int("total_matching", p.TotalMatching).
		Msg("emulated page")
	return p, nil
}

// CountMatching counts the records matching q.SearchQuery.
func (e *Emulator) CountMatching(ctx context.Context, q Query) (int, error) {
	rs, err := e.snapshot(ctx, "count")
	if err != nil {
		return 0, err
	}
	return CountMatches(rs, q.SearchQuery), nil
}
