package listquery

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mazi76erX2/trac8-frontend/internal/record"
)

func mustList(t *testing.T, js string) []record.Record {
	t.Helper()
	rs, err := record.DecodeList([]byte(js))
	require.NoError(t, err)
	return rs
}

func ids(rs []record.Record) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i], _ = r.ID()
	}
	return out
}

func names(rs []record.Record) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		v, _ := r.Get("name")
		out[i] = v.Text()
	}
	return out
}

// staticFetcher serves a fixed collection and counts fetches.
type staticFetcher struct {
	records []record.Record
	err     error
	calls   int32
}

func (f *staticFetcher) FetchCollection(context.Context) ([]record.Record, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

const docks = `[{"id":1,"name":"Dock A"},{"id":2,"name":"Dock B"},{"id":3,"name":"Warehouse"}]`

func TestEmulator_ExampleScenario(t *testing.T) {
	ctx := context.Background()
	e := New("reader", "name", &staticFetcher{records: mustList(t, docks)})

	all, err := e.FetchAll(ctx, Query{SortField: "name", SortMethod: "ASC"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Dock A", "Dock B", "Warehouse"}, names(all))

	n, err := e.CountMatching(ctx, Query{SearchQuery: "dock"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	page, err := e.FetchPage(ctx, Query{SortField: "name", SortMethod: "ASC", Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"Warehouse"}, names(page.Items))
	assert.Equal(t, 3, page.TotalMatching)
}

func TestEmulator_DefaultsToDescendingOnDefaultField(t *testing.T) {
	e := New("reader", "name", &staticFetcher{records: mustList(t, docks)})
	all, err := e.FetchAll(context.Background(), Query{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Warehouse", "Dock B", "Dock A"}, names(all))
}

func TestSearch_CaseInsensitiveSubstring(t *testing.T) {
	rs := mustList(t, `[
		{"id":1,"name":"North Gate","location":{"name":"Yard"}},
		{"id":2,"name":"south gate"},
		{"id":3,"name":"Office","notes":"near the GATE house"},
		{"id":4,"name":"Store"}]`)

	for _, q := range []string{"gate", "GATE", "GaTe"} {
		assert.Equal(t, []string{"1", "2", "3"}, ids(Filter(rs, q)), "query %q", q)
	}
	// nested values and field names take part in the match
	assert.Equal(t, []string{"1"}, ids(Filter(rs, "yard")))
	assert.Equal(t, []string{"3"}, ids(Filter(rs, "notes")))
	assert.Empty(t, Filter(rs, "nothing-like-this"))
	assert.Len(t, Filter(rs, ""), 4)
}

func TestSearch_MatchesSerializedDates(t *testing.T) {
	rs := mustList(t, `[{"id":1,"seen":"2024-05-01T08:00:00.000Z"},{"id":2,"seen":"2023-01-01T00:00:00.000Z"}]`)
	assert.Equal(t, []string{"1"}, ids(Filter(rs, "2024-05")))
}

func TestSort_Direction(t *testing.T) {
	rs := mustList(t, `[{"id":1,"rssi":-40},{"id":2,"rssi":-70},{"id":3,"rssi":-55},{"id":4,"rssi":-40}]`)

	asc := Sort(rs, "rssi", ParseDirection("asc"))
	assert.Equal(t, []string{"2", "3", "1", "4"}, ids(asc))

	desc := Sort(rs, "rssi", ParseDirection("DeSc"))
	assert.Equal(t, []string{"1", "4", "3", "2"}, ids(desc), "ties keep input order when descending")

	// input untouched
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(rs))
}

func TestSort_MissingValuesFirstAscending(t *testing.T) {
	rs := mustList(t, `[{"id":1,"name":"b"},{"id":2},{"id":3,"name":null},{"id":4,"name":"a"}]`)

	assert.Equal(t, []string{"2", "3", "4", "1"}, ids(Sort(rs, "name", Ascending)))
	assert.Equal(t, []string{"1", "4", "2", "3"}, ids(Sort(rs, "name", Descending)))
}

func TestSort_MixedKinds(t *testing.T) {
	rs := mustList(t, `[
		{"id":"s","v":"text"},
		{"id":"n","v":3},
		{"id":"b","v":true},
		{"id":"t","v":"2024-01-01T00:00:00.000Z"},
		{"id":"o","v":{"x":1}},
		{"id":"m"}]`)
	assert.Equal(t, []string{"m", "b", "n", "t", "s", "o"}, ids(Sort(rs, "v", Ascending)))
}

func TestSort_DottedPath(t *testing.T) {
	rs := mustList(t, `[{"id":1,"location":{"name":"C"}},{"id":2,"location":{"name":"A"}},{"id":3,"location":null}]`)
	assert.Equal(t, []string{"3", "2", "1"}, ids(Sort(rs, "location.name", Ascending)))

	v, ok := FieldValue(mustList(t, `[{"tags":["x","y"]}]`)[0], "tags.1")
	require.True(t, ok)
	assert.Equal(t, "y", v.Text())
}

func TestCompare_TimesChronological(t *testing.T) {
	rs := mustList(t, `[{"at":"2024-01-02T00:00:00.000Z"},{"at":"Mon, 01 Jan 2024 00:00:00 GMT"}]`)
	a, _ := rs[0].Get("at")
	b, _ := rs[1].Get("at")
	assert.Equal(t, 1, compareKeys(sortKey{v: a, present: true}, sortKey{v: b, present: true}))
	assert.Equal(t, -1, compareKeys(sortKey{}, sortKey{v: b, present: true}))
}

func TestCountPageAllConsistency(t *testing.T) {
	ctx := context.Background()
	rs := make([]record.Record, 0, 23)
	for i := 1; i <= 23; i++ {
		zone := "north"
		if i%3 == 0 {
			zone = "south"
		}
		rs = append(rs, record.FromMap(map[string]any{"id": i, "name": fmt.Sprintf("reader-%02d", i), "zone": zone}))
	}
	e := New("reader", "name", &staticFetcher{records: rs})

	for _, q := range []string{"", "south", "NORTH", "reader-1", "absent"} {
		all, err := e.FetchAll(ctx, Query{SearchQuery: q})
		require.NoError(t, err)
		n, err := e.CountMatching(ctx, Query{SearchQuery: q})
		require.NoError(t, err)
		page, err := e.FetchPage(ctx, Query{SearchQuery: q, Page: 1, PageSize: len(rs)})
		require.NoError(t, err)

		assert.Equal(t, len(all), n, "query %q", q)
		assert.Equal(t, n, page.TotalMatching, "query %q", q)
		assert.Equal(t, ids(all), ids(page.Items), "query %q", q)
	}
}

func TestPaginationCompleteness(t *testing.T) {
	ctx := context.Background()
	rs := make([]record.Record, 0, 17)
	for i := 1; i <= 17; i++ {
		rs = append(rs, record.FromMap(map[string]any{"id": i, "name": fmt.Sprintf("r%d", i%5)}))
	}
	e := New("reader", "name", &staticFetcher{records: rs})
	q := Query{SortField: "name", SortMethod: "ASC"}

	all, err := e.FetchAll(ctx, q)
	require.NoError(t, err)

	for _, size := range []int{1, 4, 5, 17, 40} {
		var joined []record.Record
		pages := (len(all) + size - 1) / size
		for p := 1; p <= pages; p++ {
			pq := q
			pq.Page, pq.PageSize = p, size
			page, err := e.FetchPage(ctx, pq)
			require.NoError(t, err)
			assert.Equal(t, len(all), page.TotalMatching)
			joined = append(joined, page.Items...)
		}
		assert.Equal(t, ids(all), ids(joined), "page size %d", size)

		beyond := q
		beyond.Page, beyond.PageSize = pages+1, size
		page, err := e.FetchPage(ctx, beyond)
		require.NoError(t, err)
		assert.NotNil(t, page.Items)
		assert.Empty(t, page.Items)
	}
}

func TestFetchPage_DefaultsPageAndSize(t *testing.T) {
	rs := make([]record.Record, 0, 25)
	for i := 1; i <= 25; i++ {
		rs = append(rs, record.FromMap(map[string]any{"id": i, "name": fmt.Sprintf("n%02d", i)}))
	}
	e := New("reader", "name", &staticFetcher{records: rs})
	page, err := e.FetchPage(context.Background(), Query{SortMethod: "asc", Page: -3, PageSize: 0})
	require.NoError(t, err)
	assert.Len(t, page.Items, DefaultPageSize)
	assert.Equal(t, "1", ids(page.Items)[0])
}

func TestIdempotence(t *testing.T) {
	ctx := context.Background()
	f := &staticFetcher{records: mustList(t, docks)}
	e := New("reader", "name", f)
	q := Query{SortField: "name", SortMethod: "ASC", SearchQuery: "o", Page: 1, PageSize: 2}

	a, err := e.FetchPage(ctx, q)
	require.NoError(t, err)
	b, err := e.FetchPage(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, ids(a.Items), ids(b.Items))
	assert.Equal(t, a.TotalMatching, b.TotalMatching)
	assert.Equal(t, int32(2), atomic.LoadInt32(&f.calls), "each call fetches its own snapshot")
}

func TestFetchPage_IDLookupIgnoresPagination(t *testing.T) {
	ctx := context.Background()
	e := New("reader", "name", &staticFetcher{records: mustList(t, docks)})

	a, err := e.FetchPage(ctx, Query{ID: "2", Page: 5, PageSize: 1})
	require.NoError(t, err)
	b, err := e.FetchPage(ctx, Query{ID: "2", Page: 1, PageSize: 1000})
	require.NoError(t, err)
	require.Len(t, a.Items, 1)
	assert.Equal(t, a.Items[0].String(), b.Items[0].String())

	kept, err := e.FetchPage(ctx, Query{ID: "2", SearchQuery: "dock b"})
	require.NoError(t, err)
	assert.Len(t, kept.Items, 1)

	excluded, err := e.FetchPage(ctx, Query{ID: "2", SearchQuery: "warehouse"})
	require.NoError(t, err)
	assert.Empty(t, excluded.Items)
	assert.Zero(t, excluded.TotalMatching)

	miss, err := e.FetchPage(ctx, Query{ID: "99"})
	require.NoError(t, err, "a lookup miss is not an error")
	assert.Empty(t, miss.Items)
}

func TestEmulator_FetchFailure(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("connection refused")
	e := New("reader", "name", &staticFetcher{err: cause})

	_, err := e.FetchAll(ctx, Query{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.ErrorIs(t, err, cause)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "reader", fe.Resource)

	_, err = e.FetchPage(ctx, Query{ID: "1"})
	assert.ErrorIs(t, err, ErrFetchFailed)
	_, err = e.CountMatching(ctx, Query{})
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestEmulator_EmptyCollection(t *testing.T) {
	ctx := context.Background()
	e := New("reader", "name", FetchFunc(func(context.Context) ([]record.Record, error) { return nil, nil }))

	all, err := e.FetchAll(ctx, Query{SearchQuery: "x"})
	require.NoError(t, err)
	assert.Empty(t, all)

	page, err := e.FetchPage(ctx, Query{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.TotalMatching)

	n, err := e.CountMatching(ctx, Query{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestQueryWithDefaults(t *testing.T) {
	q := Query{SortMethod: " asc "}.WithDefaults("name")
	assert.Equal(t, "name", q.SortField)
	assert.Equal(t, "ASC", q.SortMethod)
	assert.Equal(t, Ascending, q.Direction())
	assert.Equal(t, DefaultPage, q.Page)
	assert.Equal(t, DefaultPageSize, q.PageSize)

	assert.Equal(t, Descending, Query{}.WithDefaults("name").Direction())
	assert.Equal(t, Ascending, ParseDirection("sideways"))
	start, end := Query{Page: 3, PageSize: 10}.Window(25)
	assert.Equal(t, 20, start)
	assert.Equal(t, 25, end)
}

func TestFetchPage_HugePageValues(t *testing.T) {
	ctx := context.Background()
	e := New("reader", "name", &staticFetcher{records: mustList(t, docks)})
	const maxInt = int(^uint(0) >> 1)

	for _, q := range []Query{
		{Page: 3689348814741910324, PageSize: 5},
		{Page: 1<<32 + 1, PageSize: 1 << 32},
		{Page: maxInt, PageSize: maxInt},
		{Page: 2, PageSize: maxInt},
	} {
		var page Page
		require.NotPanics(t, func() {
			var err error
			page, err = e.FetchPage(ctx, q)
			require.NoError(t, err)
		}, "page=%d size=%d", q.Page, q.PageSize)
		assert.Empty(t, page.Items, "page=%d size=%d", q.Page, q.PageSize)
		assert.Equal(t, 3, page.TotalMatching)
	}

	page, err := e.FetchPage(ctx, Query{SortField: "name", SortMethod: "ASC", Page: 1, PageSize: maxInt})
	require.NoError(t, err)
	assert.Equal(t, []string{"Dock A", "Dock B", "Warehouse"}, names(page.Items))
}
