package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/mazi76erX2/trac8-frontend/client/internal/shardqueue"
	"github.com/mazi76erX2/trac8-frontend/client/internal/types"
	"github.com/mazi76erX2/trac8-frontend/internal/listquery"
	"github.com/mazi76erX2/trac8-frontend/internal/record"
)

const (
	readerBase = "/reader"

	// ReaderSortField is the sort field used when a reader query names none.
	ReaderSortField = "name"

	// ConnectedField is added to each record by PageWithStatus.
	ConnectedField = "connected"
)

// ReaderAdapter serves the reader resource. Its collection endpoint only
// returns the whole table, so list, page, count and id lookup are emulated
// over one fetch per call.
type ReaderAdapter struct {
	conn             Conn
	emu              *listquery.Emulator
	exec             types.Executor
	probeConcurrency int
}

// NewReaderAdapter returns the reader adapter. exec may be nil when async
// commands are not needed; probeConcurrency bounds PageWithStatus.
func NewReaderAdapter(conn Conn, exec types.Executor, probeConcurrency int) *ReaderAdapter {
	if probeConcurrency < 1 {
		probeConcurrency = 1
	}
	a := &ReaderAdapter{conn: conn, exec: exec, probeConcurrency: probeConcurrency}
	a.emu = listquery.New(ResourceReader, ReaderSortField, listquery.FetchFunc(a.FetchCollection))
	return a
}

// Name is the resource name.
func (a *ReaderAdapter) Name() string { return ResourceReader }

// Base is the resource path.
func (a *ReaderAdapter) Base() string { return readerBase }

// FetchCollection GETs the full reader table.
func (a *ReaderAdapter) FetchCollection(ctx context.Context) ([]record.Record, error) {
	data, err := a.conn.call(ctx, http.MethodGet, readerBase, nil, nil, "list reader")
	if err != nil {
		return nil, err
	}
	v, err := decodeValue(data, "list reader")
	if err != nil {
		return nil, err
	}
	if v.IsNull() {
		return []record.Record{}, nil
	}
	arr, ok := v.AsArray()
	if !ok {
		return nil, fmt.Errorf("list reader: expected array, got %s", v.Kind())
	}
	out := make([]record.Record, 0, len(arr))
	for i, e := range arr {
		r, ok := e.AsObject()
		if !ok {
			return nil, fmt.Errorf("list reader: element %d: %w", i, record.ErrNotObject)
		}
		out = append(out, r)
	}
	return out, nil
}

// All returns every matching reader, sorted. Paging and id are ignored.
func (a *ReaderAdapter) All(ctx context.Context, opts types.ListOptions) (*types.ListResponse, error) {
	rs, err := a.emu.FetchAll(ctx, opts.Query())
	if err != nil {
		return nil, err
	}
	return &types.ListResponse{Data: rs}, nil
}

// Get returns one page, or the reader named by opts.ID if it also matches
// opts.SearchQuery.
func (a *ReaderAdapter) Get(ctx context.Context, opts types.ListOptions) (*types.ListResponse, error) {
	p, err := a.Page(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &types.ListResponse{Data: p.Items}, nil
}

// Page is Get with the total number of matching readers.
func (a *ReaderAdapter) Page(ctx context.Context, opts types.ListOptions) (listquery.Page, error) {
	return a.emu.FetchPage(ctx, opts.Query())
}

// Count returns the number of readers matching opts.SearchQuery as text.
func (a *ReaderAdapter) Count(ctx context.Context, opts types.CountOptions) (*types.CountResponse, error) {
	n, err := a.emu.CountMatching(ctx, listquery.Query{SearchQuery: opts.SearchQuery})
	if err != nil {
		return nil, err
	}
	return &types.CountResponse{Data: strconv.Itoa(n)}, nil
}

// Create stores a new reader.
func (a *ReaderAdapter) Create(ctx context.Context, r record.Record) (record.Value, error) {
	return a.conn.callValue(ctx, http.MethodPost, readerBase, r, "create reader")
}

// Update saves a reader. The API takes updates on the same POST as creates.
func (a *ReaderAdapter) Update(ctx context.Context, r record.Record) (record.Value, error) {
	return a.conn.callValue(ctx, http.MethodPost, readerBase, r, "update reader")
}

// Delete removes the reader with id.
func (a *ReaderAdapter) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("delete reader: empty id")
	}
	_, err := a.conn.call(ctx, http.MethodDelete, readerBase+"/"+url.PathEscape(id), nil, nil, "delete reader")
	return err
}

// Connect asks the API to open the connection to reader id.
func (a *ReaderAdapter) Connect(ctx context.Context, id string) error {
	return a.command(ctx, id, types.ReaderConnect)
}

// Disconnect closes the connection to reader id.
func (a *ReaderAdapter) Disconnect(ctx context.Context, id string) error {
	return a.command(ctx, id, types.ReaderDisconnect)
}

// StopAlarm silences the alarm on reader id.
func (a *ReaderAdapter) StopAlarm(ctx context.Context, id string) error {
	return a.command(ctx, id, types.ReaderStopAlarm)
}

// DisableAlarm is StopAlarm that logs failures and reports them as false.
func (a *ReaderAdapter) DisableAlarm(ctx context.Context, id string) bool {
	if err := a.StopAlarm(ctx, id); err != nil {
		log.Warn().Err(err).Str("reader_id", id).Msg("stop alarm failed")
		return false
	}
	return true
}

// IsConnected probes reader id. Any failure is logged and reported as not
// connected.
func (a *ReaderAdapter) IsConnected(ctx context.Context, id string) bool {
	v, err := a.conn.callValue(ctx, http.MethodGet, "/is-connected/"+url.PathEscape(id), nil, "probe reader")
	if err != nil {
		log.Warn().Err(err).Str("reader_id", id).Msg("reader probe failed")
		return false
	}
	return truthy(v)
}

// Command runs cmd against reader id synchronously.
func (a *ReaderAdapter) Command(ctx context.Context, id string, cmd types.ReaderCommand) error {
	if _, err := types.ParseReaderCommand(string(cmd)); err != nil {
		return err
	}
	return a.command(ctx, id, cmd)
}

func (a *ReaderAdapter) command(ctx context.Context, id string, cmd types.ReaderCommand) error {
	if id == "" {
		return fmt.Errorf("%s reader: empty id", cmd)
	}
	path := readerBase + "/" + string(cmd) + "/" + url.PathEscape(id)
	_, err := a.conn.call(ctx, http.MethodPost, path, nil, nil, string(cmd)+" reader")
	return err
}

// SubmitCommand queues cmd for reader id. Commands for one reader run in
// submission order; recoverable failures are retried by the executor.
func (a *ReaderAdapter) SubmitCommand(ctx context.Context, id string, cmd types.ReaderCommand) (*types.EnqueueAck, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if a.exec == nil {
		return nil, fmt.Errorf("submit %s: no executor configured", cmd)
	}
	if _, err := types.ParseReaderCommand(string(cmd)); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, fmt.Errorf("submit %s: empty reader id", cmd)
	}
	job := shardqueue.JobFunc(func(jobCtx context.Context) error {
		return a.command(jobCtx, id, cmd)
	})
	if err := a.exec.Submit(ctx, id, job); err != nil {
		return nil, err
	}
	return &types.EnqueueAck{ReaderID: id, Command: cmd, Status: "enqueued"}, nil
}

// PageWithStatus is Page with a connected field added to every reader.
// Probes run concurrently, at most probeConcurrency at a time; the page
// order is kept.
func (a *ReaderAdapter) PageWithStatus(ctx context.Context, opts types.ListOptions) (listquery.Page, error) {
	p, err := a.Page(ctx, opts)
	if err != nil {
		return listquery.Page{}, err
	}

	items := make([]record.Record, len(p.Items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.probeConcurrency)
	for i, r := range p.Items {
		i, r := i, r
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out := r.Clone()
			connected := false
			if id, ok := r.ID(); ok {
				connected = a.IsConnected(gctx, id)
			}
			out.Set(ConnectedField, record.Bool(connected))
			items[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return listquery.Page{}, err
	}
	p.Items = items
	return p, nil
}
