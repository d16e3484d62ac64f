package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/mazi76erX2/trac8-frontend/client/internal/shardqueue"
)

// errRT always fails, simulating a network error.
type errRT struct{}

func (e *errRT) RoundTrip(*http.Request) (*http.Response, error) { return nil, fmt.Errorf("boom") }

// failingExec rejects every submission.
type failingExec struct{}

func (f *failingExec) Submit(context.Context, string, shardqueue.Job) error {
	return fmt.Errorf("submit failed")
}

// inlineExec records submitted keys and runs jobs immediately.
type inlineExec struct {
	mu   sync.Mutex
	keys []string
}

func (m *inlineExec) Submit(ctx context.Context, key string, job shardqueue.Job) error {
	m.mu.Lock()
	m.keys = append(m.keys, key)
	m.mu.Unlock()
	return job.Run(ctx)
}

func newServer(t *testing.T, h http.HandlerFunc) (*httptest.Server, Conn) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv, NewConn(srv.Client(), srv.URL+"/")
}

func failingConn() Conn {
	return NewConn(&http.Client{Transport: &errRT{}}, "http://example.invalid")
}

const readersJSON = `[
	{"id":1,"name":"Dock A","ip":"10.0.0.1","updated":"2024-03-01T10:00:00.000Z"},
	{"id":2,"name":"Dock B","ip":"10.0.0.2","updated":"2024-03-02T10:00:00.000Z"},
	{"id":3,"name":"Warehouse","ip":"10.0.0.3","location":{"name":"North"}}
]`
