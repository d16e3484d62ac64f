package api

import (
	"context"
	"net/http"

	"github.com/mazi76erX2/trac8-frontend/internal/record"
)

// RecursiveAdapter serves resources that are saved and read together with
// their child rows: stock takes and transit routes.
type RecursiveAdapter struct {
	*CrudAdapter
}

// NewRecursiveAdapter wraps the named resource.
func NewRecursiveAdapter(conn Conn, name string) (*RecursiveAdapter, error) {
	base, err := BasePath(name)
	if err != nil {
		return nil, err
	}
	return &RecursiveAdapter{CrudAdapter: NewCrudAdapter(conn, name, base)}, nil
}

// CreateRecursive stores r with its nested children.
func (a *RecursiveAdapter) CreateRecursive(ctx context.Context, r record.Record) (record.Value, error) {
	return a.conn.callValue(ctx, http.MethodPost, a.base+"/create_recursive", r, "create recursive "+a.name)
}

// ReadRecursive returns every record with its children attached.
func (a *RecursiveAdapter) ReadRecursive(ctx context.Context) ([]record.Record, error) {
	return a.conn.getRecords(ctx, a.base+"/recursive", nil, "read recursive "+a.name)
}

// UpdateRecursive replaces r and its children.
func (a *RecursiveAdapter) UpdateRecursive(ctx context.Context, r record.Record) (record.Value, error) {
	return a.conn.callValue(ctx, http.MethodPut, a.base+"/update_recursive", r, "update recursive "+a.name)
}
