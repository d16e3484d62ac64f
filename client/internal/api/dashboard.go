package api

import (
	"context"

	"github.com/mazi76erX2/trac8-frontend/client/internal/types"
	"github.com/mazi76erX2/trac8-frontend/internal/record"
)

const dashboardBase = "dashboard"

// DashboardAdapter reads the aggregated dashboard endpoints.
type DashboardAdapter struct {
	conn Conn
}

// NewDashboardAdapter returns the dashboard adapter.
func NewDashboardAdapter(conn Conn) *DashboardAdapter { return &DashboardAdapter{conn: conn} }

// Get fetches the named dashboard. A single object comes back as one record.
func (a *DashboardAdapter) Get(ctx context.Context, d types.Dashboard) ([]record.Record, error) {
	return a.conn.getRecords(ctx, dashboardBase+"/"+string(d), nil, "get "+string(d)+" dashboard")
}

func (a *DashboardAdapter) Admin(ctx context.Context) ([]record.Record, error) {
	return a.Get(ctx, types.DashboardAdmin)
}

func (a *DashboardAdapter) Security(ctx context.Context) ([]record.Record, error) {
	return a.Get(ctx, types.DashboardSecurity)
}

func (a *DashboardAdapter) Capture(ctx context.Context) ([]record.Record, error) {
	return a.Get(ctx, types.DashboardCapture)
}
