package types

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mazi76erX2/trac8-frontend/client/internal/shardqueue"
)

// ReaderCommand is an action the API performs on a physical reader.
type ReaderCommand string

const (
	ReaderConnect    ReaderCommand = "connect"
	ReaderDisconnect ReaderCommand = "disconnect"
	ReaderStopAlarm  ReaderCommand = "stop-alarm"
)

// ParseReaderCommand validates a command name.
func ParseReaderCommand(s string) (ReaderCommand, error) {
	switch c := ReaderCommand(s); c {
	case ReaderConnect, ReaderDisconnect, ReaderStopAlarm:
		return c, nil
	default:
		return "", fmt.Errorf("unknown reader command %q", s)
	}
}

// StockTakeStatus values as stored on stock_take.status.
type StockTakeStatus string

const (
	StockTakePending    StockTakeStatus = "Pending"
	StockTakeOpen       StockTakeStatus = "Open"
	StockTakeProcessing StockTakeStatus = "Processing"
	StockTakeClosed     StockTakeStatus = "Closed"
	StockTakeDiscarded  StockTakeStatus = "Discarded"
)

// StockTakeStatuses lists every status in workflow order.
var StockTakeStatuses = []StockTakeStatus{
	StockTakePending, StockTakeOpen, StockTakeProcessing, StockTakeClosed, StockTakeDiscarded,
}

// Dashboard names a dashboard endpoint.
type Dashboard string

const (
	DashboardAdmin    Dashboard = "admin"
	DashboardSecurity Dashboard = "security"
	DashboardCapture  Dashboard = "capture"
)

// Executor queues async reader commands.
type Executor interface {
	Submit(context.Context, string, shardqueue.Job) error
}

// HTTPClient is the subset of *http.Client the adapters use.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
