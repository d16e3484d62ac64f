package client

import (
	"github.com/mazi76erX2/trac8-frontend/client/internal/api"
	"github.com/mazi76erX2/trac8-frontend/client/internal/shardqueue"
	"github.com/mazi76erX2/trac8-frontend/client/internal/types"
)

// Aliases so callers only import this package.
type (
	ListOptions   = types.ListOptions
	CountOptions  = types.CountOptions
	ListResponse  = types.ListResponse
	CountResponse = types.CountResponse
	EnqueueAck    = types.EnqueueAck

	ReaderCommand   = types.ReaderCommand
	StockTakeStatus = types.StockTakeStatus
	Dashboard       = types.Dashboard

	Lister             = api.Lister
	CrudAdapter        = api.CrudAdapter
	ReaderAdapter      = api.ReaderAdapter
	ItemAdapter        = api.ItemAdapter
	RecursiveAdapter   = api.RecursiveAdapter
	UserProfileAdapter = api.UserProfileAdapter
	ReadEventAdapter   = api.ReadEventAdapter
	DashboardAdapter   = api.DashboardAdapter

	QueueConfig = shardqueue.Config
)

const (
	ReaderConnect    = types.ReaderConnect
	ReaderDisconnect = types.ReaderDisconnect
	ReaderStopAlarm  = types.ReaderStopAlarm

	DashboardAdmin    = types.DashboardAdmin
	DashboardSecurity = types.DashboardSecurity
	DashboardCapture  = types.DashboardCapture

	ResourceReader = api.ResourceReader

	// ConnectedField is the field PageWithStatus adds to each reader.
	ConnectedField = api.ConnectedField
)

// StockTakeStatuses lists every stock take status in workflow order.
var StockTakeStatuses = types.StockTakeStatuses
