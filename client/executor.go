package client

import (
	"context"

	"github.com/mazi76erX2/trac8-frontend/client/internal/shardqueue"
)

// executor runs queued reader commands.
type executor interface {
	Submit(context.Context, string, shardqueue.Job) error
	Barrier(context.Context, string) error
	Stop()
}
