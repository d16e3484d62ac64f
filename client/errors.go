package client

import (
	"errors"

	clienterrors "github.com/mazi76erX2/trac8-frontend/client/internal/errors"
	"github.com/mazi76erX2/trac8-frontend/client/internal/shardqueue"
	"github.com/mazi76erX2/trac8-frontend/internal/listquery"
)

// ErrBackPressure is returned when the reader command queue is full.
var ErrBackPressure = errors.New("back-pressure (queue full)")

// ErrUnknownResource is returned by Resource for names it does not serve.
var ErrUnknownResource = errors.New("unknown resource")

// ErrClosed is returned by async calls after Close.
var ErrClosed = shardqueue.ErrExecutorClosed

// ErrFetchFailed matches every failure to retrieve an emulated collection.
var ErrFetchFailed = listquery.ErrFetchFailed

// IsBackPressure reports whether err is a back-pressure error.
func IsBackPressure(err error) bool { return errors.Is(err, ErrBackPressure) }

// IsFetchFailure reports whether err is a failed collection fetch.
func IsFetchFailure(err error) bool { return errors.Is(err, ErrFetchFailed) }

// IsNotFound reports a 404 from the API.
func IsNotFound(err error) bool { return clienterrors.IsNotFound(err) }

// IsRetryable reports whether the failure is worth retrying: network
// errors, 5xx, 408 and 429.
func IsRetryable(err error) bool {
	var ce *clienterrors.ClassifiedError
	return errors.As(err, &ce) && ce.Category == clienterrors.Recoverable
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int { return clienterrors.StatusCode(err) }
