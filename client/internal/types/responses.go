package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mazi76erX2/trac8-frontend/internal/record"
)

// ListResponse mirrors the { data } envelope every adapter returns.
type ListResponse struct {
	Data []record.Record `json:"data"`
}

// First returns the first record, for id lookups.
func (r *ListResponse) First() (record.Record, bool) {
	if r == nil || len(r.Data) == 0 {
		return record.Record{}, false
	}
	return r.Data[0], true
}

// CountResponse carries the matching count as decimal text, the way the
// API's plain-text count endpoint returns it.
type CountResponse struct {
	Data string `json:"data"`
}

// Int parses Data.
func (c CountResponse) Int() (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(c.Data))
	if err != nil {
		return 0, fmt.Errorf("count %q: %w", c.Data, err)
	}
	return n, nil
}

// EnqueueAck acknowledges a reader command accepted for async execution.
type EnqueueAck struct {
	ReaderID string        `json:"readerId"`
	Command  ReaderCommand `json:"command"`
	Status   string        `json:"status"`
}
