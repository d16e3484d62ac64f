package shardqueue

import (
	"errors"
	"fmt"
)

// ErrQueueFull reports back-pressure: the shard stayed full for the whole
// enqueue timeout.
var ErrQueueFull = errors.New("command queue full")

// ErrExecutorClosed is returned by Submit once Stop has been called.
var ErrExecutorClosed = errors.New("command executor closed")

// QueueFullError carries the shard state at the time of the timeout.
type QueueFullError struct {
	Key      string
	Shard    int
	Length   int
	Capacity int
}

func (e *QueueFullError) Error() string {
	return fmt.Sprintf("command queue for %q full (shard=%d len=%d cap=%d)", e.Key, e.Shard, e.Length, e.Capacity)
}

func (e *QueueFullError) Is(target error) bool { return target == ErrQueueFull }
