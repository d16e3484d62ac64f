// Package shardqueue runs keyed jobs on a fixed set of workers. Jobs that
// share a key (a reader id) hash to the same shard and run one at a time in
// submission order; different keys may run in parallel.
//
// Callers must not Submit concurrently for the same key if they rely on
// ordering between those submissions.
package shardqueue

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	clienterrors "github.com/mazi76erX2/trac8-frontend/client/internal/errors"
)

type queuedJob struct {
	ctx context.Context
	key string
	job Job
}

// Executor is a sharded FIFO-per-key job runner with retry.
type Executor struct {
	cfg    Config
	queues []chan queuedJob

	// mu is held for reading across an enqueue and for writing while done
	// is closed, so no job lands in a queue after the workers drained it.
	mu     sync.RWMutex
	done   chan struct{}
	closed atomic.Bool

	wg sync.WaitGroup
}

// New starts cfg.Shards workers. Zero fields of cfg take their defaults.
func New(cfg Config) *Executor {
	cfg = cfg.withDefaults()
	e := &Executor{
		cfg:    cfg,
		queues: make([]chan queuedJob, cfg.Shards),
		done:   make(chan struct{}),
	}
	for i := range e.queues {
		ch := make(chan queuedJob, cfg.QueueSize)
		e.queues[i] = ch
		e.wg.Add(1)
		go e.runWorker(i, ch)
	}
	return e
}

// Submit enqueues job on the shard for key. It returns ErrExecutorClosed
// after Stop, a *QueueFullError when the shard stays full for
// EnqueueTimeout, or ctx.Err() if ctx ends first.
func (e *Executor) Submit(ctx context.Context, key string, job Job) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed.Load() {
		return ErrExecutorClosed
	}

	shard := e.shardFor(key)
	ch := e.queues[shard]

	timer := time.NewTimer(e.cfg.EnqueueTimeout)
	defer timer.Stop()

	select {
	case ch <- queuedJob{ctx: ctx, key: key, job: job}:
		submissionsTotal.WithLabelValues(labelFor(shard)).Inc()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		queueFullTotal.WithLabelValues(labelFor(shard)).Inc()
		return &QueueFullError{Key: key, Shard: shard, Length: len(ch), Capacity: cap(ch)}
	}
}

// Barrier waits until every job submitted for key before the call has run.
func (e *Executor) Barrier(ctx context.Context, key string) error {
	done := make(chan struct{})
	if err := e.Submit(ctx, key, JobFunc(func(context.Context) error {
		close(done)
		return nil
	})); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// Stop rejects new work, waits for in-flight Submits, lets every worker
// drain its queue and waits for them. Safe to call more than once.
func (e *Executor) Stop() {
	if !e.closed.CompareAndSwap(false, true) {
		return
	}
	log.Debug().Int("shards", e.cfg.Shards).Msg("command executor stopping")
	e.mu.Lock()
	close(e.done)
	e.mu.Unlock()
	e.wg.Wait()
	log.Debug().Msg("command executor stopped")
}

// Close lets Executor satisfy io.Closer.
func (e *Executor) Close() error {
	e.Stop()
	return nil
}

func (e *Executor) runWorker(idx int, ch <-chan queuedJob) {
	defer e.wg.Done()

	label := labelFor(idx)
	for {
		select {
		case qj := <-ch:
			if qj.job != nil {
				e.runWithRetry(label, qj)
			}
			queueDepth.WithLabelValues(label).Set(float64(len(ch)))

		case <-e.done:
			drained := 0
			for {
				select {
				case qj := <-ch:
					if qj.job != nil {
						if err := runJob(qj); err != nil {
							e.handleError(qj.key, err)
						}
						drained++
					}
				default:
					if drained > 0 {
						log.Debug().Int("shard", idx).Int("drained", drained).Msg("command worker drained queue")
					}
					queueDepth.WithLabelValues(label).Set(0)
					return
				}
			}
		}
	}
}

// runWithRetry runs qj until it succeeds or fails for good. Once the
// executor is stopping, a failed attempt is not retried.
func (e *Executor) runWithRetry(label string, qj queuedJob) {
	if err := qj.ctx.Err(); err != nil {
		e.handleError(qj.key, err)
		return
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = e.cfg.BaseBackoff
	exp.Multiplier = 2
	exp.MaxInterval = e.cfg.MaxInterval
	exp.MaxElapsedTime = 0
	exp.Reset()

	for attempt := 1; ; attempt++ {
		start := time.Now()
		err := runJob(qj)
		runDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
		if err == nil {
			return
		}
		var pe *PanicError
		if clienterrors.IsIrrecoverable(err) || errors.As(err, &pe) || attempt >= e.cfg.MaxAttempts {
			e.handleError(qj.key, err)
			return
		}

		retriesTotal.WithLabelValues(label).Inc()
		wait := exp.NextBackOff()
		log.Debug().Err(err).Str("key", qj.key).Int("attempt", attempt).Dur("backoff", wait).Msg("retrying command")

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-e.done:
			timer.Stop()
			e.handleError(qj.key, err)
			return
		case <-qj.ctx.Done():
			timer.Stop()
			e.handleError(qj.key, qj.ctx.Err())
			return
		}
	}
}

// PanicError reports a job that panicked. It is never retried.
type PanicError struct{ Value any }

func (p *PanicError) Error() string { return fmt.Sprintf("command panicked: %v", p.Value) }

// runJob keeps a panicking job from taking its shard worker down.
func runJob(qj queuedJob) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return qj.job.Run(qj.ctx)
}

func (e *Executor) handleError(key string, err error) {
	if err == nil {
		return
	}
	log.Warn().Err(err).Str("key", key).Msg("command failed")
	if e.cfg.ErrorHandler == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("command error handler panic")
		}
	}()
	e.cfg.ErrorHandler(key, err)
}

func (e *Executor) shardFor(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(e.cfg.Shards))
}
