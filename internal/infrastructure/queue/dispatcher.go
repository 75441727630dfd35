package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/greenhaven/storefront/internal/api/metrics"
	"github.com/greenhaven/storefront/internal/core/domain"
	"github.com/greenhaven/storefront/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	jobTimeout     = 5 * time.Second
)

// Job is one batch of query keys to invalidate for a session.
type Job struct {
	SessionID string
	Keys      []domain.QueryKey
}

// Dispatcher applies cache invalidations off the request path. Jobs are routed
// to a fixed set of workers by hashing the session id, so one session's
// invalidations run in order.
type Dispatcher struct {
	workers []chan Job
	cache   ports.QueryCache
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, cache ports.QueryCache, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan Job, numWorkers),
		cache:   cache,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan Job, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Invalidate schedules keys for invalidation and returns immediately. When the
// worker's queue is full the job is dropped; the entries then expire at their
// stale time.
func (d *Dispatcher) Invalidate(sid string, keys ...domain.QueryKey) {
	if len(keys) == 0 {
		return
	}
	idx := d.shardIndex(sid)
	select {
	case d.workers[idx] <- Job{SessionID: sid, Keys: keys}:
		metrics.InvalidationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.InvalidationsTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().
			Str("session_id", sid).
			Int("worker_id", idx).
			Msg("invalidation queue full, job dropped")
	}
}

// shardIndex maps a session id deterministically to a worker index.
func (d *Dispatcher) shardIndex(sid string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sid))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan Job) {
	defer d.wg.Done()
	depth := metrics.InvalidationQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			depth.Set(float64(len(ch)))
			d.process(ctx, id, job)
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, id int, job Job) {
	jobCtx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	if err := d.cache.Invalidate(jobCtx, job.SessionID, job.Keys...); err != nil {
		metrics.InvalidationsTotal.WithLabelValues("failed").Inc()
		d.log.Error().Err(err).
			Str("session_id", job.SessionID).
			Int("worker_id", id).
			Msg("cache invalidation failed")
		return
	}
	metrics.InvalidationsTotal.WithLabelValues("processed").Inc()
}
