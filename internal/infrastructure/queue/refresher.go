package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/ecommerceapp/storefront/internal/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// job is one background revalidation unit.
type job struct {
	key string
	run func(ctx context.Context) error
}

// Refresher executes background cache revalidations on a fixed set of
// workers. Jobs are sharded by query key with consistent hashing, so
// refreshes of the same key are ordered while distinct keys proceed in
// parallel.
type Refresher struct {
	workers []chan job
	done    chan struct{}
	log     zerolog.Logger
}

// NewRefresher creates a Refresher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewRefresher(numWorkers int, log zerolog.Logger) *Refresher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	r := &Refresher{
		workers: make([]chan job, numWorkers),
		done:    make(chan struct{}),
		log:     log,
	}
	for i := range r.workers {
		r.workers[i] = make(chan job, channelBuffer)
	}
	return r
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (r *Refresher) Start(ctx context.Context) {
	for i, ch := range r.workers {
		go r.runWorker(ctx, i, ch)
	}
	go func() {
		<-ctx.Done()
		close(r.done)
	}()
}

// Enqueue schedules a revalidation for key. The call blocks only when the
// responsible worker's buffer is full. After shutdown the job is dropped, so
// a stale catalog read never hangs here; the entry stays cached and the next
// run revalidates it.
func (r *Refresher) Enqueue(key string, run func(ctx context.Context) error) {
	i := r.shardIndex(key)
	select {
	case <-r.done:
		r.log.Debug().Str("key", key).Msg("refresher stopped, dropping refresh")
	case r.workers[i] <- job{key: key, run: run}:
		metrics.RefreshQueueDepth.WithLabelValues(strconv.Itoa(i)).Set(float64(len(r.workers[i])))
	}
}

// shardIndex maps a query key deterministically to a worker index.
func (r *Refresher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32()) % len(r.workers)
}

func (r *Refresher) runWorker(ctx context.Context, id int, ch <-chan job) {
	worker := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-ch:
			if !ok {
				return
			}
			metrics.RefreshQueueDepth.WithLabelValues(worker).Set(float64(len(ch)))
			if err := j.run(ctx); err != nil {
				r.log.Warn().Err(err).
					Str("key", j.key).
					Int("worker_id", id).
					Msg("background refresh failed")
			}
		}
	}
}
