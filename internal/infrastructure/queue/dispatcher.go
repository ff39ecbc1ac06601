package queue

import (
	"context"
	"hash/fnv"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/bistro/pos-system/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Dispatcher routes order notifications to a fixed set of workers using
// consistent hashing on the order number, so retries for one order never
// race each other.
type Dispatcher struct {
	workers []chan ports.OrderNotification
	service ports.NotificationService
	log     zerolog.Logger
	wg      sync.WaitGroup

	mu      sync.RWMutex
	stopped bool
	dropped atomic.Int64
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.NotificationService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.OrderNotification, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.OrderNotification, channelBuffer)
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

// Enqueue hands a notification to the worker responsible for its order.
// It never blocks: when that worker's queue is full, or the dispatcher has
// been stopped, the notification is dropped and logged. The sale keeps its
// pending notification status.
func (d *Dispatcher) Enqueue(n ports.OrderNotification) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		d.drop(n, "dispatcher stopped")
		return
	}
	select {
	case d.workers[d.shardIndex(n.OrderNumber)] <- n:
	default:
		d.drop(n, "worker queue full")
	}
}

// Dropped returns how many notifications Enqueue has discarded.
func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}

func (d *Dispatcher) drop(n ports.OrderNotification, reason string) {
	d.dropped.Add(1)
	d.log.Error().
		Str("order_number", n.OrderNumber).
		Str("sale_id", n.SaleID).
		Str("reason", reason).
		Msg("order notification dropped")
}

// Stop closes the worker queues. Workers drain what is already queued and
// return; later Enqueue calls are dropped. Stop is idempotent.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.stopped = true
	for _, ch := range d.workers {
		close(ch)
	}
}

// Depth returns the number of notifications waiting across all workers.
func (d *Dispatcher) Depth() int {
	total := 0
	for _, ch := range d.workers {
		total += len(ch)
	}
	return total
}

// shardIndex maps an order number deterministically to a worker index.
func (d *Dispatcher) shardIndex(orderNumber string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(orderNumber))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.OrderNotification) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			if err := d.service.Process(ctx, n); err != nil {
				d.log.Error().Err(err).
					Str("order_number", n.OrderNumber).
					Str("sale_id", n.SaleID).
					Int("worker_id", id).
					Msg("order notification failed")
			}
		}
	}
}
