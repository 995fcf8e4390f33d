package botapp

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

var ErrDispatcherStopped = errors.New("dispatcher stopped")

type job struct {
	kind string
	key  int64
	run  func(context.Context)
}

// Dispatcher runs jobs on a fixed set of workers. Jobs with the same key
// always land on the same worker and run in submission order; different keys
// run in parallel. Long jobs that need no ordering go through Spawn and never
// occupy a worker.
type Dispatcher struct {
	queues []chan job
	logger *zap.Logger

	stopOnce sync.Once
	stopped  chan struct{}

	bgMu     sync.Mutex
	bg       sync.WaitGroup
	bgCtx    context.Context
	bgCancel context.CancelFunc
}

func NewDispatcher(workers, queueSize int, logger *zap.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	queues := make([]chan job, workers)
	for i := range queues {
		queues[i] = make(chan job, queueSize)
	}
	bgCtx, bgCancel := context.WithCancel(context.Background())
	return &Dispatcher{
		queues:   queues,
		logger:   logger,
		stopped:  make(chan struct{}),
		bgCtx:    bgCtx,
		bgCancel: bgCancel,
	}
}

// Submit enqueues run under key. It blocks while the worker queue is full and
// fails once ctx is done or the dispatcher has stopped.
func (d *Dispatcher) Submit(ctx context.Context, key int64, kind string, run func(context.Context)) error {
	q := d.queues[d.slot(key)]
	select {
	case <-d.stopped:
		return ErrDispatcherStopped
	default:
	}

	select {
	case q <- job{kind: kind, key: key, run: run}:
		return nil
	case <-d.stopped:
		return ErrDispatcherStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Spawn runs an unkeyed job on its own goroutine. The job's context is
// cancelled when ctx is done or the dispatcher stops, and Run waits for it.
func (d *Dispatcher) Spawn(ctx context.Context, kind string, run func(context.Context)) error {
	d.bgMu.Lock()
	defer d.bgMu.Unlock()
	select {
	case <-d.stopped:
		return ErrDispatcherStopped
	default:
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	jobCtx, cancel := context.WithCancel(ctx)
	d.bg.Add(1)
	go func() {
		defer d.bg.Done()
		defer cancel()
		stop := context.AfterFunc(d.bgCtx, cancel)
		defer stop()
		d.runJob(jobCtx, job{kind: kind, run: run}, zap.Bool("spawned", true))
	}()
	return nil
}

// Run starts the workers and blocks until ctx is done. Jobs still queued at
// that point are dropped.
func (d *Dispatcher) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for i, q := range d.queues {
		wg.Add(1)
		go func(worker int, q <-chan job) {
			defer wg.Done()
			d.work(ctx, worker, q)
		}(i, q)
	}

	<-ctx.Done()
	d.stopOnce.Do(func() {
		d.bgMu.Lock()
		close(d.stopped)
		d.bgMu.Unlock()
		d.bgCancel()
	})
	wg.Wait()
	d.bg.Wait()
	return nil
}

func (d *Dispatcher) work(ctx context.Context, worker int, q <-chan job) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-q:
			d.runJob(ctx, j, zap.Int("worker", worker))
		}
	}
}

func (d *Dispatcher) runJob(ctx context.Context, j job, fields ...zap.Field) {
	defer func() {
		if rec := recover(); rec != nil {
			d.logger.Error("dispatcher job panicked", append(fields,
				zap.String("kind", j.kind),
				zap.Int64("key", j.key),
				zap.Any("panic", rec),
			)...)
		}
	}()
	j.run(ctx)
}

func (d *Dispatcher) slot(key int64) int {
	return int(uint64(key) % uint64(len(d.queues)))
}
