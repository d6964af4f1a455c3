// Package parallel fans independent per-community computations out across a
// bounded set of workers. Tasks read the shared immutable base graph and
// write only their own result slot, so no locking is needed beyond the pool
// itself.
package parallel

import (
	"sync"

	"github.com/dd0wney/cluso-orgnet/pkg/logging"
)

// WorkerPool manages a pool of worker goroutines
type WorkerPool struct {
	workers   int
	taskQueue chan func()
	wg        sync.WaitGroup
	once      sync.Once
	mu        sync.RWMutex
	closed    bool
	log       logging.Logger
}

// NewWorkerPool creates a pool with the given number of workers. Counts
// below one collapse to a single worker.
func NewWorkerPool(workers int, log logging.Logger) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	if log == nil {
		log = logging.NewNopLogger()
	}

	pool := &WorkerPool{
		workers:   workers,
		taskQueue: make(chan func(), workers*2),
		log:       log,
	}

	for i := 0; i < workers; i++ {
		pool.wg.Add(1)
		go pool.worker()
	}
	return pool
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		func() {
			defer func() {
				if r := recover(); r != nil {
					wp.log.Error("worker task panicked", logging.Any("panic", r))
				}
			}()
			task()
		}()
	}
}

// Submit adds a task to the pool. Returns false if the pool is closed.
func (wp *WorkerPool) Submit(task func()) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		return false
	}
	wp.taskQueue <- task
	return true
}

// Close shuts the pool down and waits for in-flight tasks
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		wp.mu.Lock()
		wp.closed = true
		close(wp.taskQueue)
		wp.mu.Unlock()
	})
	wp.wg.Wait()
}

// ForEach runs fn for every index in [0, n) across the given number of
// workers and waits for completion. Each invocation must write only to its
// own slot of any shared output.
func ForEach(workers, n int, log logging.Logger, fn func(i int)) {
	if n <= 0 {
		return
	}
	if workers > n {
		workers = n
	}

	pool := NewWorkerPool(workers, log)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		pool.Submit(func() {
			defer wg.Done()
			fn(i)
		})
	}
	wg.Wait()
	pool.Close()
}
