package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"salonpro-api/config"
)

const defaultTaskTimeout = 30 * time.Second

// Task is a unit of background work. Run gets its own context, detached
// from the request that enqueued it.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// TaskEnqueuer accepts tasks without blocking the caller.
type TaskEnqueuer interface {
	Enqueue(task Task) bool
}

// TaskQueue runs side-effect tasks after the primary write has committed.
// Task failures go to the queue's error handler and never back to whoever
// enqueued the task.
type TaskQueue struct {
	tasks   chan Task
	logger  *slog.Logger
	onError func(task string, err error)
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewTaskQueue(size int, logger *slog.Logger) *TaskQueue {
	q := &TaskQueue{
		tasks:   make(chan Task, size),
		logger:  logger,
		timeout: defaultTaskTimeout,
	}
	q.onError = func(task string, err error) {
		q.logger.Error("background task failed", "task", task, "error", err)
	}
	return q
}

// OnError replaces the error handler. Call it before Start.
func (q *TaskQueue) OnError(fn func(task string, err error)) {
	q.onError = fn
}

// Start launches workers goroutines that consume the queue until Close.
func (q *TaskQueue) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go func() {
			defer q.wg.Done()
			for task := range q.tasks {
				q.run(task)
			}
		}()
	}
}

// Enqueue hands task to the workers. It returns false, and drops the task,
// when the queue is full or closed.
func (q *TaskQueue) Enqueue(task Task) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		q.logger.Warn("task queue closed, dropping task", "task", task.Name)
		return false
	}
	select {
	case q.tasks <- task:
		return true
	default:
		q.logger.Warn("task queue full, dropping task", "task", task.Name)
		config.TaskRuns.WithLabelValues(task.Name, "dropped").Inc()
		return false
	}
}

// Close stops accepting tasks and waits for queued ones to finish.
func (q *TaskQueue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.tasks)
	}
	q.mu.Unlock()
	q.wg.Wait()
}

func (q *TaskQueue) run(task Task) {
	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return task.Run(ctx)
	}()

	if err != nil {
		config.TaskRuns.WithLabelValues(task.Name, "failed").Inc()
		q.onError(task.Name, err)
		return
	}
	config.TaskRuns.WithLabelValues(task.Name, "ok").Inc()
}
