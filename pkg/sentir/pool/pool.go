// Package pool runs independent tasks on a fixed number of workers and
// streams their completions in whatever order they finish.
package pool

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/cognicore/sentir/pkg/sentir/internalerr"
)

// Task is one unit of work. Tasks must not share mutable state.
type Task[T any] func(ctx context.Context) (T, error)

// Completion is the outcome of the task at Index in the submitted slice.
type Completion[T any] struct {
	Index int
	Value T
	Err   error
}

// Run queues every task before returning, starts min(workers, len(tasks))
// workers and returns a channel that yields exactly one Completion per task.
// The channel is closed after the last completion. A panicking task yields a
// Completion whose error wraps internalerr.ErrTaskPanic; other tasks are unaffected.
//
// Neither queueing nor the workers block on the consumer: both channels are
// sized to the batch.
func Run[T any](ctx context.Context, workers int, tasks []Task[T]) <-chan Completion[T] {
	if workers < 1 {
		workers = 1
	}
	if workers > len(tasks) {
		workers = len(tasks)
	}

	jobs := make(chan int, len(tasks))
	results := make(chan Completion[T], len(tasks))

	for i := range tasks {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results <- runOne(ctx, i, tasks[i])
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

func runOne[T any](ctx context.Context, i int, task Task[T]) (c Completion[T]) {
	c.Index = i
	defer func() {
		if r := recover(); r != nil {
			var zero T
			c.Value = zero
			c.Err = fmt.Errorf("%w: %v\n%s", internalerr.ErrTaskPanic, r, debug.Stack())
		}
	}()
	c.Value, c.Err = task(ctx)
	return c
}
