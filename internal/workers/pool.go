package workers

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"
)

// Pool bounds how many transformation tasks run at once. Callers submit a
// task and block until it finishes; admission waits for a free slot, so a
// hung task occupies only its own slot and never the caller's event loop
// goroutines beyond the one waiting on it.
type Pool struct {
	sem  *semaphore.Weighted
	size int
}

// NewPool creates a pool with the given number of slots.
// A size below 1 is raised to 1.
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		sem:  semaphore.NewWeighted(int64(size)),
		size: size,
	}
}

// Size returns the number of slots in the pool.
func (p *Pool) Size() int {
	return p.size
}

// Do acquires a slot, runs the task and returns its error.
// Acquisition respects ctx; the task itself receives the same ctx.
func (p *Pool) Do(ctx context.Context, task func(ctx context.Context) error) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("acquire worker slot: %w", err)
	}
	defer p.sem.Release(1)

	return task(ctx)
}
