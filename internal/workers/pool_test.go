package workers

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPool(t *testing.T) {
	t.Run("size below one is raised", func(t *testing.T) {
		p := NewPool(0)
		assert.Equal(t, 1, p.Size())
	})

	t.Run("size is kept", func(t *testing.T) {
		p := NewPool(3)
		assert.Equal(t, 3, p.Size())
	})
}

func TestPool_Do(t *testing.T) {
	t.Run("returns the task error", func(t *testing.T) {
		p := NewPool(1)
		want := errors.New("boom")

		err := p.Do(context.Background(), func(context.Context) error {
			return want
		})
		assert.ErrorIs(t, err, want)
	})

	t.Run("cancelled context fails admission", func(t *testing.T) {
		p := NewPool(1)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := p.Do(ctx, func(context.Context) error {
			t.Fatal("task must not run")
			return nil
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("concurrency never exceeds pool size", func(t *testing.T) {
		const size = 2
		p := NewPool(size)

		var running, peak int32
		var wg sync.WaitGroup
		gate := make(chan struct{})

		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = p.Do(context.Background(), func(context.Context) error {
					n := atomic.AddInt32(&running, 1)
					for {
						old := atomic.LoadInt32(&peak)
						if n <= old || atomic.CompareAndSwapInt32(&peak, old, n) {
							break
						}
					}
					<-gate
					atomic.AddInt32(&running, -1)
					return nil
				})
			}()
		}

		close(gate)
		wg.Wait()

		assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(size))
	})
}
