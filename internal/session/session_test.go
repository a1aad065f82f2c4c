package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetSetClear(t *testing.T) {
	s := NewStore()

	t.Run("unknown user is idle", func(t *testing.T) {
		assert.Equal(t, StateIdle, s.Get(1))
	})

	t.Run("set and get", func(t *testing.T) {
		s.Set(1, StateAwaitingVideo)
		assert.Equal(t, StateAwaitingVideo, s.Get(1))
	})

	t.Run("entering another awaiting state overwrites", func(t *testing.T) {
		s.Set(1, StateAwaitingImage)
		assert.Equal(t, StateAwaitingImage, s.Get(1))
	})

	t.Run("setting idle drops the entry", func(t *testing.T) {
		s.Set(1, StateIdle)
		assert.Equal(t, StateIdle, s.Get(1))
	})

	t.Run("clear resets to idle", func(t *testing.T) {
		s.Set(2, StateAwaitingVideo)
		s.Clear(2)
		assert.Equal(t, StateIdle, s.Get(2))
	})

	t.Run("users are independent", func(t *testing.T) {
		s.Set(3, StateAwaitingVideo)
		s.Set(4, StateAwaitingImage)
		assert.Equal(t, StateAwaitingVideo, s.Get(3))
		assert.Equal(t, StateAwaitingImage, s.Get(4))
	})
}

func TestStore_BeginEndWork(t *testing.T) {
	s := NewStore()

	t.Run("second begin while busy is rejected", func(t *testing.T) {
		require.NoError(t, s.BeginWork(1))
		assert.ErrorIs(t, s.BeginWork(1), ErrBusy)
	})

	t.Run("end allows a new begin", func(t *testing.T) {
		s.EndWork(1)
		assert.NoError(t, s.BeginWork(1))
		s.EndWork(1)
	})

	t.Run("busy marks are per user", func(t *testing.T) {
		require.NoError(t, s.BeginWork(5))
		assert.NoError(t, s.BeginWork(6))
		s.EndWork(5)
		s.EndWork(6)
	})
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			s.Set(id, StateAwaitingVideo)
			_ = s.Get(id)
			if err := s.BeginWork(id); err == nil {
				s.EndWork(id)
			}
			s.Clear(id)
		}(int64(i % 10))
	}
	wg.Wait()

	for i := int64(0); i < 10; i++ {
		assert.Equal(t, StateIdle, s.Get(i))
	}
}
