// Package session tracks per-user conversation state: which kind of media,
// if any, the bot currently expects from a user. State lives in memory only
// and does not survive a restart.
package session

import (
	"errors"
	"sync"
)

// State represents what the bot is waiting for from a user.
type State string

const (
	// StateIdle indicates no media is expected.
	StateIdle State = "IDLE"
	// StateAwaitingVideo indicates a video submission is expected.
	StateAwaitingVideo State = "AWAITING_VIDEO"
	// StateAwaitingImage indicates an image document submission is expected.
	StateAwaitingImage State = "AWAITING_IMAGE"
)

// ErrBusy is returned when a submission arrives while an earlier one from
// the same user is still mid-pipeline.
var ErrBusy = errors.New("session: a submission is already being processed")

// Store is a thread-safe map of user ID to conversation state.
// It uses a map with RWMutex for safe access from the update loop and
// from pipeline goroutines that clear state when they finish.
type Store struct {
	mu     sync.RWMutex
	states map[int64]State
	busy   map[int64]bool
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		states: make(map[int64]State),
		busy:   make(map[int64]bool),
	}
}

// Get returns the current state for a user. Unknown users are Idle.
func (s *Store) Get(userID int64) State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.states[userID]; ok {
		return st
	}
	return StateIdle
}

// Set overwrites the user's state. Entering an awaiting state always
// replaces whatever state was there before.
func (s *Store) Set(userID int64, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state == StateIdle {
		delete(s.states, userID)
		return
	}
	s.states[userID] = state
}

// Clear resets the user's state to Idle.
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, userID)
}

// BeginWork marks the user as having a submission mid-pipeline.
// Returns ErrBusy if one is already in flight: a second overlapping
// submission from the same user is rejected rather than queued.
func (s *Store) BeginWork(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy[userID] {
		return ErrBusy
	}
	s.busy[userID] = true
	return nil
}

// EndWork clears the mid-pipeline mark for the user.
func (s *Store) EndWork(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.busy, userID)
}
