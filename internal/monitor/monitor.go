// Package monitor keeps a small in-process snapshot of bot activity:
// uptime, the last user seen and the last action performed. The admin
// stats command surfaces it.
package monitor

import (
	"fmt"
	"sync"
	"time"
)

// Monitor tracks process uptime and the most recent activity.
type Monitor struct {
	mu        sync.RWMutex
	startedAt time.Time
	lastUser  int64
	lastTask  string
}

// New creates a Monitor with the clock started now.
func New() *Monitor {
	return &Monitor{
		startedAt: time.Now(),
		lastTask:  "idle",
	}
}

// Track records the latest user and action.
func (m *Monitor) Track(userID int64, task string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastUser = userID
	m.lastTask = task
}

// Uptime returns the elapsed time since the monitor was created,
// truncated to whole seconds.
func (m *Monitor) Uptime() time.Duration {
	return time.Since(m.startedAt).Truncate(time.Second)
}

// Snapshot returns a one-line summary for admin reporting.
func (m *Monitor) Snapshot() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fmt.Sprintf("uptime %s, last user %d, last task %s", m.Uptime(), m.lastUser, m.lastTask)
}
