// Package tempfile manages scoped working files for one submission.
// A Pair is acquired at the start of a pipeline call and released when it
// ends; release removes both paths regardless of how the call exited.
package tempfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Pair holds the input and output paths for a single submission.
// Both paths are unique per user and per in-flight request, so two
// concurrent submissions can never collide on disk.
type Pair struct {
	Input  string
	Output string
}

// Manager hands out working file pairs under a single temp directory.
type Manager struct {
	dir string
}

// NewManager creates a Manager rooted at dir.
// If dir is empty, a subdirectory of os.TempDir() is used.
// The directory is created if it doesn't exist.
func NewManager(dir string) (*Manager, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "mediabot")
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create temp directory: %w", err)
	}

	return &Manager{dir: dir}, nil
}

// Dir returns the temp directory path.
func (m *Manager) Dir() string {
	return m.dir
}

// Acquire returns a working file pair for one submission and a release
// function. Neither path exists on disk yet; the transformation writes them.
// The release function deletes both paths best-effort and must be called
// exactly once, normally via defer, so cleanup runs on every exit path.
func (m *Manager) Acquire(userID int64, inExt, outExt string) (Pair, func()) {
	token := uuid.NewString()
	pair := Pair{
		Input:  filepath.Join(m.dir, fmt.Sprintf("in_%d_%s%s", userID, token, inExt)),
		Output: filepath.Join(m.dir, fmt.Sprintf("out_%d_%s%s", userID, token, outExt)),
	}

	release := func() {
		// Deletion errors are swallowed: cleanup must never mask the
		// failure that ended the pipeline call.
		_ = os.Remove(pair.Input)
		_ = os.Remove(pair.Output)
	}

	return pair, release
}
