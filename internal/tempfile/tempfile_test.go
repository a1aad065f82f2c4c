package tempfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewManager(t *testing.T) {
	t.Run("creates directory if not exists", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "work")

		m, err := NewManager(dir)
		if err != nil {
			t.Fatalf("NewManager() error = %v", err)
		}

		if m.Dir() != dir {
			t.Errorf("Dir() = %v, want %v", m.Dir(), dir)
		}

		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("directory not created: %v", err)
		}
		if !info.IsDir() {
			t.Error("expected directory, got file")
		}
	})

	t.Run("uses default directory when empty", func(t *testing.T) {
		m, err := NewManager("")
		if err != nil {
			t.Fatalf("NewManager() error = %v", err)
		}

		expected := filepath.Join(os.TempDir(), "mediabot")
		if m.Dir() != expected {
			t.Errorf("Dir() = %v, want %v", m.Dir(), expected)
		}
	})
}

func TestManager_Acquire(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	t.Run("paths carry user id and extensions", func(t *testing.T) {
		pair, release := m.Acquire(42, ".mp4", ".mp4")
		defer release()

		if !strings.Contains(pair.Input, "in_42_") {
			t.Errorf("input path %q should contain 'in_42_'", pair.Input)
		}
		if !strings.Contains(pair.Output, "out_42_") {
			t.Errorf("output path %q should contain 'out_42_'", pair.Output)
		}
		if !strings.HasSuffix(pair.Input, ".mp4") {
			t.Errorf("input path %q should end with .mp4", pair.Input)
		}
	})

	t.Run("concurrent pairs for the same user never collide", func(t *testing.T) {
		first, releaseFirst := m.Acquire(7, ".png", ".png")
		defer releaseFirst()
		second, releaseSecond := m.Acquire(7, ".png", ".png")
		defer releaseSecond()

		if first.Input == second.Input {
			t.Errorf("two acquisitions returned the same input path %q", first.Input)
		}
		if first.Output == second.Output {
			t.Errorf("two acquisitions returned the same output path %q", first.Output)
		}
	})

	t.Run("release deletes both files", func(t *testing.T) {
		pair, release := m.Acquire(1, ".mp4", ".mp4")

		for _, p := range []string{pair.Input, pair.Output} {
			if err := os.WriteFile(p, []byte("data"), 0600); err != nil {
				t.Fatalf("failed to write %s: %v", p, err)
			}
		}

		release()

		for _, p := range []string{pair.Input, pair.Output} {
			if _, err := os.Stat(p); !os.IsNotExist(err) {
				t.Errorf("file %s still exists after release", p)
			}
		}
	})

	t.Run("release tolerates files that were never created", func(t *testing.T) {
		_, release := m.Acquire(2, ".png", ".png")
		// Neither file exists; release must not panic.
		release()
	})
}
