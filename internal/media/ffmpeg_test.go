package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// skipIfNoFFmpeg skips the test if ffmpeg is not available.
func skipIfNoFFmpeg(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found in PATH, skipping test")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not found in PATH, skipping test")
	}
}

// createTestVideo creates a simple test video using ffmpeg.
func createTestVideo(t *testing.T, path string, duration float64, width, height int) {
	t.Helper()

	// Solid color video with silent audio
	cmd := exec.Command("ffmpeg",
		"-y",
		"-f", "lavfi",
		"-i", fmt.Sprintf("color=c=red:s=%dx%d:d=%.1f", width, height, duration),
		"-f", "lavfi",
		"-i", fmt.Sprintf("anullsrc=r=44100:cl=mono:d=%.1f", duration),
		"-c:v", "libx264",
		"-preset", "ultrafast",
		"-c:a", "aac",
		"-shortest",
		path,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to create test video: %v\noutput: %s", err, output)
	}
}

func TestNewFFmpegConverter(t *testing.T) {
	t.Run("default path", func(t *testing.T) {
		c, err := NewFFmpegConverter("", 60)
		if err != nil {
			t.Fatalf("NewFFmpegConverter() error = %v", err)
		}
		if c.ffmpegPath != "ffmpeg" {
			t.Errorf("expected default path 'ffmpeg', got %q", c.ffmpegPath)
		}
	})

	t.Run("custom path", func(t *testing.T) {
		c, err := NewFFmpegConverter("/usr/local/bin/ffmpeg", 60)
		if err != nil {
			t.Fatalf("NewFFmpegConverter() error = %v", err)
		}
		if c.ffmpegPath != "/usr/local/bin/ffmpeg" {
			t.Errorf("expected custom path, got %q", c.ffmpegPath)
		}
	})

	t.Run("non-positive max duration rejected", func(t *testing.T) {
		_, err := NewFFmpegConverter("", 0)
		if !errors.Is(err, ErrInvalidMaxDuration) {
			t.Errorf("expected ErrInvalidMaxDuration, got %v", err)
		}
	})
}

func TestProbe(t *testing.T) {
	skipIfNoFFmpeg(t)

	tmpDir := t.TempDir()
	c, err := NewFFmpegConverter("", 60)
	if err != nil {
		t.Fatalf("NewFFmpegConverter() error = %v", err)
	}

	t.Run("returns dimensions and duration", func(t *testing.T) {
		src := filepath.Join(tmpDir, "probe.mp4")
		createTestVideo(t, src, 2.0, 128, 72)

		info, err := c.Probe(context.Background(), src)
		if err != nil {
			t.Fatalf("Probe() error = %v", err)
		}

		if info.Width != 128 || info.Height != 72 {
			t.Errorf("got %dx%d, want 128x72", info.Width, info.Height)
		}
		if info.Duration < 1.5 || info.Duration > 2.5 {
			t.Errorf("got duration %.2f, want ~2.0", info.Duration)
		}
	})

	t.Run("missing file fails", func(t *testing.T) {
		_, err := c.Probe(context.Background(), filepath.Join(tmpDir, "nope.mp4"))
		if !errors.Is(err, ErrFFprobeExecution) {
			t.Errorf("expected ErrFFprobeExecution, got %v", err)
		}
	})
}

func TestConvertToNote(t *testing.T) {
	skipIfNoFFmpeg(t)

	tmpDir := t.TempDir()

	t.Run("landscape clip becomes a square note", func(t *testing.T) {
		c, err := NewFFmpegConverter("", 60)
		if err != nil {
			t.Fatalf("NewFFmpegConverter() error = %v", err)
		}

		src := filepath.Join(tmpDir, "landscape.mp4")
		dst := filepath.Join(tmpDir, "note.mp4")
		createTestVideo(t, src, 2.0, 192, 108)

		if err := c.ConvertToNote(context.Background(), src, dst); err != nil {
			t.Fatalf("ConvertToNote() error = %v", err)
		}

		info, err := c.Probe(context.Background(), dst)
		if err != nil {
			t.Fatalf("Probe() error = %v", err)
		}
		if info.Width != NoteSize || info.Height != NoteSize {
			t.Errorf("got %dx%d, want %dx%d", info.Width, info.Height, NoteSize, NoteSize)
		}
	})

	t.Run("duration ceiling is applied from the start", func(t *testing.T) {
		// Ceiling of 2s against a 4s clip mirrors the production 60s cap.
		c, err := NewFFmpegConverter("", 2)
		if err != nil {
			t.Fatalf("NewFFmpegConverter() error = %v", err)
		}

		src := filepath.Join(tmpDir, "long.mp4")
		dst := filepath.Join(tmpDir, "capped.mp4")
		createTestVideo(t, src, 4.0, 96, 96)

		if err := c.ConvertToNote(context.Background(), src, dst); err != nil {
			t.Fatalf("ConvertToNote() error = %v", err)
		}

		info, err := c.Probe(context.Background(), dst)
		if err != nil {
			t.Fatalf("Probe() error = %v", err)
		}
		if info.Duration > 2.5 {
			t.Errorf("got duration %.2f, want <= 2.5", info.Duration)
		}
	})

	t.Run("corrupt input surfaces FFmpegError", func(t *testing.T) {
		c, err := NewFFmpegConverter("", 60)
		if err != nil {
			t.Fatalf("NewFFmpegConverter() error = %v", err)
		}

		src := filepath.Join(tmpDir, "garbage.mp4")
		dst := filepath.Join(tmpDir, "out.mp4")
		if err := os.WriteFile(src, []byte("not a video"), 0600); err != nil {
			t.Fatalf("failed to write garbage file: %v", err)
		}

		err = c.ConvertToNote(context.Background(), src, dst)
		if err == nil {
			t.Fatal("expected error for corrupt input")
		}
		var ffErr *FFmpegError
		if !errors.As(err, &ffErr) {
			t.Errorf("expected *FFmpegError, got %T", err)
		}
		if ffErr != nil && ffErr.Stderr == "" {
			t.Error("expected stderr detail in FFmpegError")
		}
	})
}
