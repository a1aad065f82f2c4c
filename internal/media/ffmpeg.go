package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// NoteSize is the output side length of a converted video note in pixels.
const NoteSize = 400

// Static errors for media operations.
var (
	// ErrFFprobeExecution is returned when ffprobe command fails.
	ErrFFprobeExecution = errors.New("ffprobe execution failed")
	// ErrInvalidMaxDuration is returned when the duration ceiling is not positive.
	ErrInvalidMaxDuration = errors.New("invalid max duration: must be positive")
)

// FFmpegConverter implements Converter using the ffmpeg CLI.
type FFmpegConverter struct {
	// ffmpegPath is the path to the ffmpeg binary. Defaults to "ffmpeg".
	ffmpegPath string
	// maxDurationSec is the duration ceiling applied before encoding.
	maxDurationSec int
}

// NewFFmpegConverter creates a new FFmpegConverter.
// If ffmpegPath is empty, it defaults to "ffmpeg" (found via PATH).
func NewFFmpegConverter(ffmpegPath string, maxDurationSec int) (*FFmpegConverter, error) {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if maxDurationSec <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMaxDuration, maxDurationSec)
	}
	return &FFmpegConverter{
		ffmpegPath:     ffmpegPath,
		maxDurationSec: maxDurationSec,
	}, nil
}

// Probe returns duration and dimensions of the media file at path.
// It uses ffprobe to extract the stream metadata.
func (c *FFmpegConverter) Probe(ctx context.Context, path string) (Info, error) {
	// #nosec G204 - path comes from our own temp file manager
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height:format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() != nil {
			return Info{}, fmt.Errorf("ffprobe cancelled: %w", ctx.Err())
		}
		return Info{}, fmt.Errorf("%w: %w, stderr: %s", ErrFFprobeExecution, err, stderr.String())
	}

	// ffprobe prints width, height and duration one per line.
	fields := strings.Fields(stdout.String())
	if len(fields) < 3 {
		return Info{}, fmt.Errorf("%w: unexpected output %q", ErrFFprobeExecution, stdout.String())
	}

	var info Info
	if info.Width, err = strconv.Atoi(fields[0]); err != nil {
		return Info{}, fmt.Errorf("parse width: %w", err)
	}
	if info.Height, err = strconv.Atoi(fields[1]); err != nil {
		return Info{}, fmt.Errorf("parse height: %w", err)
	}
	if info.Duration, err = strconv.ParseFloat(fields[2], 64); err != nil {
		return Info{}, fmt.Errorf("parse duration: %w", err)
	}

	return info, nil
}

// ConvertToNote transforms the clip at inputPath into a square loop.
// The filter crops a centered square of side min(iw,ih) and scales it to
// NoteSize x NoteSize; -t caps the duration from the start of the clip.
func (c *FFmpegConverter) ConvertToNote(ctx context.Context, inputPath, outputPath string) error {
	filter := fmt.Sprintf("crop='min(iw,ih)':'min(iw,ih)',scale=%d:%d", NoteSize, NoteSize)

	args := []string{
		"-y",            // Overwrite output file without asking
		"-i", inputPath, // Input file
		"-t", strconv.Itoa(c.maxDurationSec), // Duration ceiling from the start
		"-vf", filter, // Centered square crop + scale
		"-c:v", "libx264", // Video codec
		"-preset", "fast", // Encoding speed preset
		"-pix_fmt", "yuv420p", // Pixel format for player compatibility
		"-c:a", "aac", // Audio codec
		outputPath,
	}

	return c.runFFmpeg(ctx, args)
}

// runFFmpeg executes ffmpeg with the given arguments and returns an error
// containing stderr output if the command fails.
func (c *FFmpegConverter) runFFmpeg(ctx context.Context, args []string) error {
	// #nosec G204 - ffmpegPath is set by the application, not user input
	cmd := exec.CommandContext(ctx, c.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		// Check if context was cancelled
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpeg cancelled: %w", ctx.Err())
		}
		return &FFmpegError{
			Args:   args,
			Stderr: stderr.String(),
			Err:    err,
		}
	}

	return nil
}

// FFmpegError represents an error from running ffmpeg, including the stderr output.
type FFmpegError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *FFmpegError) Error() string {
	return fmt.Sprintf("ffmpeg error: %v\nargs: %v\nstderr: %s", e.Err, e.Args, e.Stderr)
}

func (e *FFmpegError) Unwrap() error {
	return e.Err
}

// Compile-time check that FFmpegConverter implements Converter.
var _ Converter = (*FFmpegConverter)(nil)
