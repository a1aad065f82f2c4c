// Package media provides the video transformation capability used by the
// pipeline: turning an arbitrary clip into a short square loop suitable
// for a Telegram video note.
package media

import "context"

// Info describes a probed media file.
type Info struct {
	// Duration is the clip length in seconds.
	Duration float64
	// Width is the frame width in pixels.
	Width int
	// Height is the frame height in pixels.
	Height int
}

// Converter defines the video transformation interface.
// Implementations should use ffmpeg or similar tools.
type Converter interface {
	// Probe returns duration and dimensions of the media file at path.
	Probe(ctx context.Context, path string) (Info, error)

	// ConvertToNote transforms the clip at inputPath into a square loop:
	// the clip is truncated to the configured duration ceiling, cropped to
	// a centered square of side min(width, height), scaled to the note
	// size, and encoded with H.264 video and AAC audio at outputPath.
	ConvertToNote(ctx context.Context, inputPath, outputPath string) error
}
