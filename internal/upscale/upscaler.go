// Package upscale provides the super-resolution capability used by the
// pipeline: enhancing a user-submitted image by a fixed scale factor with
// a pretrained Real-ESRGAN model.
package upscale

import "context"

// Upscaler defines the image enhancement interface.
type Upscaler interface {
	// Enhance reads the image at inputPath, upscales it by the configured
	// factor and writes the result to outputPath.
	Enhance(ctx context.Context, inputPath, outputPath string) error

	// Scale returns the configured upscale factor.
	Scale() int
}
