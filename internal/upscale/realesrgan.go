package upscale

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

// Device identifies the execution device for model inference.
type Device string

const (
	// DeviceGPU runs inference on the first available GPU.
	DeviceGPU Device = "gpu"
	// DeviceCPU runs inference on the CPU.
	DeviceCPU Device = "cpu"
)

// Static errors for upscaler construction and execution.
var (
	// ErrModelNotFound is returned when the model weights are missing.
	// This is a fatal startup condition, not a per-request error.
	ErrModelNotFound = errors.New("upscale: model weights not found")
	// ErrInvalidScale is returned when the scale factor is out of range.
	ErrInvalidScale = errors.New("upscale: scale factor must be between 2 and 4")
)

// RealESRGAN implements Upscaler by invoking the realesrgan-ncnn binary.
// The instance is a long-lived singleton shared across requests; the model
// is stateless across calls, so concurrent invocations on distinct file
// pairs are safe.
type RealESRGAN struct {
	binaryPath string
	modelDir   string
	modelName  string
	scale      int
	device     Device
}

// Option configures a RealESRGAN instance.
type Option func(*RealESRGAN)

// WithBinary overrides the runner binary path.
// Defaults to "realesrgan-ncnn-vulkan" found via PATH.
func WithBinary(path string) Option {
	return func(u *RealESRGAN) {
		if path != "" {
			u.binaryPath = path
		}
	}
}

// WithDevice pins the execution device instead of probing for a GPU.
func WithDevice(device Device) Option {
	return func(u *RealESRGAN) {
		u.device = device
	}
}

// New creates a RealESRGAN upscaler.
// It fails fast with ErrModelNotFound if the model weights file is absent
// from modelDir: callers are expected to abort startup on that error. The
// execution device is selected once here, GPU if one is visible, else CPU.
func New(modelDir, modelName string, scale int, opts ...Option) (*RealESRGAN, error) {
	if scale < 2 || scale > 4 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidScale, scale)
	}

	u := &RealESRGAN{
		binaryPath: "realesrgan-ncnn-vulkan",
		modelDir:   modelDir,
		modelName:  modelName,
		scale:      scale,
	}
	for _, opt := range opts {
		opt(u)
	}

	weights := filepath.Join(modelDir, modelName+".bin")
	if _, err := os.Stat(weights); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, weights)
	}

	if u.device == "" {
		u.device = detectDevice()
	}

	return u, nil
}

// ModelPath returns the path of the model weights file.
func (u *RealESRGAN) ModelPath() string {
	return filepath.Join(u.modelDir, u.modelName+".bin")
}

// Device returns the selected execution device.
func (u *RealESRGAN) Device() Device {
	return u.device
}

// Scale returns the configured upscale factor.
func (u *RealESRGAN) Scale() int {
	return u.scale
}

// Enhance reads the image at inputPath, runs the model and writes the
// upscaled result to outputPath. The runner decodes to three color
// channels, so alpha is not preserved.
func (u *RealESRGAN) Enhance(ctx context.Context, inputPath, outputPath string) error {
	gpuID := "0"
	if u.device == DeviceCPU {
		gpuID = "-1"
	}

	args := []string{
		"-i", inputPath,
		"-o", outputPath,
		"-n", u.modelName,
		"-m", u.modelDir,
		"-s", strconv.Itoa(u.scale),
		"-g", gpuID,
	}

	// #nosec G204 - binaryPath is set by the application, not user input
	cmd := exec.CommandContext(ctx, u.binaryPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("upscale cancelled: %w", ctx.Err())
		}
		return &RunError{
			Args:   args,
			Stderr: stderr.String(),
			Err:    err,
		}
	}

	// The runner exits zero even on some decode failures; require output.
	if _, err := os.Stat(outputPath); err != nil {
		return &RunError{
			Args:   args,
			Stderr: stderr.String(),
			Err:    fmt.Errorf("no output produced: %w", err),
		}
	}

	return nil
}

// detectDevice returns DeviceGPU when a render node is visible, else DeviceCPU.
func detectDevice() Device {
	nodes, err := filepath.Glob("/dev/dri/renderD*")
	if err == nil && len(nodes) > 0 {
		return DeviceGPU
	}
	return DeviceCPU
}

// RunError represents a failed upscaler invocation, including stderr output.
type RunError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("upscale error: %v\nargs: %v\nstderr: %s", e.Err, e.Args, e.Stderr)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// Compile-time check that RealESRGAN implements Upscaler.
var _ Upscaler = (*RealESRGAN)(nil)
