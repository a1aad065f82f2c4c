package upscale

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeModel drops a fake weights file into dir so construction succeeds.
func writeModel(t *testing.T, dir, name string) {
	t.Helper()
	path := filepath.Join(dir, name+".bin")
	require.NoError(t, os.WriteFile(path, []byte("weights"), 0600))
}

func TestNew(t *testing.T) {
	t.Run("missing model fails fast", func(t *testing.T) {
		_, err := New(t.TempDir(), "realesr-general-x4v3", 4)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrModelNotFound)
	})

	t.Run("present model succeeds", func(t *testing.T) {
		dir := t.TempDir()
		writeModel(t, dir, "realesr-general-x4v3")

		u, err := New(dir, "realesr-general-x4v3", 4)
		require.NoError(t, err)
		assert.Equal(t, 4, u.Scale())
		assert.Equal(t, filepath.Join(dir, "realesr-general-x4v3.bin"), u.ModelPath())
		assert.NotEmpty(t, u.Device())
	})

	t.Run("invalid scale rejected", func(t *testing.T) {
		dir := t.TempDir()
		writeModel(t, dir, "m")

		_, err := New(dir, "m", 8)
		assert.ErrorIs(t, err, ErrInvalidScale)

		_, err = New(dir, "m", 1)
		assert.ErrorIs(t, err, ErrInvalidScale)
	})

	t.Run("device can be pinned", func(t *testing.T) {
		dir := t.TempDir()
		writeModel(t, dir, "m")

		u, err := New(dir, "m", 4, WithDevice(DeviceCPU))
		require.NoError(t, err)
		assert.Equal(t, DeviceCPU, u.Device())
	})
}

func TestEnhance_MissingBinary(t *testing.T) {
	dir := t.TempDir()
	writeModel(t, dir, "m")

	u, err := New(dir, "m", 4,
		WithBinary(filepath.Join(dir, "no-such-binary")),
		WithDevice(DeviceCPU),
	)
	require.NoError(t, err)

	err = u.Enhance(context.Background(), filepath.Join(dir, "in.png"), filepath.Join(dir, "out.png"))
	require.Error(t, err)

	var runErr *RunError
	assert.ErrorAs(t, err, &runErr)
}

func TestEnhance_FakeRunner(t *testing.T) {
	dir := t.TempDir()
	writeModel(t, dir, "m")

	t.Run("success requires produced output", func(t *testing.T) {
		// A runner that exits zero without writing output must still fail.
		runner := filepath.Join(dir, "noop-runner")
		script := "#!/bin/sh\nexit 0\n"
		require.NoError(t, os.WriteFile(runner, []byte(script), 0700))

		u, err := New(dir, "m", 4, WithBinary(runner), WithDevice(DeviceCPU))
		require.NoError(t, err)

		err = u.Enhance(context.Background(), filepath.Join(dir, "in.png"), filepath.Join(dir, "out.png"))
		require.Error(t, err)

		var runErr *RunError
		assert.ErrorAs(t, err, &runErr)
	})

	t.Run("output written means success", func(t *testing.T) {
		// A runner that writes its -o argument simulates a good run.
		runner := filepath.Join(dir, "ok-runner")
		script := "#!/bin/sh\nwhile [ $# -gt 0 ]; do\n  if [ \"$1\" = \"-o\" ]; then out=\"$2\"; fi\n  shift\ndone\necho done > \"$out\"\n"
		require.NoError(t, os.WriteFile(runner, []byte(script), 0700))

		u, err := New(dir, "m", 4, WithBinary(runner), WithDevice(DeviceCPU))
		require.NoError(t, err)

		out := filepath.Join(dir, "out-ok.png")
		require.NoError(t, u.Enhance(context.Background(), filepath.Join(dir, "in.png"), out))

		_, err = os.Stat(out)
		assert.NoError(t, err)
	})
}
