package aio

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchPreset(t *testing.T) {
	dev, fake := openFake(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "bench.toml")

	initial := &Preset{Inputs: []InputPreset{{Channel: 0, Gain: 10}}}
	require.NoError(t, initial.Save(path))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- WatchPreset(ctx, path, dev, slog.Default())
	}()

	// Give the watcher time to install before touching the file.
	time.Sleep(100 * time.Millisecond)

	updated := &Preset{Inputs: []InputPreset{{Channel: 0, Gain: 55}}}
	require.NoError(t, updated.Save(path))

	assert.Eventually(t, func() bool {
		return fake.inputGainValue(0) == 55
	}, 5*time.Second, 10*time.Millisecond, "preset change should be applied")

	// A broken preset is logged and skipped, the watch keeps running.
	require.NoError(t, os.WriteFile(path, []byte("inputs = broken"), 0o644))

	followup := &Preset{Inputs: []InputPreset{{Channel: 0, Gain: 20}}}
	require.NoError(t, followup.Save(path))

	assert.Eventually(t, func() bool {
		return fake.inputGainValue(0) == 20
	}, 5*time.Second, 10*time.Millisecond, "watch should survive a broken preset")

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatchPresetMissingDir(t *testing.T) {
	dev, _ := openFake(t)

	err := WatchPreset(context.Background(), "/nonexistent/dir/bench.toml", dev, nil)
	assert.Error(t, err)
}
