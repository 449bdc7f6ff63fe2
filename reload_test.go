package dieselvk

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReloadFlag(t *testing.T) {
	var f ReloadFlag
	assert.False(t, f.Consume())

	f.Signal()
	f.Signal()
	assert.True(t, f.Pending())
	assert.True(t, f.Consume())
	assert.False(t, f.Consume(), "signals collapse into one rebuild")
	assert.False(t, f.Pending())
}

func TestReloadFlagConcurrentSignal(t *testing.T) {
	var f ReloadFlag
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				f.Signal()
			}
		}()
	}
	consumed := 0
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
loop:
	for {
		select {
		case <-done:
			break loop
		default:
			if f.Consume() {
				consumed++
			}
		}
	}
	if f.Consume() {
		consumed++
	}
	assert.GreaterOrEqual(t, consumed, 1)
	assert.LessOrEqual(t, consumed, 1600)
	assert.False(t, f.Pending())
}

func startWatcher(t *testing.T, path string, flag *ReloadFlag) {
	t.Helper()
	w, err := NewShaderWatcher(path, flag)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
		assert.NoError(t, w.Close())
	})
}

func TestShaderWatcherSignalsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.frag.spv")
	require.NoError(t, os.WriteFile(path, []byte{1}, 0o644))

	flag := &ReloadFlag{}
	startWatcher(t, path, flag)

	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3, 4}, 0o644))
	assert.Eventually(t, flag.Pending, 2*time.Second, 10*time.Millisecond)
}

func TestShaderWatcherSignalsOnReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.frag.spv")
	require.NoError(t, os.WriteFile(path, []byte{1}, 0o644))

	flag := &ReloadFlag{}
	startWatcher(t, path, flag)

	tmp := filepath.Join(dir, "sample.frag.spv.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte{1, 2, 3, 4}, 0o644))
	require.NoError(t, os.Rename(tmp, path))
	assert.Eventually(t, flag.Pending, 2*time.Second, 10*time.Millisecond)
}

func TestShaderWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.frag.spv")
	require.NoError(t, os.WriteFile(path, []byte{1}, 0o644))

	flag := &ReloadFlag{}
	startWatcher(t, path, flag)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "sample.vert.spv"), []byte{1}, 0o644))
	assert.Never(t, flag.Pending, 200*time.Millisecond, 10*time.Millisecond)
}

func TestShaderWatcherMissingDir(t *testing.T) {
	_, err := NewShaderWatcher(filepath.Join(t.TempDir(), "missing", "a.spv"), &ReloadFlag{})
	assert.Error(t, err)
}
