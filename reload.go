package dieselvk

import (
	"context"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// ReloadFlag is the one value shared between the shader watcher and the render loop.
// It is a level: any number of signals before a Consume yield one rebuild.
type ReloadFlag struct {
	pending atomic.Bool
}

// Signal marks the fragment shader as changed.
func (f *ReloadFlag) Signal() {
	f.pending.Store(true)
}

// Consume reports whether a change was signaled and clears the flag.
func (f *ReloadFlag) Consume() bool {
	return f.pending.Swap(false)
}

// Pending reports the flag without clearing it.
func (f *ReloadFlag) Pending() bool {
	return f.pending.Load()
}

// ShaderWatcher sets a ReloadFlag whenever one shader file is written or created.
// The parent directory is watched so that tools which replace the file still trigger it.
type ShaderWatcher struct {
	path    string
	flag    *ReloadFlag
	watcher *fsnotify.Watcher
}

func NewShaderWatcher(path string, flag *ReloadFlag) (*ShaderWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(err, "watch")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "watch")
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, errors.Wrapf(err, "watch %s", filepath.Dir(abs))
	}
	return &ShaderWatcher{path: abs, flag: flag, watcher: watcher}, nil
}

// Run blocks until ctx is done or the watcher is closed.
func (w *ShaderWatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.matches(event) {
				Logger().Info("shader changed", "path", event.Name, "op", event.Op.String())
				w.flag.Signal()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			Logger().Warn("shader watcher error", "err", err)
		}
	}
}

func (w *ShaderWatcher) matches(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return name == w.path
}

func (w *ShaderWatcher) Close() error {
	return w.watcher.Close()
}
