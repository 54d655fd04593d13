// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package compiler

import (
	"context"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes to a source file.
type Watcher struct {
	Verbose bool // If set, logs each file event.

	path string
	w    *fsnotify.Watcher
}

// NewWatcher starts watching the source file at path. The containing
// directory is watched, so editors that replace the file are seen.
func NewWatcher(path string) (watcher *Watcher, err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		err = &ErrIO{Op: ErrWatch, Path: path, Err: err}
		return
	}

	err = w.Add(filepath.Dir(path))
	if err != nil {
		w.Close()
		err = &ErrIO{Op: ErrWatch, Path: path, Err: err}
		return
	}

	watcher = &Watcher{
		path: filepath.Clean(path),
		w:    w,
	}
	return
}

// Close stops watching.
func (watcher *Watcher) Close() error {
	return watcher.w.Close()
}

// Run calls changed each time the source file is written or replaced,
// until ctx is done or the watcher fails.
func (watcher *Watcher) Run(ctx context.Context, changed func()) (err error) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.w.Events:
			if !ok {
				return
			}
			if watcher.Verbose {
				log.Printf("watch: %v", ev)
			}
			if filepath.Clean(ev.Name) != watcher.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			changed()
		case werr, ok := <-watcher.w.Errors:
			if !ok {
				return
			}
			err = &ErrIO{Op: ErrWatch, Path: watcher.path, Err: werr}
			return
		}
	}
}
