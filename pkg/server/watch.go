package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/starlake-ai/starlake-site-builder/pkg/metadata"
)

// Watcher reports changes below the metadata directories.
type Watcher struct {
	watcher  *fsnotify.Watcher
	onChange func(path string)
	logger   *log.Logger
}

// MetadataDirs lists the directories to watch for the given base paths:
// each base itself plus the metadata subdirectories that exist.
func MetadataDirs(bases ...string) []string {
	seen := map[string]bool{}
	var dirs []string
	add := func(dir string) {
		if seen[dir] {
			return
		}
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	for _, base := range bases {
		if base == "" {
			continue
		}
		add(base)
		for _, sub := range []string{metadata.TablesDir, metadata.TableRelationsDir, metadata.TasksDir, metadata.TaskLineageDir} {
			add(filepath.Join(base, sub))
		}
	}
	return dirs
}

// NewWatcher watches dirs and calls onChange for every create, write,
// remove or rename below them.
func NewWatcher(dirs []string, onChange func(path string), logger *log.Logger) (*Watcher, error) {
	if logger == nil {
		logger = log.Default()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
		logger.Debug("watching metadata", "dir", dir)
	}
	return &Watcher{watcher: w, onChange: onChange, logger: logger}, nil
}

// Run delivers events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	const relevant = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&relevant != 0 {
				w.logger.Debug("metadata changed", "path", event.Name, "op", event.Op.String())
				w.onChange(event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			if !errors.Is(err, fsnotify.ErrEventOverflow) {
				w.logger.Warn("watch error", "error", err)
				continue
			}
			// Events were lost; treat it as a change.
			w.onChange("")
		case <-ctx.Done():
			return nil
		}
	}
}
