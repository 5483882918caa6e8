package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

const debounceInterval = 50 * time.Millisecond

// FSChangeMsg is sent when one of the watched files changes.
type FSChangeMsg struct {
	Path string
	Time time.Time
}

// Watcher reports changes to a fixed set of files. The parent directories are watched rather than
// the files themselves so editors that replace a file on save are still observed.
type Watcher struct {
	watcher    *fsnotify.Watcher
	files      map[string]bool
	isWatching bool
}

// NewWatcher starts watching paths.
func NewWatcher(paths ...string) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, errors.New("no files to watch")
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher: fsWatcher,
		files:   make(map[string]bool, len(paths)),
	}
	dirs := make(map[string]bool)
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			_ = fsWatcher.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsWatcher.Add(dir); err != nil {
			_ = fsWatcher.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	w.isWatching = true
	return w, nil
}

// WaitForChange waits for the next change to a watched file.
func (w *Watcher) WaitForChange() tea.Cmd {
	return func() tea.Msg {
		if w == nil || !w.isWatching {
			return errMsg{errors.New("watcher is not running")}
		}

		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return errMsg{errors.New("watcher closed")}
				}
				if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				name, err := filepath.Abs(event.Name)
				if err != nil || !w.files[name] {
					continue
				}
				// Editors often write a file in several steps.
				time.Sleep(debounceInterval)
				w.drain()
				return FSChangeMsg{Path: name, Time: time.Now()}

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return errMsg{errors.New("watcher closed")}
				}
				return errMsg{err}
			}
		}
	}
}

// drain drops events that queued up during the debounce interval.
func (w *Watcher) drain() {
	for {
		select {
		case _, ok := <-w.watcher.Events:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	if w == nil || !w.isWatching {
		return nil
	}
	w.isWatching = false
	return w.watcher.Close()
}
