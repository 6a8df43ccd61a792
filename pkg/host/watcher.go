package host

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce coalesces bursts of writes to the project file.
const DefaultDebounce = 100 * time.Millisecond

// Watch emits a ProjectChange whenever the project named by the marker
// file switches. The marker's directory is watched so that atomic
// replacements are seen. The channel closes when ctx is done.
func (s *FileSource) Watch(ctx context.Context, debounce time.Duration, logger *logrus.Entry) (<-chan ProjectChange, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	logger = logger.WithField("sub-component", "project-watcher")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	current, err := s.CurrentProject()
	if err != nil {
		logger.WithError(err).Warn("Could not read initial project")
	}

	changes := make(chan ProjectChange, 8)
	target := filepath.Clean(s.path)

	go func() {
		defer watcher.Close()

		var (
			mu     sync.Mutex
			timer  *time.Timer
			closed bool
		)
		defer func() {
			mu.Lock()
			closed = true
			if timer != nil {
				timer.Stop()
			}
			mu.Unlock()
			close(changes)
		}()

		check := func() {
			mu.Lock()
			defer mu.Unlock()
			if closed {
				return
			}
			next, err := s.CurrentProject()
			if err != nil {
				logger.WithError(err).Warn("Could not read project file")
				return
			}
			if SameProject(current, next) {
				return
			}
			change := ProjectChange{Previous: current, Current: next}
			current = next
			select {
			case changes <- change:
			default:
				logger.Warn("Dropping project change, consumer is not keeping up")
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				mu.Lock()
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(debounce, check)
				mu.Unlock()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.WithError(err).Debug("Watcher error")
			}
		}
	}()

	return changes, nil
}
