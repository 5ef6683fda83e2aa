package status

import (
	"context"
	"path/filepath"

	"codeberg.org/mutker/wheelspeed/internal/errors"
	"codeberg.org/mutker/wheelspeed/internal/logger"
	"github.com/fsnotify/fsnotify"
)

// Watcher follows the status file and emits each new snapshot.
type Watcher struct {
	path   string
	logger logger.Logger
}

func NewWatcher(path string, log logger.Logger) *Watcher {
	return &Watcher{path: filepath.Clean(path), logger: log}
}

// Watch emits the current snapshot, if any, and then one snapshot per
// replacement of the file. The parent directory is watched rather than the
// file because FileWriter swaps the inode on every write. The channel closes
// when ctx is done.
func (w *Watcher) Watch(ctx context.Context) (<-chan Snapshot, error) {
	errFactory := errors.New()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errFactory.Wrap(ErrWatchFailed, err)
	}

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		watcher.Close()
		return nil, errFactory.Wrap(ErrWatchFailed, err)
	}

	out := make(chan Snapshot)

	go func() {
		defer close(out)
		defer watcher.Close()

		emit := func() bool {
			snapshot, err := Read(w.path)
			if err != nil {
				w.logger.Debug().Err(err).Str("path", w.path).Msg("Status not readable yet")
				return true
			}

			select {
			case out <- snapshot:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit() {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				if filepath.Clean(event.Name) != w.path {
					continue
				}

				// Only emit on write or create events
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}

				if !emit() {
					return
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				w.logger.Warn().Err(err).Msg("Status watcher error")
			}
		}
	}()

	return out, nil
}
