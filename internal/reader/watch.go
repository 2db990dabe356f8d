package reader

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce coalesces bursts of file events, such as a book being
// copied in several writes.
const DefaultDebounce = 500 * time.Millisecond

// Watcher reports changes to the EPUB files of a library directory.
type Watcher struct {
	dir      string
	debounce time.Duration
	log      *zap.Logger

	fsWatcher *fsnotify.Watcher
	changeCh  chan struct{}
	timer     *time.Timer
	mu        sync.Mutex
}

// Watch starts watching dir until ctx is done.
func Watch(ctx context.Context, dir string, debounce time.Duration, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}
	w := &Watcher{
		dir:       dir,
		debounce:  debounce,
		log:       log,
		fsWatcher: fsw,
		changeCh:  make(chan struct{}, 1),
	}
	go w.run(ctx)
	return w, nil
}

// Changed receives once per burst of changes.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changeCh
}

func (w *Watcher) run(ctx context.Context) {
	defer w.fsWatcher.Close()
	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !strings.EqualFold(filepath.Ext(event.Name), epubExt) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.log.Debug("Library changed", zap.String("file", event.Name), zap.String("op", event.Op.String()))
				w.trigger()
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("Library watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.notify)
}

func (w *Watcher) notify() {
	select {
	case w.changeCh <- struct{}{}:
	default:
	}
}
