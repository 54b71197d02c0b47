package file

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher notifies external readers (the trading process) when the
// credential file is rewritten, so they can reload instead of polling.
//
// The parent directory is watched rather than the file itself: the atomic
// rename used by Store.save replaces the inode, which would silently
// detach a file-level watch. Rename+create bursts from a single save are
// coalesced into one notification.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	events  chan struct{}
	done    chan struct{}
}

// debounce window for coalescing the event burst of one atomic replace.
const watchDebounce = 100 * time.Millisecond

// NewWatcher starts watching the given config file for rewrites.
func NewWatcher(path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher: fw,
		path:    filepath.Clean(path),
		events:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Events returns a channel that receives one value per observed rewrite.
// The channel is closed when the watcher is closed.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	defer close(w.events)

	var debounce *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(watchDebounce)
				fire = debounce.C
			} else {
				debounce.Reset(watchDebounce)
			}
		case <-fire:
			debounce = nil
			fire = nil
			select {
			case w.events <- struct{}{}:
			default:
			}
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}
