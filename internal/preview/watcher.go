package preview

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// WatchEvent carries either a reloaded config or the error that stopped the
// reload.
type WatchEvent struct {
	Config *Config
	Error  error
}

// Watcher reloads the config file whenever it changes on disk.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	events  chan WatchEvent
	done    chan struct{}
	mu      sync.Mutex
	running bool
}

// NewWatcher creates a watcher for the config at path.
func NewWatcher(path string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &Watcher{
		path:    path,
		watcher: w,
		events:  make(chan WatchEvent, 10),
		done:    make(chan struct{}),
	}, nil
}

// Events returns the channel of reloads. It is closed by Stop.
func (w *Watcher) Events() <-chan WatchEvent {
	return w.events
}

// Start begins watching. The file must exist.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}
	if err := w.watcher.Add(w.path); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.path, err)
	}

	w.running = true
	go w.processEvents()
	return nil
}

// Stop stops watching and closes the events channel.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		w.watcher.Close()
		return
	}
	w.running = false
	close(w.done)
	w.watcher.Close()
}

func (w *Watcher) processEvents() {
	defer close(w.events)
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			switch {
			case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
				w.reload()
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				// Editors often replace the file; watch the new one if it is there.
				if err := w.watcher.Add(w.path); err == nil {
					w.reload()
				} else {
					w.send(WatchEvent{Error: fmt.Errorf("%s was removed", w.path)})
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.send(WatchEvent{Error: err})
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.send(WatchEvent{Error: err})
		return
	}
	w.send(WatchEvent{Config: cfg})
}

func (w *Watcher) send(ev WatchEvent) {
	select {
	case w.events <- ev:
	case <-w.done:
	}
}
