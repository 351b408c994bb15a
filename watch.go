package ikona

import "sync"
import "time"
import "log/slog"

import "github.com/fsnotify/fsnotify"

// Settle time after the last filesystem event before reloading; file
// managers tend to emit bursts of writes for a single copy.
const watchDebounce = 500 * time.Millisecond

// Keeps the user image table in sync with a directory: performs an
// initial [TextureCache.LoadDirectory] and re-runs it (debounced)
// whenever files in the directory change. If a reload is rejected
// because loads are outstanding, it retries after another debounce.
//
// Returns a stop function that ends the watch; stopping twice is
// harmless. Watching ends implicitly if the cache is disposed.
func (self *TextureCache) WatchUserDirectory(dir string) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil { return nil, err }
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}
	if !self.LoadDirectory(dir) {
		self.config.Logger.Warn("initial user image load deferred", slog.String("dir", dir))
	}

	done := make(chan struct{})
	go self.watchLoop(watcher, dir, done)

	var once sync.Once
	stop := func() {
		once.Do(func() {
			close(done)
			watcher.Close()
		})
	}
	return stop, nil
}

func (self *TextureCache) watchLoop(watcher *fsnotify.Watcher, dir string, done <-chan struct{}) {
	debounce := time.NewTimer(watchDebounce)
	if !debounce.Stop() { <-debounce.C }
	rearm := func() {
		if !debounce.Stop() {
			select {
			case <-debounce.C:
			default:
			}
		}
		debounce.Reset(watchDebounce)
	}

	for {
		select {
		case <-done:
			return
		case event, ok := <-watcher.Events:
			if !ok { return }
			relevant := fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename
			if event.Op&relevant != 0 { rearm() }
		case err, ok := <-watcher.Errors:
			if !ok { return }
			self.config.Logger.Warn("user image watch error",
				slog.String("dir", dir), slog.Any("error", err))
		case <-debounce.C:
			if self.isDisposed() { return }
			if !self.LoadDirectory(dir) { rearm() } // busy, try again shortly
		}
	}
}
