package ikona

import "os"
import "errors"
import "image"
import "log/slog"
import "path/filepath"
import "strconv"
import "strings"
import "sync"
import "sync/atomic"

import "golang.org/x/sync/errgroup"

// A TextureCache lazily loads, decodes, square-pads and uploads icon
// textures on demand. Lookups never block: a miss schedules a
// background decode and returns nil, and a later lookup picks up the
// populated entry. Construct one instance per rendering variant (e.g.
// standard and hires) with [New].
type TextureCache struct {
	config Config
	store *entryStore
	scheduler *loadScheduler
	evictor *evictor

	tablesMutex sync.RWMutex
	pathOverrides map[Key]string // sources routed through the decode pipeline
	imageOverrides map[Key]string // display-ready files uploaded directly

	disposed uint32 // atomic
}

// Creates a texture cache for the given configuration. Config.Data and
// Config.Ticks are mandatory; see [Config] for everything else.
func New(config Config) (*TextureCache, error) {
	if config.Data == nil { return nil, errors.New("ikona: Config.Data is required") }
	if config.Ticks == nil { return nil, errors.New("ikona: Config.Ticks is required") }

	cache := &TextureCache {
		config: config.withDefaults(),
		store: newEntryStore(),
		pathOverrides: make(map[Key]string, 32),
		imageOverrides: make(map[Key]string, 8),
	}
	cache.evictor = newEvictor(cache.config.Ticks, cache.flushAll)
	cache.scheduler = newLoadScheduler(cache.config.Ticks, cache.evictor.isArmed)

	for key, path := range cache.config.Overrides {
		cache.pathOverrides[key] = path
	}
	cache.registerCatalog(cache.config.Catalog)
	return cache, nil
}

// Returns the handle for the given key, or nil if the texture isn't
// available yet (or at all). The first miss for a key schedules a
// background decode; subsequent lookups return nil until it finishes.
// Keys whose source turned out to be missing keep returning nil until
// their source is replaced. Lookup never blocks, with one deliberate
// exception: direct-upload sources (user images) load synchronously on
// the calling goroutine, because file uploads are not safe off the
// tick thread on every driver.
func (self *TextureCache) Lookup(key Key) *Handle {
	e, found := self.store.get(key)
	if found {
		switch e.state {
		case entryLoaded:
			if e.handle.Alive() { return e.handle }
			// dead handle, reclaim below
		case entryPending, entryMissing:
			return nil
		case entryTombstone:
			// invalidated, reclaim below
		}
	}

	// while an eviction is armed or the cache is gone, misses stay misses
	if self.isDisposed() || self.evictor.isArmed() { return nil }
	if !self.store.reserve(key) { return nil } // another lookup won the race

	self.tablesMutex.RLock()
	directPath, isDirect := self.imageOverrides[key]
	self.tablesMutex.RUnlock()

	if key.isUser() && !isDirect {
		// negative key without a registered user image
		self.store.completePending(key, entry { state: entryMissing })
		return nil
	}
	if isDirect {
		handle := self.loadDirectHandle(key, directPath)
		self.finishLoad(key, handle)
		if handle != nil && handle.Alive() { return handle }
		return nil
	}

	self.scheduler.enqueue(func() {
		self.finishLoad(key, self.decodeHandle(key))
	})
	return nil
}

// Writes a decode result back into the store. A nil handle records a
// confirmed miss. If the entry stopped being pending in the meantime
// (tombstoned or flushed), or an eviction is armed, the result is
// dropped and the handle released; this is the abandonment half of the
// no-cancellation design.
func (self *TextureCache) finishLoad(key Key, handle *Handle) {
	if self.evictor.isArmed() || self.isDisposed() {
		if handle != nil { handle.release() }
		self.store.completePending(key, entry { state: entryTombstone })
		return
	}
	e := entry { state: entryMissing }
	if handle != nil { e = entry { state: entryLoaded, handle: handle } }
	if !self.store.completePending(key, e) {
		if handle != nil { handle.release() }
	}
}

// Registers (or replaces) a raw source path for a key, to be loaded
// through the decode pipeline. Any live handle for the key is disposed
// and the next lookup reloads from the new path.
func (self *TextureCache) AddOverridePath(key Key, path string) {
	self.tablesMutex.Lock()
	self.pathOverrides[key] = path
	delete(self.imageOverrides, key) // one source per key
	self.tablesMutex.Unlock()
	self.store.replaceAndDispose(key)
}

// Registers (or replaces) a display-ready image file for a key, to be
// uploaded directly without pixel post-processing. Any live handle for
// the key is disposed and the next lookup reloads from the new file.
func (self *TextureCache) AddOverrideImage(key Key, path string) {
	self.tablesMutex.Lock()
	self.imageOverrides[key] = path
	delete(self.pathOverrides, key)
	self.tablesMutex.Unlock()
	self.store.replaceAndDispose(key)
}

// Bulk-registers every integer-named image file in the given directory
// as a user image: "7.png" becomes UserKey(7). Previously registered
// user images are cleared first; an empty dir path just clears them.
//
// Returns false without touching anything while background loads are
// outstanding, or if the directory can't be enumerated. Files that are
// not decodable images, or whose key already has a registered source,
// are logged and skipped; the rest of the directory still loads.
func (self *TextureCache) LoadDirectory(dir string) bool {
	if self.scheduler.busy() {
		self.config.Logger.Warn("rejecting user image directory, loads outstanding",
			slog.String("dir", dir))
		return false
	}
	if dir == "" {
		self.clearUserImages()
		return true
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		self.config.Logger.Warn("failed to enumerate user image directory",
			slog.String("dir", dir), slog.Any("error", err))
		return false
	}

	// validate before mutating anything; header decodes run concurrently
	type candidate struct {
		key Key
		path string
		valid bool
	}
	candidates := make([]candidate, len(dirEntries))
	group := new(errgroup.Group)
	group.SetLimit(8)
	for i, dirEntry := range dirEntries {
		if dirEntry.IsDir() { continue }
		name := dirEntry.Name()
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		index, err := strconv.Atoi(stem)
		if err != nil || index <= 0 {
			self.config.Logger.Debug("skipping non-integer-named file", slog.String("file", name))
			continue
		}
		i, path := i, filepath.Join(dir, name)
		group.Go(func() error {
			file, err := os.Open(path)
			if err != nil {
				self.config.Logger.Warn("skipping unreadable user image",
					slog.String("path", path), slog.Any("error", err))
				return nil
			}
			defer file.Close()
			_, _, err = image.DecodeConfig(file)
			if err != nil {
				self.config.Logger.Warn("skipping undecodable user image",
					slog.String("path", path), slog.Any("error", err))
				return nil
			}
			candidates[i] = candidate { key: UserKey(index), path: path, valid: true }
			return nil
		})
	}
	_ = group.Wait() // workers never return errors, they log and skip

	self.clearUserImages()
	self.tablesMutex.Lock()
	registered := 0
	for _, c := range candidates {
		if !c.valid { continue }
		if _, taken := self.imageOverrides[c.key]; taken {
			self.config.Logger.Warn("user image key conflict, skipping file",
				slog.Int("key", int(c.key)), slog.String("path", c.path))
			continue
		}
		if _, taken := self.pathOverrides[c.key]; taken {
			self.config.Logger.Warn("user image key conflict, skipping file",
				slog.Int("key", int(c.key)), slog.String("path", c.path))
			continue
		}
		self.imageOverrides[c.key] = c.path
		registered += 1
	}
	self.tablesMutex.Unlock()
	self.config.Logger.Info("registered user images",
		slog.String("dir", dir), slog.Int("count", registered))
	return true
}

// Drops every registered user image (negative keys) and tombstones
// their cache entries so lookups stop serving the old textures.
func (self *TextureCache) clearUserImages() {
	self.tablesMutex.Lock()
	removed := make([]Key, 0, len(self.imageOverrides))
	for key := range self.imageOverrides {
		if key.isUser() { removed = append(removed, key) }
	}
	for _, key := range removed { delete(self.imageOverrides, key) }
	self.tablesMutex.Unlock()

	for _, key := range removed { self.store.replaceAndDispose(key) }
}

// True while any decode task is queued or in flight.
func (self *TextureCache) IsBusy() bool { return self.scheduler.busy() }

// Requests a bulk eviction. The actual flush happens on a tick after a
// full quiescence window (one second) has elapsed without further
// requests; until then lookups won't populate new entries. Safe to
// call repeatedly.
func (self *TextureCache) RequestEvict() {
	if self.isDisposed() { return }
	self.evictor.request()
}

// The eviction flush: runs on the tick goroutine once the debounce
// window elapses, and again at teardown.
func (self *TextureCache) flushAll() {
	dropped := self.scheduler.discardPending()
	if dropped > 0 {
		self.config.Logger.Debug("abandoned pending loads", slog.Int("count", dropped))
	}
	handles := self.store.flush()
	for _, handle := range handles { handle.release() }
	if len(handles) > 0 {
		self.config.Logger.Debug("evicted textures", slog.Int("count", len(handles)))
	}
}

// Snapshot of the cache's current load. Mostly useful for debug
// overlays and tests.
type Stats struct {
	Entries int
	QueuedLoads int
	InFlightLoads int
	Evicting bool
}

func (self *TextureCache) Stats() Stats {
	return Stats {
		Entries: self.store.size(),
		QueuedLoads: self.scheduler.queuedCount(),
		InFlightLoads: self.scheduler.inFlightCount(),
		Evicting: self.evictor.isArmed(),
	}
}

// Tears the cache down: unsubscribes from the tick source, abandons
// queued loads and disposes every live handle. Lookups on a disposed
// cache return nil. Dispose is safe to call multiple times; decode
// tasks still in flight release their own results on completion.
func (self *TextureCache) Dispose() {
	if !atomic.CompareAndSwapUint32(&self.disposed, 0, 1) { return }
	self.evictor.shutdown()
	self.scheduler.discardPending()
	for _, handle := range self.store.flush() { handle.release() }
}

func (self *TextureCache) isDisposed() bool {
	return atomic.LoadUint32(&self.disposed) == 1
}
