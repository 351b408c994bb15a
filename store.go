package ikona

import "sync"

// Cache entry states. An entry for a key either doesn't exist at all,
// or sits in exactly one of these states. Transitions only ever happen
// through the store's compare-and-swap style methods, never by plain
// overwrite.
type entryState uint8

const (
	entryPending entryState = iota // reserved, decode task not finished yet
	entryLoaded // holds a live handle
	entryMissing // decode confirmed there's no image for this key
	entryTombstone // invalidated; next lookup may repopulate
)

type entry struct {
	state entryState
	handle *Handle // non-nil only for entryLoaded
}

// The authoritative cache state: a concurrent map from key to entry.
// The store is the only data shared between the tick goroutine and the
// decode workers, so every mutation is an atomic check-then-set under
// the mutex. The single-writer-per-key discipline (only the goroutine
// that wins reserve() ever calls completePending() for that key) keeps
// anything fancier unnecessary.
type entryStore struct {
	mutex sync.RWMutex
	entries map[Key]entry
}

func newEntryStore() *entryStore {
	return &entryStore { entries: make(map[Key]entry, 64) }
}

func (self *entryStore) get(key Key) (entry, bool) {
	self.mutex.RLock()
	e, found := self.entries[key]
	self.mutex.RUnlock()
	return e, found
}

// Claims the key for population. Returns true only for the caller that
// actually created the pending slot; races and repeated misses return
// false and must not schedule a decode. Keys holding a tombstone or a
// dead handle can be reclaimed, anything else can't.
func (self *entryStore) reserve(key Key) bool {
	self.mutex.Lock()
	defer self.mutex.Unlock()

	e, found := self.entries[key]
	if found {
		reclaimable := e.state == entryTombstone ||
			(e.state == entryLoaded && !e.handle.Alive())
		if !reclaimable { return false }
	}
	self.entries[key] = entry { state: entryPending }
	return true
}

// Writes the decode result for a key, but only if the key is still in
// the pending state. Returns false when the write was discarded (the
// entry was tombstoned or flushed while the task ran); the caller owns
// the disposal of any handle it tried to store.
func (self *entryStore) completePending(key Key, e entry) bool {
	self.mutex.Lock()
	defer self.mutex.Unlock()

	current, found := self.entries[key]
	if !found || current.state != entryPending { return false }
	self.entries[key] = e
	return true
}

// Disposes whatever handle currently occupies the slot and leaves a
// tombstone behind, so that the next lookup reloads the key from its
// (presumably new) source. Safe on absent keys.
func (self *entryStore) replaceAndDispose(key Key) {
	self.mutex.Lock()
	e, found := self.entries[key]
	self.entries[key] = entry { state: entryTombstone }
	self.mutex.Unlock()

	if found && e.state == entryLoaded {
		e.handle.release()
	}
}

// Empties the store and returns every handle that was live in it.
// Disposal is left to the caller so it can happen outside the lock.
func (self *entryStore) flush() []*Handle {
	self.mutex.Lock()
	handles := make([]*Handle, 0, len(self.entries))
	for _, e := range self.entries {
		if e.state == entryLoaded { handles = append(handles, e.handle) }
	}
	self.entries = make(map[Key]entry, 64)
	self.mutex.Unlock()
	return handles
}

func (self *entryStore) size() int {
	self.mutex.RLock()
	defer self.mutex.RUnlock()
	return len(self.entries)
}
