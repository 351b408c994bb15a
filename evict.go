package ikona

import "sync"
import "time"

import "github.com/liqmix/ikona/tick"

// Quiescence window between the last eviction request and the actual
// flush. Eviction bursts (e.g. a mod collection being toggled) keep
// restarting the window so handles aren't disposed and immediately
// rebuilt mid-burst.
const evictQuiescence = time.Second

// Debounced bulk eviction. While armed, lookups are excluded from
// populating new entries; once the window elapses without further
// requests, the flush callback drops the pending queue, disposes every
// live handle and clears the store.
type evictor struct {
	mutex sync.Mutex
	armed bool
	deadline time.Time
	unsubscribe func()
	source tick.Source
	flush func()
	now func() time.Time // swapped out in tests
}

func newEvictor(source tick.Source, flush func()) *evictor {
	return &evictor { source: source, flush: flush, now: time.Now }
}

// Arms the coordinator, or restarts the debounce window if it already
// was armed. Safe to call from any goroutine.
func (self *evictor) request() {
	self.mutex.Lock()
	self.deadline = self.now().Add(evictQuiescence)
	if !self.armed {
		self.armed = true
		self.unsubscribe = self.source.Subscribe(self.onTick)
	}
	self.mutex.Unlock()
}

func (self *evictor) isArmed() bool {
	self.mutex.Lock()
	defer self.mutex.Unlock()
	return self.armed
}

// Runs on the tick goroutine while armed.
func (self *evictor) onTick() {
	self.mutex.Lock()
	if !self.armed || self.now().Before(self.deadline) {
		self.mutex.Unlock()
		return
	}
	// Stay armed during the flush itself so concurrent lookups keep
	// refusing to repopulate while handles are being disposed.
	self.mutex.Unlock()

	self.flush()

	self.mutex.Lock()
	if self.now().Before(self.deadline) {
		// a new request landed mid-flush; leave the coordinator armed
		// for another full quiescence window
		self.mutex.Unlock()
		return
	}
	self.armed = false
	unsubscribe := self.unsubscribe
	self.unsubscribe = nil
	self.mutex.Unlock()
	if unsubscribe != nil { unsubscribe() }
}

// Disarms without flushing. Used at cache teardown, where the caller
// flushes explicitly anyway.
func (self *evictor) shutdown() {
	self.mutex.Lock()
	self.armed = false
	unsubscribe := self.unsubscribe
	self.unsubscribe = nil
	self.mutex.Unlock()
	if unsubscribe != nil { unsubscribe() }
}
