package tick

import "sync"

// A Source is a per-frame event source. Components that need to run
// work in lockstep with the game loop subscribe a callback and invoke
// the returned function to unsubscribe again.
//
// Callbacks receive no payload; the tick itself is the signal.
type Source interface {
	Subscribe(callback func()) (cancel func())
}

// Nexus is the default [Source] implementation. A game calls [Nexus.Tick]()
// once per frame, typically at the top of its Update method, and every
// subscribed callback runs on that same goroutine, in no particular order.
//
// Subscribing and cancelling are concurrent-safe, but Tick itself must
// only be called from a single goroutine (the game loop).
type Nexus struct {
	mutex sync.Mutex
	callbacks map[uint64]func()
	nextID uint64
}

// Creates an empty [Nexus].
func NewNexus() *Nexus {
	return &Nexus { callbacks: make(map[uint64]func(), 4) }
}

// Registers the given callback to run on every tick until the returned
// cancel function is invoked. Cancelling twice is harmless.
func (self *Nexus) Subscribe(callback func()) func() {
	self.mutex.Lock()
	id := self.nextID
	self.nextID += 1
	self.callbacks[id] = callback
	self.mutex.Unlock()

	return func() {
		self.mutex.Lock()
		delete(self.callbacks, id)
		self.mutex.Unlock()
	}
}

// Runs every subscribed callback once. Callbacks may subscribe or
// cancel during the tick; changes take effect on the next tick.
func (self *Nexus) Tick() {
	self.mutex.Lock()
	snapshot := make([]func(), 0, len(self.callbacks))
	for _, callback := range self.callbacks {
		snapshot = append(snapshot, callback)
	}
	self.mutex.Unlock()

	for _, callback := range snapshot {
		callback()
	}
}

// Returns the number of currently subscribed callbacks.
// Mostly useful for debugging and tests.
func (self *Nexus) NumSubscribers() int {
	self.mutex.Lock()
	defer self.mutex.Unlock()
	return len(self.callbacks)
}
