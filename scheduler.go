package ikona

import "sync"
import "sync/atomic"

import "github.com/liqmix/ikona/tick"

// Hard ceiling on simultaneously in-flight decode tasks. Admission
// stops at the ceiling each tick and resumes as workers finish.
const maxInFlightLoads = 100

// Converts cache misses into background decode tasks. Tasks queue up
// FIFO and get admitted on each frame tick, up to maxInFlightLoads at
// a time; once the queue drains the scheduler unsubscribes from the
// tick source and goes idle until the next miss.
type loadScheduler struct {
	mutex sync.Mutex
	queue []func()
	inFlight int32 // atomic
	active bool // tick callback currently registered
	unsubscribe func()
	source tick.Source
	abandoned func() bool // when true, pending tasks are discarded instead of admitted
}

func newLoadScheduler(source tick.Source, abandoned func() bool) *loadScheduler {
	return &loadScheduler { source: source, abandoned: abandoned }
}

// Queues a decode task and wakes the scheduler up if it was idle.
func (self *loadScheduler) enqueue(task func()) {
	self.mutex.Lock()
	self.queue = append(self.queue, task)
	if !self.active {
		self.active = true
		self.unsubscribe = self.source.Subscribe(self.onTick)
	}
	self.mutex.Unlock()
}

// The per-tick admission pass. Runs on the tick goroutine.
func (self *loadScheduler) onTick() {
	if self.abandoned != nil && self.abandoned() {
		self.discardPending()
		return
	}

	self.mutex.Lock()
	for len(self.queue) > 0 && atomic.LoadInt32(&self.inFlight) < maxInFlightLoads {
		task := self.queue[0]
		self.queue = self.queue[1:]
		atomic.AddInt32(&self.inFlight, 1)
		go func() {
			defer atomic.AddInt32(&self.inFlight, -1)
			task()
		}()
	}
	if len(self.queue) == 0 { self.queue = nil }
	unsubscribe := self.idleUnsubscribeLocked()
	self.mutex.Unlock()
	if unsubscribe != nil { unsubscribe() }
}

// Drops every not-yet-admitted task. Admitted tasks keep running; their
// results are discarded at the store (the entries won't be pending
// anymore). Returns how many tasks were abandoned.
func (self *loadScheduler) discardPending() int {
	self.mutex.Lock()
	dropped := len(self.queue)
	self.queue = nil
	unsubscribe := self.idleUnsubscribeLocked()
	self.mutex.Unlock()
	if unsubscribe != nil { unsubscribe() }
	return dropped
}

// Must be called with the mutex held. Returns the unsubscribe function
// to invoke outside the lock, or nil.
func (self *loadScheduler) idleUnsubscribeLocked() func() {
	if len(self.queue) > 0 || !self.active { return nil }
	self.active = false
	unsubscribe := self.unsubscribe
	self.unsubscribe = nil
	return unsubscribe
}

// True while any decode task is queued or in flight.
func (self *loadScheduler) busy() bool {
	if atomic.LoadInt32(&self.inFlight) > 0 { return true }
	self.mutex.Lock()
	defer self.mutex.Unlock()
	return len(self.queue) > 0
}

func (self *loadScheduler) queuedCount() int {
	self.mutex.Lock()
	defer self.mutex.Unlock()
	return len(self.queue)
}

func (self *loadScheduler) inFlightCount() int {
	return int(atomic.LoadInt32(&self.inFlight))
}
