package ikona

import "sync/atomic"

// A Handle wraps a display [Texture] along with its pre-padding pixel
// dimensions. Handles are owned by the cache that created them: the
// cache releases the underlying texture exactly once, either when the
// key's source is replaced, during an eviction flush, or at [TextureCache.Dispose]()
// time. Consumers must not retain handles across frames without
// re-checking [Handle.Alive]().
type Handle struct {
	texture Texture
	width int
	height int
	released uint32 // atomic; 1 once the texture has been let go
}

func newHandle(texture Texture, width, height int) *Handle {
	return &Handle { texture: texture, width: width, height: height }
}

// Returns the underlying texture. Nil after release.
func (self *Handle) Texture() Texture {
	if !self.Alive() { return nil }
	return self.texture
}

// Returns the stored image dimensions prior to square padding.
func (self *Handle) Size() (width, height int) {
	return self.width, self.height
}

// Reports whether the underlying texture is still usable.
func (self *Handle) Alive() bool {
	return atomic.LoadUint32(&self.released) == 0
}

// Marks the handle dead without disposing the texture, for hosts that
// have already invalidated the underlying resource themselves (e.g. a
// graphics context reset). Subsequent lookups treat the key as a miss
// and reload it.
func (self *Handle) Invalidate() {
	atomic.CompareAndSwapUint32(&self.released, 0, 1)
}

// Releases the underlying texture. Returns false if the handle had
// already been released or invalidated. Exactly-once is guaranteed by
// the compare-and-swap.
func (self *Handle) release() bool {
	if !atomic.CompareAndSwapUint32(&self.released, 0, 1) { return false }
	disposeTexture(self.texture)
	return true
}
