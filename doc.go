// ikona is a keyed icon texture cache for Ebitengine games. Given an
// icon key, it lazily loads the source image in the background, decodes
// it, pads it to a square and uploads it to the GPU, while lookups stay
// non-blocking:
//
//	handle := icons.Lookup(ikona.Key(4021))
//	if handle != nil {
//	    screen.DrawImage(handle.Texture(), opts)
//	}
//	// nil simply means "not ready yet" (or "no such icon"); draw a
//	// placeholder and try again next frame.
//
// Background decode admission is frame-paced: the cache subscribes to a
// [tick.Source] driven from your game's Update method and admits up to
// a fixed number of concurrent decode tasks per tick. Evictions are
// debounced so a burst of configuration changes disposes each texture
// at most once, after things settle.
//
// Keys are signed: non-negative keys are built-in icons resolved
// through path formats and the static catalog, negative keys are
// user-supplied images (see [TextureCache.LoadDirectory]), and a
// reserved offset range addresses UI frame decorations (see [FrameKey]).
//
// The package can be built without Ebitengine through the softtex build
// tag, in which case textures are plain *image.NRGBA buffers. That's
// how the cache's own tests run headless.
package ikona
