package ikona

// A Key identifies one cached texture:
//  - Non-negative keys are built-in icon identifiers, resolved through
//    the override tables or synthesized from the configured path formats.
//  - Negative keys are user-supplied custom images (see [UserKey] and
//    [TextureCache.LoadDirectory]).
//  - Keys in [FrameKeyOffset, 2*FrameKeyOffset) are UI frame decorations
//    layered onto base icon identifiers (see [FrameKey]).
type Key int32

// Keys at or above this offset (and below twice it) denote frame
// decoration icons for the base id (key - FrameKeyOffset).
const FrameKeyOffset Key = 1_000_000

// Returns the key for the user image with the given index. Indices
// must be strictly positive; UserKey panics otherwise, as that's
// invariably a dev mistake.
func UserKey(index int) Key {
	if index <= 0 { panic("user image index must be > 0") }
	return Key(-index)
}

// Returns the frame decoration key layered onto the given base icon id.
func FrameKey(base Key) Key {
	if base < 0 || base >= FrameKeyOffset { panic("invalid frame base key") }
	return base + FrameKeyOffset
}

func (self Key) isUser() bool { return self < 0 }

func (self Key) isFrame() bool {
	return self >= FrameKeyOffset && self < 2*FrameKeyOffset
}

// For frame keys, the base icon identifier being decorated.
func (self Key) frameBase() Key { return self - FrameKeyOffset }
