package ikona

// A CatalogEntry pins a well-known key to a built-in resource path,
// bypassing the synthesized icon path formats. Entries flagged Hires
// have a high-resolution version on disk, so the hires cache variant
// inserts the configured suffix into their path.
type CatalogEntry struct {
	Key Key
	Path string
	Hires bool
}

// The icons every cache variant registers at construction time unless
// [Config.Catalog] says otherwise. Keys already present in
// [Config.Overrides] are skipped, caller overrides win.
var DefaultCatalog = []CatalogEntry {
	{ Key:     0, Path: "ui/placeholder.png", Hires: true },
	{ Key:     1, Path: "ui/folder.png",      Hires: true },
	{ Key:     2, Path: "ui/file.png",        Hires: true },
	{ Key:     3, Path: "ui/star.png",        Hires: true },
	{ Key:     4, Path: "ui/lock.png",        Hires: false },
	{ Key:     5, Path: "ui/warning.png",     Hires: true },
	{ Key:     6, Path: "ui/gear.png",        Hires: false },
	{ Key:     7, Path: "ui/cross.png",       Hires: false },
	{ Key: FrameKeyOffset, Path: "frame/common.png", Hires: true },
	{ Key: FrameKeyOffset + 1, Path: "frame/rare.png", Hires: true },
}

// One-time registration pass over the catalog. Runs at construction,
// after caller overrides have been installed; pure data otherwise.
func (self *TextureCache) registerCatalog(catalog []CatalogEntry) {
	for _, ce := range catalog {
		if _, taken := self.pathOverrides[ce.Key]; taken { continue }
		path := ce.Path
		if ce.Hires && self.config.Hires {
			path = insertPathSuffix(path, self.config.HiresSuffix)
		}
		self.pathOverrides[ce.Key] = path
	}
}
