package ikona

import "fmt"
import "image"
import "io/fs"

// Registered decode formats. BMP shows up surprisingly often in
// modded asset packs, so it rides along with the stdlib pair.
import _ "image/png"
import _ "image/jpeg"
import _ "golang.org/x/image/bmp"

// A DataSource hands raw game assets to the cache. Implementations
// must be safe for concurrent use; decode tasks call ReadDecoded from
// worker goroutines.
type DataSource interface {
	// Decodes the image at the given path.
	ReadDecoded(path string) (image.Image, error)

	// Reports whether the path exists, without decoding it. Used to
	// probe icon identifier candidates cheaply.
	Exists(path string) bool
}

// A Redirector remaps asset paths before they are read, e.g. for a
// mod layer that shadows built-in files. Resolve is only consulted
// while Enabled returns true.
type Redirector interface {
	Enabled() bool
	Resolve(path string) string
}

// DirSource is the default [DataSource]: it reads and decodes images
// straight out of an [fs.FS] (commonly os.DirFS over the game's data
// directory, or an embed.FS).
type DirSource struct {
	fsys fs.FS
}

func NewDirSource(fsys fs.FS) *DirSource {
	if fsys == nil { panic("nil fs.FS") } // likely a dev mistake
	return &DirSource { fsys: fsys }
}

func (self *DirSource) ReadDecoded(path string) (image.Image, error) {
	file, err := self.fsys.Open(path)
	if err != nil { return nil, err }
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil { return nil, fmt.Errorf("decoding %s: %w", path, err) }
	return img, nil
}

func (self *DirSource) Exists(path string) bool {
	info, err := fs.Stat(self.fsys, path)
	return err == nil && !info.IsDir()
}
