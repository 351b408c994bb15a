package ikona

import "bytes"
import "image"
import "image/png"
import "os"
import "path/filepath"
import "testing"
import "testing/fstest"
import "time"

import "github.com/liqmix/ikona/tick"

// Builds a solid-color image with the given dimensions.
func solidImage(width, height int, tone uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i + 0] = tone
		img.Pix[i + 1] = tone/2
		img.Pix[i + 2] = tone/3
		img.Pix[i + 3] = 255
	}
	return img
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buffer bytes.Buffer
	err := png.Encode(&buffer, img)
	if err != nil { t.Fatalf("unexpected encode error: %s", err) }
	return buffer.Bytes()
}

func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, pngBytes(t, img), 0644)
	if err != nil { t.Fatalf("unexpected write error: %s", err) }
	return path
}

type testEnv struct {
	nexus *tick.Nexus
	fsys fstest.MapFS
	cache *TextureCache
}

func newTestEnv(t *testing.T, config Config) *testEnv {
	t.Helper()
	env := &testEnv { nexus: tick.NewNexus(), fsys: make(fstest.MapFS) }
	config.Data = NewDirSource(env.fsys)
	config.Ticks = env.nexus
	if config.Catalog == nil { config.Catalog = []CatalogEntry{} }
	cache, err := New(config)
	if err != nil { t.Fatalf("unexpected error: %s", err) }
	env.cache = cache
	return env
}

func (self *testEnv) addPNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	self.fsys[path] = &fstest.MapFile { Data: pngBytes(t, img) }
}

// Ticks until the cache goes idle, failing the test if it never does.
func (self *testEnv) settle(t *testing.T) {
	t.Helper()
	for i := 0; i < 500; i++ {
		self.nexus.Tick()
		if !self.cache.IsBusy() { return }
		time.Sleep(2*time.Millisecond)
	}
	t.Fatal("cache never went idle")
}
