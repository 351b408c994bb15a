//go:build !softtex

package ikona

import "os"
import "fmt"
import "image"

import "github.com/hajimehoshi/ebiten/v2"

// A Texture is a GPU-resident decoded image. With Ebitengine this is
// simply *ebiten.Image.
//
// Without Ebitengine (softtex version), Texture defaults to *image.NRGBA,
// which keeps the whole cache testable without a display.
type Texture = *ebiten.Image

// Turns an interleaved 4-channel pixel buffer into a display texture.
// The buffer is expected to be width*height*4 bytes, NRGBA order.
func uploadTexture(pix []byte, width, height int) (Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid texture dimensions %dx%d", width, height)
	}
	if len(pix) != width*height*4 {
		return nil, fmt.Errorf("pixel buffer size %d doesn't match %dx%d", len(pix), width, height)
	}
	img := &image.NRGBA {
		Pix: pix,
		Stride: width*4,
		Rect: image.Rect(0, 0, width, height),
	}
	opts := ebiten.NewImageFromImageOptions { PreserveBounds: true }
	return ebiten.NewImageFromImageWithOptions(img, &opts), nil
}

// Decodes the file at the given path and uploads it directly, skipping
// the pixel post-processing pipeline.
//
// NOTICE: on some drivers creating textures from files off the main
// thread has been observed to crash; callers must invoke this from the
// tick goroutine only. Buffer uploads don't share the restriction.
func uploadTextureFromFile(path string) (Texture, int, int, error) {
	file, err := os.Open(path)
	if err != nil { return nil, 0, 0, err }
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil { return nil, 0, 0, err }
	bounds := img.Bounds()
	texture := ebiten.NewImageFromImage(img)
	return texture, bounds.Dx(), bounds.Dy(), nil
}

func disposeTexture(texture Texture) {
	if texture != nil { texture.Dispose() }
}

func textureSize(texture Texture) (int, int) {
	if texture == nil { return 0, 0 }
	return texture.Size()
}

// used for testing purposes
func newBlankTexture(width, height int) Texture {
	return ebiten.NewImage(width, height)
}
