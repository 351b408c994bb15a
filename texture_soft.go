//go:build softtex

package ikona

import "os"
import "fmt"
import "image"
import "image/draw"

// Alias for the softtex build. See texture_ebiten.go for the primary
// documentation.
type Texture = *image.NRGBA

func uploadTexture(pix []byte, width, height int) (Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid texture dimensions %dx%d", width, height)
	}
	if len(pix) != width*height*4 {
		return nil, fmt.Errorf("pixel buffer size %d doesn't match %dx%d", len(pix), width, height)
	}
	return &image.NRGBA {
		Pix: pix,
		Stride: width*4,
		Rect: image.Rect(0, 0, width, height),
	}, nil
}

func uploadTextureFromFile(path string) (Texture, int, int, error) {
	file, err := os.Open(path)
	if err != nil { return nil, 0, 0, err }
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil { return nil, 0, 0, err }
	bounds := img.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(nrgba, nrgba.Rect, img, bounds.Min, draw.Src)
	return nrgba, bounds.Dx(), bounds.Dy(), nil
}

// software images are reclaimed by the GC, nothing to release
func disposeTexture(texture Texture) {}

func textureSize(texture Texture) (int, int) {
	if texture == nil { return 0, 0 }
	return texture.Rect.Dx(), texture.Rect.Dy()
}

// used for testing purposes
func newBlankTexture(width, height int) Texture {
	return image.NewNRGBA(image.Rect(0, 0, width, height))
}
