package ikona

import "image"

// Pads a decoded image to a square, centering the original pixels and
// splitting any odd remainder floor-first: for a W×H image with W > H,
// (W-H)/2 transparent rows go above and the rest below; symmetric for
// H > W. Already-square images are returned untouched.
//
// The input must have its bounds anchored at the origin, which is what
// the loader always produces.
func squarePad(img *image.NRGBA) *image.NRGBA {
	width  := img.Rect.Dx()
	height := img.Rect.Dy()
	if width == height { return img }

	side := width
	if height > width { side = height }
	padded := image.NewNRGBA(image.Rect(0, 0, side, side))

	var offX, offY int
	if width > height {
		offY = (width - height)/2 // floor; the ceil half lands below
	} else {
		offX = (height - width)/2
	}

	for y := 0; y < height; y++ {
		srcRow := img.Pix[y*img.Stride : y*img.Stride + width*4]
		dstStart := (y + offY)*padded.Stride + offX*4
		copy(padded.Pix[dstStart : dstStart + width*4], srcRow)
	}
	return padded
}

// Replaces each pixel's color channels with their average, keeping
// alpha. Used by grayscale cache variants.
func replicateGray(img *image.NRGBA) {
	pix := img.Pix
	for i := 0; i < len(pix); i += 4 {
		gray := uint8((uint32(pix[i]) + uint32(pix[i + 1]) + uint32(pix[i + 2]))/3)
		pix[i + 0] = gray
		pix[i + 1] = gray
		pix[i + 2] = gray
	}
}
