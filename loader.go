package ikona

import "fmt"
import "image"
import "image/draw"
import "log/slog"
import "path"

import xdraw "golang.org/x/image/draw"

// Inserts a suffix right before the file extension:
// "icon/000123.png" + "@2x" -> "icon/000123@2x.png".
func insertPathSuffix(p, suffix string) string {
	ext := path.Ext(p)
	return p[:len(p)-len(ext)] + suffix + ext
}

// Resolves the source path for a non-user key: override table first,
// then the synthesized built-in candidates (locale-neutral before
// locale-specific), probed through the data source. Returns false when
// no candidate exists, which the caller records as a confirmed miss.
func (self *TextureCache) resolvePath(key Key) (string, bool) {
	self.tablesMutex.RLock()
	override, found := self.pathOverrides[key]
	self.tablesMutex.RUnlock()
	if found { return override, true }

	id := int(key)
	format := self.config.IconPathFormat
	if key.isFrame() {
		id = int(key.frameBase())
		format = self.config.FramePathFormat
	}

	candidates := make([]string, 0, 2)
	candidates = append(candidates, fmt.Sprintf(format, id))
	if self.config.Locale != "" && !key.isFrame() {
		candidates = append(candidates,
			fmt.Sprintf(self.config.LocaleIconPathFormat, self.config.Locale, id))
	}

	for _, candidate := range candidates {
		if self.config.Hires {
			candidate = insertPathSuffix(candidate, self.config.HiresSuffix)
		}
		if self.config.Data.Exists(candidate) { return candidate, true }
	}
	return "", false
}

// The background decode pipeline: resolve, redirect, read, convert,
// post-process, square-pad, upload. Every failure is absorbed here and
// degrades to a nil handle; nothing propagates to the consumer.
func (self *TextureCache) decodeHandle(key Key) *Handle {
	sourcePath, found := self.resolvePath(key)
	if !found {
		self.config.Logger.Info("no source for icon", slog.Int("key", int(key)))
		return nil
	}
	if self.config.Redirect != nil && self.config.Redirect.Enabled() {
		sourcePath = self.config.Redirect.Resolve(sourcePath)
	}

	img, err := self.config.Data.ReadDecoded(sourcePath)
	if err != nil {
		self.config.Logger.Warn("failed to load icon",
			slog.Int("key", int(key)), slog.String("path", sourcePath), slog.Any("error", err))
		return nil
	}

	nrgba := toNRGBA(img)
	if self.config.Grayscale { replicateGray(nrgba) }
	nrgba = self.clampTextureSize(nrgba)
	width  := nrgba.Rect.Dx()
	height := nrgba.Rect.Dy()

	padded := squarePad(nrgba)
	side := padded.Rect.Dx()
	texture, err := uploadTexture(padded.Pix, side, side)
	if err != nil {
		self.config.Logger.Error("failed to upload icon",
			slog.Int("key", int(key)), slog.String("path", sourcePath), slog.Any("error", err))
		return nil
	}
	return newHandle(texture, width, height)
}

// Loads a display-ready resource straight from a file, skipping the
// pixel pipeline. Used for user images; must run on the tick goroutine
// (see uploadTextureFromFile).
func (self *TextureCache) loadDirectHandle(key Key, sourcePath string) *Handle {
	texture, width, height, err := uploadTextureFromFile(sourcePath)
	if err != nil {
		self.config.Logger.Warn("failed to load user image",
			slog.Int("key", int(key)), slog.String("path", sourcePath), slog.Any("error", err))
		return nil
	}
	return newHandle(texture, width, height)
}

// Downscales images exceeding the configured texture size limit,
// preserving aspect ratio. Oversized sources are rare but a hard
// driver error when they happen, so better a soft resample.
func (self *TextureCache) clampTextureSize(img *image.NRGBA) *image.NRGBA {
	limit := self.config.MaxTextureSize
	width  := img.Rect.Dx()
	height := img.Rect.Dy()
	if width <= limit && height <= limit { return img }

	scaledW, scaledH := limit, limit
	if width > height {
		scaledH = height*limit/width
	} else if height > width {
		scaledW = width*limit/height
	}
	if scaledW < 1 { scaledW = 1 }
	if scaledH < 1 { scaledH = 1 }

	scaled := image.NewNRGBA(image.Rect(0, 0, scaledW, scaledH))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Rect, img, img.Rect, xdraw.Over, nil)
	return scaled
}

// Normalizes any decoded image into a zero-anchored, contiguous NRGBA
// buffer, reusing the allocation when possible.
func toNRGBA(img image.Image) *image.NRGBA {
	nrgba, isNRGBA := img.(*image.NRGBA)
	if isNRGBA && nrgba.Rect.Min == (image.Point{}) && nrgba.Stride == nrgba.Rect.Dx()*4 {
		return nrgba
	}
	bounds := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Rect, img, bounds.Min, draw.Src)
	return out
}
