package postprocess

import (
	"image"

	"golang.org/x/image/draw"
)

// Premultiply converts straight alpha to premultiplied alpha.
func Premultiply(img *image.NRGBA) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		src := img.Pix[img.PixOffset(b.Min.X, y):]
		dst := out.Pix[out.PixOffset(b.Min.X, y):]
		for i := 0; i < b.Dx()*4; i += 4 {
			a := uint32(src[i+3])
			dst[i] = uint8((uint32(src[i])*a + 127) / 255)
			dst[i+1] = uint8((uint32(src[i+1])*a + 127) / 255)
			dst[i+2] = uint8((uint32(src[i+2])*a + 127) / 255)
			dst[i+3] = src[i+3]
		}
	}
	return out
}

// Unpremultiply converts premultiplied alpha back to straight alpha. Pixels
// with almost no coverage come out transparent black.
func Unpremultiply(img *image.RGBA) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		src := img.Pix[img.PixOffset(b.Min.X, y):]
		dst := out.Pix[out.PixOffset(b.Min.X, y):]
		for i := 0; i < b.Dx()*4; i += 4 {
			a := src[i+3]
			if a > 1 {
				k := 255 / float64(a)
				dst[i] = clamp8(float64(src[i]) * k)
				dst[i+1] = clamp8(float64(src[i+1]) * k)
				dst[i+2] = clamp8(float64(src[i+2]) * k)
			}
			dst[i+3] = a
		}
	}
	return out
}

// Composite draws a premultiplied overlay layer over a straight-alpha surface
// and returns the flattened image. A nil overlay returns surface unchanged.
func Composite(surface *image.NRGBA, overlay *image.RGBA) *image.NRGBA {
	if overlay == nil {
		return surface
	}
	dst := Premultiply(surface)
	draw.Draw(dst, dst.Bounds(), overlay, overlay.Bounds().Min, draw.Over)
	return Unpremultiply(dst)
}

// Downsample shrinks a supersampled frame to targetSize² with CatmullRom,
// filtering in premultiplied space so coverage edges do not darken.
func Downsample(img *image.NRGBA, targetSize int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() <= targetSize && b.Dy() <= targetSize {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, targetSize, targetSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), Premultiply(img), b, draw.Src, nil)
	return Unpremultiply(dst)
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
