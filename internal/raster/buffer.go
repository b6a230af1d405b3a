package raster

import (
	"image"
	"image/color"
	"math"

	"tube-renderer/internal/postprocess"
)

// FrameBuffer is a shaded surface layer with its z-buffer, plus an unlit
// overlay layer for wireframe lines and markers. The overlay is stored
// premultiplied and is composited over the surface by Image.
type FrameBuffer struct {
	Width   int
	Height  int
	Color   []uint8   // surface RGBA, straight alpha, len = W*H*4
	ZBuf    []float64 // surface depth, -inf where empty
	Overlay *image.RGBA

	// DepthBias is added to overlay depth before testing against ZBuf so
	// lines lying on the surface are not hidden by it.
	DepthBias float64
}

// NewFrameBuffer allocates empty surface and overlay layers.
func NewFrameBuffer(w, h int) *FrameBuffer {
	zbuf := make([]float64, w*h)
	for i := range zbuf {
		zbuf[i] = math.Inf(-1)
	}
	return &FrameBuffer{
		Width:   w,
		Height:  h,
		Color:   make([]uint8, w*h*4),
		ZBuf:    zbuf,
		Overlay: image.NewRGBA(image.Rect(0, 0, w, h)),
	}
}

// PlotOverlay blends c into the overlay at (x, y) with the given coverage in
// [0, 1], unless the surface is in front of depth z. Overlays never write depth.
func (fb *FrameBuffer) PlotOverlay(x, y int, z float64, c color.NRGBA, coverage float64) {
	if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height || coverage <= 0 {
		return
	}
	if z+fb.DepthBias < fb.ZBuf[y*fb.Width+x] {
		return
	}
	if coverage > 1 {
		coverage = 1
	}
	a := float64(c.A) / 255 * coverage
	o := fb.Overlay.PixOffset(x, y)
	p := fb.Overlay.Pix[o : o+4 : o+4]
	keep := 1 - a
	p[0] = clamp255(float64(c.R)*a + float64(p[0])*keep)
	p[1] = clamp255(float64(c.G)*a + float64(p[1])*keep)
	p[2] = clamp255(float64(c.B)*a + float64(p[2])*keep)
	p[3] = clamp255(255*a + float64(p[3])*keep)
}

// Image flattens the overlay onto the surface.
func (fb *FrameBuffer) Image() *image.NRGBA {
	surface := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	copy(surface.Pix, fb.Color)
	return postprocess.Composite(surface, fb.Overlay)
}
