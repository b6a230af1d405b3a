package raster

import (
	"image/color"
	"math"
)

// DrawLine draws an antialiased, depth-tested overlay line of the given pixel
// width between two screen-space points (x, y, depth).
func DrawLine(fb *FrameBuffer, a, b [3]float64, width float64, c color.NRGBA) {
	if !finite(a) || !finite(b) {
		return
	}
	r := math.Max(width/2, 0.5)
	dx, dy := b[0]-a[0], b[1]-a[1]
	ll := dx*dx + dy*dy

	minX, minY, maxX, maxY, ok := fb.clip(
		math.Min(a[0], b[0])-r-1, math.Min(a[1], b[1])-r-1,
		math.Max(a[0], b[0])+r+1, math.Max(a[1], b[1])+r+1,
	)
	if !ok {
		return
	}
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)-a[0], float64(y)-a[1]
			t := 0.0
			if ll > 0 {
				t = math.Max(0, math.Min(1, (px*dx+py*dy)/ll))
			}
			ex, ey := px-dx*t, py-dy*t
			cov := r + 0.5 - math.Sqrt(ex*ex+ey*ey)
			fb.PlotOverlay(x, y, a[2]+(b[2]-a[2])*t, c, cov)
		}
	}
}

// DrawDot draws an antialiased disc of the given pixel radius.
func DrawDot(fb *FrameBuffer, p [3]float64, radius float64, c color.NRGBA) {
	DrawLine(fb, p, p, 2*radius, c)
}

// clip converts a float bounding box to inclusive pixel bounds inside the
// buffer. ok is false when nothing is left.
func (fb *FrameBuffer) clip(x0, y0, x1, y1 float64) (minX, minY, maxX, maxY int, ok bool) {
	x0, y0 = math.Max(x0, 0), math.Max(y0, 0)
	x1, y1 = math.Min(x1, float64(fb.Width-1)), math.Min(y1, float64(fb.Height-1))
	if x0 > x1 || y0 > y1 {
		return 0, 0, 0, 0, false
	}
	return int(math.Floor(x0)), int(math.Floor(y0)), int(math.Ceil(x1)), int(math.Ceil(y1)), true
}

func finite(p [3]float64) bool {
	for _, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
