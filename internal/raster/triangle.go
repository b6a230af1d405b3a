package raster

import (
	"image"
	"image/color"
	"math"

	"tube-renderer/internal/mathutil"
)

// ScreenVertex is a projected mesh vertex: pixel X and Y, depth in pixel
// units (larger is closer), and its light scalar. A NaN Shade asks for flat
// shading from the face normal.
type ScreenVertex struct {
	X, Y, Z float64
	Shade   float64
}

// RasterizeTriangle fills one triangle into the surface layer with z-buffering.
// Vertex attributes share one index: vi addresses verts and uvs alike. Shade
// is interpolated across the face (Gouraud) and textured faces are sampled
// with seam-unwrapped UVs.
func RasterizeTriangle(
	fb *FrameBuffer,
	verts []ScreenVertex,
	uvs [][2]float32,
	vi [3]int,
	tex *image.NRGBA,
	base color.NRGBA,
	lc *LightConfig,
) {
	for _, i := range vi {
		if i < 0 || i >= len(verts) {
			return
		}
	}
	p0, p1, p2 := verts[vi[0]], verts[vi[1]], verts[vi[2]]

	det := (p1.Y-p2.Y)*(p0.X-p2.X) + (p2.X-p1.X)*(p0.Y-p2.Y)
	if math.Abs(det) < 1e-8 {
		return
	}

	s0, s1, s2 := p0.Shade, p1.Shade, p2.Shade
	if math.IsNaN(s0) || math.IsNaN(s1) || math.IsNaN(s2) {
		e1 := mathutil.Vec3{p1.X - p0.X, p1.Y - p0.Y, p1.Z - p0.Z}
		e2 := mathutil.Vec3{p2.X - p0.X, p2.Y - p0.Y, p2.Z - p0.Z}
		n, ok := e1.Cross(e2).TryNormalize(1e-8)
		if !ok {
			return
		}
		s0 = lc.Shade(n)
		s1, s2 = s0, s0
	}

	var face FaceUV
	textured := tex != nil && vi[0] < len(uvs) && vi[1] < len(uvs) && vi[2] < len(uvs)
	if textured {
		face = UnwrapFace(uvs[vi[0]], uvs[vi[1]], uvs[vi[2]])
	}

	minX, minY, maxX, maxY, ok := fb.clip(
		math.Min(math.Min(p0.X, p1.X), p2.X), math.Min(math.Min(p0.Y, p1.Y), p2.Y),
		math.Max(math.Max(p0.X, p1.X), p2.X), math.Max(math.Max(p0.Y, p1.Y), p2.Y),
	)
	if !ok {
		return
	}

	inv := 1 / det
	for y := minY; y <= maxY; y++ {
		dy := float64(y) - p2.Y
		row := y * fb.Width
		for x := minX; x <= maxX; x++ {
			dx := float64(x) - p2.X
			w0 := ((p1.Y-p2.Y)*dx + (p2.X-p1.X)*dy) * inv
			w1 := ((p2.Y-p0.Y)*dx + (p0.X-p2.X)*dy) * inv
			w2 := 1 - w0 - w1
			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*p0.Z + w1*p1.Z + w2*p2.Z
			idx := row + x
			if z <= fb.ZBuf[idx] {
				continue
			}

			c := base
			if textured {
				u, v := face.At(w0, w1, w2)
				c.R, c.G, c.B, c.A = SampleTexture(tex, u, v)
			}
			if c.A < 8 {
				continue
			}
			fb.ZBuf[idx] = z

			o := idx * 4
			fb.Color[o], fb.Color[o+1], fb.Color[o+2] = lc.Apply(c.R, c.G, c.B, w0*s0+w1*s1+w2*s2)
			fb.Color[o+3] = c.A
		}
	}
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
