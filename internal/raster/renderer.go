package raster

import (
	"image"
	"image/color"
	"math"

	"tube-renderer/internal/mathutil"
	"tube-renderer/internal/tube"
	"tube-renderer/internal/viewmatrix"
)

// DefaultColor is the surface color used when a scene names none.
var DefaultColor = color.NRGBA{160, 160, 170, 255}

// Scene is everything one preview frame shows.
type Scene struct {
	Mesh    *tube.Mesh
	Texture *image.NRGBA // optional; sampled with the mesh UVs
	Color   color.NRGBA  // surface color when untextured
	Lines   []Line
	Dots    []mathutil.Vec3
	View    mathutil.Mat3
}

// Render rasterizes a scene to a (size*supersample)² NRGBA image.
func Render(s *Scene, size int, supersample int) *image.NRGBA {
	if supersample < 1 {
		supersample = 1
	}
	renderSize := size * supersample

	// Frame mesh and overlays together so arrows are not clipped.
	var verts [][3]float32
	if s.Mesh != nil {
		verts = append(verts, s.Mesh.Positions...)
	}
	for _, l := range s.Lines {
		verts = append(verts, l.A.Float32(), l.B.Float32())
	}
	for _, d := range s.Dots {
		verts = append(verts, d.Float32())
	}
	if len(verts) == 0 {
		return image.NewNRGBA(image.Rect(0, 0, renderSize, renderSize))
	}

	proj := viewmatrix.Fit(verts, s.View, renderSize, 16*supersample)
	ss := float64(supersample)

	fb := NewFrameBuffer(renderSize, renderSize)
	// Two pixels of depth slack keeps surface-hugging lines visible.
	fb.DepthBias = 2 * ss
	lc := StudioLights()

	if s.Mesh != nil && len(s.Mesh.Positions) > 0 {
		sv := screenVertices(proj, s.Mesh, &lc)

		base := s.Color
		if base.A == 0 {
			base = DefaultColor
		}
		if s.Texture != nil && len(s.Mesh.UVs) != len(s.Mesh.Positions) {
			base.R, base.G, base.B, base.A = averageColor(s.Texture)
		}

		idx := s.Mesh.Indices
		for f := 0; f+2 < len(idx); f += 3 {
			vi := [3]int{int(idx[f]), int(idx[f+1]), int(idx[f+2])}
			RasterizeTriangle(fb, sv, s.Mesh.UVs, vi, s.Texture, base, &lc)
		}
	}

	hairline := 1.5 * ss
	for _, l := range s.Lines {
		width := math.Max(l.Width*proj.Scale, hairline)
		DrawLine(fb, project(proj, l.A), project(proj, l.B), width, l.Color)
	}
	for _, d := range s.Dots {
		DrawDot(fb, project(proj, d), 2*ss, VertexColor)
	}

	return fb.Image()
}

// screenVertices projects the mesh and lights each vertex from its normal.
// Meshes without one normal per vertex fall back to flat shading.
func screenVertices(proj viewmatrix.Projection, m *tube.Mesh, lc *LightConfig) []ScreenVertex {
	smooth := len(m.Normals) == len(m.Positions)
	sv := make([]ScreenVertex, len(m.Positions))
	for i, p := range m.Positions {
		x, y, z := proj.Project(mathutil.FromFloat32(p))
		sv[i] = ScreenVertex{X: x, Y: y, Z: z * proj.Scale, Shade: math.NaN()}
		if !smooth {
			continue
		}
		if n, ok := proj.Normal(mathutil.FromFloat32(m.Normals[i])).TryNormalize(mathutil.Epsilon32); ok {
			sv[i].Shade = lc.Shade(n)
		}
	}
	return sv
}

func project(p viewmatrix.Projection, v mathutil.Vec3) [3]float64 {
	x, y, z := p.Project(v)
	return [3]float64{x, y, z * p.Scale}
}

func averageColor(tex *image.NRGBA) (uint8, uint8, uint8, uint8) {
	b := tex.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return DefaultColor.R, DefaultColor.G, DefaultColor.B, 255
	}

	var sumR, sumG, sumB float64
	stride := tex.Stride
	for y := 0; y < h; y++ {
		off := y * stride
		for x := 0; x < w; x++ {
			i := off + x*4
			sumR += float64(tex.Pix[i])
			sumG += float64(tex.Pix[i+1])
			sumB += float64(tex.Pix[i+2])
		}
	}
	n := float64(w * h)
	return uint8(sumR/n + 0.5), uint8(sumG/n + 0.5), uint8(sumB/n + 0.5), 255
}
