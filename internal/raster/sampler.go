package raster

import (
	"image"
	"math"
)

// FaceUV holds one triangle's texture coordinates after seam unwrapping.
type FaceUV [3][2]float64

// UnwrapFace gathers a face's UVs and moves them onto one side of the
// texture seam: when a coordinate spans more than half the texture, the
// values below 0.5 are shifted up by one. Tube rings wrap v from (R-1)/R back
// to 0, and closed tubes wrap u the same way.
func UnwrapFace(a, b, c [2]float32) FaceUV {
	f := FaceUV{
		{float64(a[0]), float64(a[1])},
		{float64(b[0]), float64(b[1])},
		{float64(c[0]), float64(c[1])},
	}
	for k := 0; k < 2; k++ {
		lo := math.Min(math.Min(f[0][k], f[1][k]), f[2][k])
		hi := math.Max(math.Max(f[0][k], f[1][k]), f[2][k])
		if hi-lo <= 0.5 {
			continue
		}
		for i := range f {
			if f[i][k] < 0.5 {
				f[i][k]++
			}
		}
	}
	return f
}

// At interpolates the face UVs with barycentric weights.
func (f *FaceUV) At(w0, w1, w2 float64) (u, v float64) {
	return w0*f[0][0] + w1*f[1][0] + w2*f[2][0], w0*f[0][1] + w1*f[1][1] + w2*f[2][1]
}

// SampleTexture filters tex bilinearly at (u, v) with texel centers at
// (i+0.5)/w and repeat wrapping on both axes, so coordinates past 1 from an
// unwrapped face continue into the texture's first texels.
func SampleTexture(tex *image.NRGBA, u, v float64) (r, g, b, a uint8) {
	w, h := tex.Rect.Dx(), tex.Rect.Dy()
	if w == 0 || h == 0 {
		return 0, 0, 0, 0
	}
	fx := u*float64(w) - 0.5
	fy := v*float64(h) - 0.5
	x0f, y0f := math.Floor(fx), math.Floor(fy)
	dx, dy := fx-x0f, fy-y0f
	x0, y0 := wrapIndex(int(x0f), w), wrapIndex(int(y0f), h)
	x1, y1 := (x0+1)%w, (y0+1)%h

	row0 := tex.Pix[y0*tex.Stride:]
	row1 := tex.Pix[y1*tex.Stride:]
	weights := [4]float64{(1 - dx) * (1 - dy), dx * (1 - dy), (1 - dx) * dy, dx * dy}
	texels := [4][]uint8{row0[x0*4:], row0[x1*4:], row1[x0*4:], row1[x1*4:]}

	var sum [4]float64
	for i, t := range texels {
		for ch := 0; ch < 4; ch++ {
			sum[ch] += float64(t[ch]) * weights[i]
		}
	}
	return clamp255(sum[0]), clamp255(sum[1]), clamp255(sum[2]), clamp255(sum[3])
}

func wrapIndex(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
