package raster

import (
	"math"

	"tube-renderer/internal/mathutil"
)

// Light is a directional light in screen orientation (X right, Y down, Z
// toward the viewer). Lambert terms are two-sided so the inside of an open
// tube is lit like the outside.
type Light struct {
	Dir       mathutil.Vec3
	Intensity float64
}

// LightConfig is the preview lighting rig.
type LightConfig struct {
	Lights   []Light
	Ambient  float64
	Sky      float64 // fill that falls off as normals turn vertical
	Half     mathutil.Vec3
	SpecInt  float64
	SpecPow  float64
	Exposure float64
	Gamma    float64
}

// StudioLights returns the key and rim rig used for tube previews, with a
// Blinn-Phong highlight from the key light.
func StudioLights() LightConfig {
	key := mathutil.Vec3{180, 260, 140}.Normalize()
	rim := mathutil.Vec3{-160, 130, -210}.Normalize()
	eye := mathutil.Vec3{0, -110, -400}.Normalize()
	return LightConfig{
		Lights:   []Light{{Dir: key, Intensity: 1.5}, {Dir: rim, Intensity: 0.6}},
		Ambient:  0.55,
		Sky:      0.5,
		Half:     key.Sub(eye).Normalize(),
		SpecInt:  0.45,
		SpecPow:  12,
		Exposure: 1.05,
		Gamma:    2.2,
	}
}

// Shade returns the light scalar for a unit normal in screen orientation.
func (lc *LightConfig) Shade(n mathutil.Vec3) float64 {
	s := lc.Ambient + lc.Sky*(1-0.5*math.Abs(n[1]))
	for _, l := range lc.Lights {
		s += math.Abs(n.Dot(l.Dir)) * l.Intensity
	}
	if h := n.Dot(lc.Half); h > 0 {
		s += math.Pow(h, lc.SpecPow) * lc.SpecInt
	}
	return s
}

// Apply lights an sRGB color: decode, scale by shade and exposure, ACES tone
// map, encode.
func (lc *LightConfig) Apply(r, g, b uint8, shade float64) (uint8, uint8, uint8) {
	k := shade * lc.Exposure
	inv := 1 / lc.Gamma
	out := func(c uint8) uint8 {
		return clamp255(255 * math.Pow(ACESTonemap(decodeSRGB[c]*k), inv))
	}
	return out(r), out(g), out(b)
}

var decodeSRGB = func() (t [256]float64) {
	for i := range t {
		t[i] = math.Pow(float64(i)/255, 2.2)
	}
	return t
}()

// ACESTonemap is the Narkowicz fit of the ACES filmic curve.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}
