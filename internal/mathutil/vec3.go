package mathutil

import "math"

// Vec3 is a 3-component vector (value type, stack-allocated).
type Vec3 [3]float64

var (
	UnitX = Vec3{1, 0, 0}
	UnitY = Vec3{0, 1, 0}
	UnitZ = Vec3{0, 0, 1}
)

func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// AddScaled returns a + b*s.
func (a Vec3) AddScaled(b Vec3, s float64) Vec3 {
	return Vec3{a[0] + b[0]*s, a[1] + b[1]*s, a[2] + b[2]*s}
}

func (a Vec3) Dot(b Vec3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// Dist returns the Euclidean distance between a and b.
func (a Vec3) Dist(b Vec3) float64 {
	return a.Sub(b).Len()
}

// Lerp interpolates linearly from a (t=0) to b (t=1).
func (a Vec3) Lerp(b Vec3, t float64) Vec3 {
	return Vec3{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
	}
}

func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l < 1e-12 {
		return Vec3{}
	}
	return Vec3{v[0] / l, v[1] / l, v[2] / l}
}

// TryNormalize returns the unit vector and true, or the zero vector and false
// when the length does not exceed eps.
func (v Vec3) TryNormalize(eps float64) (Vec3, bool) {
	l := v.Len()
	if l <= eps || math.IsNaN(l) {
		return Vec3{}, false
	}
	return Vec3{v[0] / l, v[1] / l, v[2] / l}, true
}

// Abs returns the component-wise absolute value.
func (v Vec3) Abs() Vec3 {
	return Vec3{math.Abs(v[0]), math.Abs(v[1]), math.Abs(v[2])}
}

// ApproxEqual reports whether every component differs by at most tol.
func (a Vec3) ApproxEqual(b Vec3, tol float64) bool {
	for k := 0; k < 3; k++ {
		if math.Abs(a[k]-b[k]) > tol {
			return false
		}
	}
	return true
}

// Float32 narrows the vector for GPU-style vertex buffers.
func (v Vec3) Float32() [3]float32 {
	return [3]float32{float32(v[0]), float32(v[1]), float32(v[2])}
}

// FromFloat32 widens a vertex buffer entry.
func FromFloat32(p [3]float32) Vec3 {
	return Vec3{float64(p[0]), float64(p[1]), float64(p[2])}
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
