// Package curve defines parametric 3D curves and samples them by parameter
// and by arc length.
package curve

import (
	"errors"
	"math"

	"tube-renderer/internal/mathutil"
)

var (
	// ErrInvalidDomain is returned when a curve yields no value for a parameter.
	ErrInvalidDomain = errors.New("curve has no value at parameter")

	// ErrDegenerateCurve is returned when samples or tangents collapse to a point.
	ErrDegenerateCurve = errors.New("degenerate curve")
)

// Curve is a parametric curve over t in [0,1]. Evaluate returns false when
// the curve has no value at t.
type Curve interface {
	Evaluate(t float64) (mathutil.Vec3, bool)
}

// Closer is implemented by curves whose end joins their start.
type Closer interface {
	Closed() bool
}

// Divider is implemented by curves that want a specific arc-length table
// resolution instead of DefaultArcLengthDivisions.
type Divider interface {
	ArcLengthDivisions() int
}

// IsClosed reports whether c declares itself closed.
func IsClosed(c Curve) bool {
	cl, ok := c.(Closer)
	return ok && cl.Closed()
}

func inDomain(t float64) bool {
	return t >= 0 && t <= 1
}

// Line is the straight segment Start + t*Direction.
type Line struct {
	Start     mathutil.Vec3
	Direction mathutil.Vec3
}

func (l Line) Evaluate(t float64) (mathutil.Vec3, bool) {
	if !inDomain(t) {
		return mathutil.Vec3{}, false
	}
	return l.Start.AddScaled(l.Direction, t), true
}

// Sine oscillates around the ray Start + s*Direction, s in [0, Length], with
// offset Amplitude*sin(Period*s) along an axis perpendicular to Direction.
type Sine struct {
	Start     mathutil.Vec3
	Direction mathutil.Vec3
	Amplitude float64
	Period    float64
	Length    float64
}

func (c Sine) Evaluate(t float64) (mathutil.Vec3, bool) {
	if !inDomain(t) {
		return mathutil.Vec3{}, false
	}
	dir, up := sineAxes(c.Direction)
	s := t * c.Length
	offset := c.Amplitude * math.Sin(c.Period*s)
	return c.Start.AddScaled(dir, s).AddScaled(up, offset), true
}

// sineAxes returns the normalized direction and the oscillation axis.
// The helper axis is X unless the direction is nearly parallel to it.
func sineAxes(direction mathutil.Vec3) (dir, up mathutil.Vec3) {
	dir = direction.Normalize()
	helper := mathutil.UnitX
	if math.Abs(dir[0]) >= 0.9 {
		helper = mathutil.UnitY
	}
	return dir, dir.Cross(helper).Normalize()
}

// SinePoints returns count points of the Sine curve at uniform s, as an
// explicit point list for a Polyline. Returns nil when count < 2.
func SinePoints(start, direction mathutil.Vec3, amplitude, period, length float64, count int) []mathutil.Vec3 {
	if count < 2 {
		return nil
	}
	dir, up := sineAxes(direction)
	points := make([]mathutil.Vec3, 0, count)
	for i := 0; i < count; i++ {
		s := float64(i) / float64(count-1) * length
		points = append(points, start.AddScaled(dir, s).AddScaled(up, amplitude*math.Sin(period*s)))
	}
	return points
}

// Polyline is the piecewise-linear path through Points. Each segment covers
// an equal share of the parameter range. Loop adds a closing segment from the
// last point back to the first.
type Polyline struct {
	Points []mathutil.Vec3
	Loop   bool
}

func (p Polyline) segments() int {
	n := len(p.Points)
	if p.Loop {
		return n
	}
	return n - 1
}

func (p Polyline) Evaluate(t float64) (mathutil.Vec3, bool) {
	n := len(p.Points)
	if n == 0 || !inDomain(t) {
		return mathutil.Vec3{}, false
	}
	segs := p.segments()
	if segs <= 0 {
		return p.Points[0], true
	}
	f := t * float64(segs)
	i := int(f)
	if i >= segs {
		i = segs - 1
	}
	a := p.Points[i]
	b := p.Points[(i+1)%n]
	return a.Lerp(b, f-float64(i)), true
}

func (p Polyline) Closed() bool { return p.Loop }

// ArcLengthDivisions keeps every vertex on a table sample so chord lengths
// are exact.
func (p Polyline) ArcLengthDivisions() int {
	segs := p.segments()
	if segs <= 0 {
		return DefaultArcLengthDivisions
	}
	per := (DefaultArcLengthDivisions + segs - 1) / segs
	return per * segs
}

// Circle lies in the XY plane around Center. It is periodic, so any t has a
// value.
type Circle struct {
	Center mathutil.Vec3
	Radius float64
}

func (c Circle) Evaluate(t float64) (mathutil.Vec3, bool) {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return mathutil.Vec3{}, false
	}
	s, co := math.Sincos(2 * math.Pi * t)
	return c.Center.Add(mathutil.Vec3{c.Radius * co, c.Radius * s, 0}), true
}

func (c Circle) Closed() bool { return true }

// Helix winds Turns times around the Y axis, rising Pitch per turn.
type Helix struct {
	Radius float64
	Pitch  float64
	Turns  float64
}

func (h Helix) Evaluate(t float64) (mathutil.Vec3, bool) {
	if !inDomain(t) {
		return mathutil.Vec3{}, false
	}
	s, c := math.Sincos(2 * math.Pi * h.Turns * t)
	return mathutil.Vec3{h.Radius * c, h.Pitch * h.Turns * t, h.Radius * s}, true
}
