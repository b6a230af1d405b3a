package tube

import (
	"errors"
	"fmt"
	"math"

	"tube-renderer/internal/curve"
	"tube-renderer/internal/frame"
	"tube-renderer/internal/logging"
	"tube-renderer/internal/mathutil"
)

var (
	// ErrFrameMismatch is returned when points and frames differ in length.
	ErrFrameMismatch = errors.New("frame count does not match point count")

	// ErrInvalidOptions is returned for unusable segment counts or radius.
	ErrInvalidOptions = errors.New("invalid tube options")
)

// Options configures tube generation.
type Options struct {
	TubularSegments int     // rings along the path
	RadialSegments  int     // vertices per ring; below 3 the cross-section degenerates
	Radius          float64 // cross-section radius
	Closed          bool    // connect the last ring back to the first
	Arc             float64 // sweep angle in radians; 0 means a full revolution

	// ArcLengthSpacing places rings at equal distances along the curve
	// instead of equal parameter steps.
	ArcLengthSpacing bool
}

func (o Options) fullSweep() bool {
	return o.Arc <= 0 || o.Arc >= 2*math.Pi
}

// BuildTube samples c into tubularSegments rings of radialSegments vertices
// and returns the swept surface.
func BuildTube(c curve.Curve, tubularSegments, radialSegments int, radius float64, closed bool) (*Mesh, error) {
	return Generate(curve.NewSampler(c), Options{
		TubularSegments: tubularSegments,
		RadialSegments:  radialSegments,
		Radius:          radius,
		Closed:          closed,
	})
}

// ComputeFrames returns segments+1 frames at t = i/segments.
func ComputeFrames(c curve.Curve, segments int, closed bool) ([]frame.Frame, error) {
	return frame.FromSampler(curve.NewSampler(c), segments, closed)
}

// Generate samples the curve behind s and builds the tube. Open tubes sample
// rings at t = i/(T-1). Closed tubes sample T+1 frames at t = i/T so the
// twist correction sees the seam, then drop the duplicate last ring.
func Generate(s *curve.Sampler, opts Options) (*Mesh, error) {
	points, frames, err := Rings(s, opts)
	if err != nil {
		return nil, err
	}
	return Build(points, frames, opts)
}

// Rings returns the ring centers and frames Generate would sweep.
func Rings(s *curve.Sampler, opts Options) ([]mathutil.Vec3, []frame.Frame, error) {
	rings := opts.TubularSegments
	segments := rings - 1
	if opts.Closed {
		segments = rings
	}
	if rings < 2 || segments < 1 {
		return nil, nil, fmt.Errorf("tube: %d tubular segments: %w", rings, curve.ErrDegenerateCurve)
	}

	points := make([]mathutil.Vec3, 0, segments+1)
	tangents := make([]mathutil.Vec3, 0, segments+1)
	for k := 0; k <= segments; k++ {
		t := float64(k) / float64(segments)
		if opts.ArcLengthSpacing {
			var err error
			if t, err = s.ParamAtArcFraction(t); err != nil {
				return nil, nil, err
			}
		}
		p, err := s.Evaluate(t)
		if err != nil {
			return nil, nil, err
		}
		tan, err := s.TangentAt(t)
		if err != nil {
			return nil, nil, err
		}
		points = append(points, p)
		tangents = append(tangents, tan)
	}

	frames, err := frame.Compute(tangents, opts.Closed)
	if err != nil {
		return nil, nil, err
	}
	if opts.Closed {
		points = points[:rings]
		frames = frames[:rings]
	}
	return points, frames, nil
}

// Build sweeps a circle of opts.Radius around each point in the plane spanned
// by its frame's normal and binormal. opts.TubularSegments is ignored; every
// point becomes a ring.
//
// Faces wind counter-clockwise seen from outside the tube.
func Build(points []mathutil.Vec3, frames []frame.Frame, opts Options) (*Mesh, error) {
	rings := len(points)
	radial := opts.RadialSegments
	if rings < 2 {
		return nil, fmt.Errorf("tube: %d path points: %w", rings, curve.ErrDegenerateCurve)
	}
	if len(frames) != rings {
		return nil, fmt.Errorf("tube: %d frames for %d points: %w", len(frames), rings, ErrFrameMismatch)
	}
	if radial < 1 {
		return nil, fmt.Errorf("tube: %d radial segments: %w", radial, ErrInvalidOptions)
	}
	if math.IsNaN(opts.Radius) || math.IsInf(opts.Radius, 0) {
		return nil, fmt.Errorf("tube: radius %g: %w", opts.Radius, ErrInvalidOptions)
	}
	if uint64(rings)*uint64(radial) > math.MaxUint32 {
		return nil, fmt.Errorf("tube: %d×%d vertices exceed uint32 indices: %w", rings, radial, ErrInvalidOptions)
	}

	full := opts.fullSweep()
	step := 2 * math.Pi / float64(radial)
	if !full {
		// partial sweeps keep both edges of the arc
		step = opts.Arc / math.Max(float64(radial-1), 1)
	}

	// interval count along the path
	intervals := rings - 1
	if opts.Closed {
		intervals = rings
	}
	slots := radial
	if !full {
		slots = radial - 1
	}

	nv := rings * radial
	m := &Mesh{
		Positions:       make([][3]float32, 0, nv),
		Normals:         make([][3]float32, 0, nv),
		UVs:             make([][2]float32, 0, nv),
		Indices:         make([]uint32, 0, intervals*slots*6),
		TubularSegments: rings,
		RadialSegments:  radial,
		Closed:          opts.Closed,
	}

	uDiv := float64(rings - 1)
	if opts.Closed {
		uDiv = float64(rings)
	}

	for i, p := range points {
		n, b := frames[i].Normal, frames[i].Binormal
		for j := 0; j < radial; j++ {
			sin, cos := math.Sincos(step * float64(j))
			ringNormal := n.Scale(cos).Add(b.Scale(sin)).Normalize()
			m.Positions = append(m.Positions, p.AddScaled(ringNormal, opts.Radius).Float32())
			m.Normals = append(m.Normals, ringNormal.Float32())
			m.UVs = append(m.UVs, [2]float32{float32(float64(i) / uDiv), float32(float64(j) / float64(radial))})
		}
	}

	r := uint32(radial)
	for i := 0; i < intervals; i++ {
		cur := uint32(i) * r
		next := uint32((i+1)%rings) * r
		for j := 0; j < slots; j++ {
			nj := uint32((j + 1) % radial)
			a := cur + uint32(j)
			b := next + uint32(j)
			c := cur + nj
			d := next + nj
			m.Indices = append(m.Indices, a, c, b, c, d, b)
		}
	}

	logging.Logger().Debug("tube: mesh built",
		"rings", rings, "radial", radial, "vertices", len(m.Positions), "triangles", m.Triangles(), "closed", opts.Closed)
	return m, nil
}
