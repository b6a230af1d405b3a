package tube

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tube-renderer/internal/curve"
	"tube-renderer/internal/frame"
	"tube-renderer/internal/mathutil"
	"tube-renderer/internal/wireframe"
)

var bend = curve.Polyline{Points: []mathutil.Vec3{{0, 0, 0}, {0, 2, 0}, {2, 2, 0}}}

func faceNormal(m *Mesh, f int) mathutil.Vec3 {
	p0 := mathutil.FromFloat32(m.Positions[m.Indices[3*f]])
	p1 := mathutil.FromFloat32(m.Positions[m.Indices[3*f+1]])
	p2 := mathutil.FromFloat32(m.Positions[m.Indices[3*f+2]])
	return p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
}

func TestBendScenario(t *testing.T) {
	m, err := BuildTube(bend, 3, 4, 0.2, false)
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	assert.Len(t, m.Positions, 12)
	assert.Len(t, m.Normals, 12)
	// two intervals × four slots × two triangles
	assert.Equal(t, 16, m.Triangles())

	frames, err := ComputeFrames(bend, 2, false)
	require.NoError(t, err)
	require.Len(t, frames, 3)
	for i, f := range frames {
		require.NoError(t, f.CheckOrthonormal(1e-4), "frame %d", i)
	}

	// ring 0 slot 0 points away from the path start
	p := mathutil.FromFloat32(m.Positions[0])
	n := mathutil.FromFloat32(m.Normals[0])
	assert.InDelta(t, 0.2, p.Len(), 1e-6)
	assert.InDelta(t, 1, n.Dot(p.Normalize()), 1e-6)
	assert.InDelta(t, 0, n.Dot(frames[0].Tangent), 1e-6)
}

func TestVertexAndIndexCounts(t *testing.T) {
	c := curve.Sine{Direction: mathutil.Vec3{1, 0, 0}, Amplitude: 0.4, Period: 4, Length: 3}
	for _, tc := range []struct{ tubular, radial int }{{2, 3}, {16, 8}, {64, 12}, {5, 1}} {
		m, err := BuildTube(c, tc.tubular, tc.radial, 0.1, false)
		require.NoError(t, err)
		assert.Len(t, m.Positions, tc.tubular*tc.radial)
		assert.Len(t, m.Indices, (tc.tubular-1)*tc.radial*6)
		for i, idx := range m.Indices {
			require.Less(t, int(idx), len(m.Positions), "index %d", i)
		}
	}
}

func TestFacesPointOutward(t *testing.T) {
	c := curve.Helix{Radius: 1, Pitch: 0.5, Turns: 1}
	m, err := BuildTube(c, 40, 10, 0.1, false)
	require.NoError(t, err)

	for f := 0; f < m.Triangles(); f++ {
		fn := faceNormal(m, f)
		vn := mathutil.FromFloat32(m.Normals[m.Indices[3*f]])
		assert.Greater(t, fn.Dot(vn), 0.0, "face %d", f)
	}
}

func TestRingNormalsUnit(t *testing.T) {
	m, err := BuildTube(curve.Circle{Radius: 3}, 32, 6, 0.5, true)
	require.NoError(t, err)
	for i, n := range m.Normals {
		assert.InDelta(t, 1, mathutil.FromFloat32(n).Len(), 1e-6, "normal %d", i)
	}
}

func TestClosedTubeWraps(t *testing.T) {
	m, err := BuildTube(curve.Circle{Radius: 3}, 24, 8, 0.5, true)
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	assert.Len(t, m.Positions, 24*8)
	assert.Len(t, m.Indices, 24*8*6)
	assert.True(t, m.Closed)

	// the last interval connects back to ring 0
	last := m.Indices[len(m.Indices)-6:]
	assert.Contains(t, last, uint32(0*8+7))
	assert.Contains(t, last, uint32(23*8+7))
}

func TestOpenTubeNeverReferencesMissingRing(t *testing.T) {
	m, err := BuildTube(bend, 3, 5, 0.1, false)
	require.NoError(t, err)
	for _, idx := range m.Indices {
		assert.Less(t, int(idx)/5, 3)
	}
}

func TestEdgeInstancesOnTube(t *testing.T) {
	const rings, radial = 6, 7
	m, err := BuildTube(bend, rings, radial, 0.1, false)
	require.NoError(t, err)

	edges, err := wireframe.EdgeInstances(m, wireframe.DefaultThickness)
	require.NoError(t, err)
	// ring edges + longitudinal edges + one diagonal per quad
	assert.Len(t, edges, rings*radial+2*(rings-1)*radial)

	verts := wireframe.VertexInstances(m)
	assert.Len(t, verts, rings*radial)
}

func TestSmoothNormals(t *testing.T) {
	m, err := BuildTube(curve.Circle{Radius: 2}, 48, 12, 0.25, true)
	require.NoError(t, err)
	ring := append([][3]float32(nil), m.Normals...)

	m.SmoothNormals()
	for i, n := range m.Normals {
		v := mathutil.FromFloat32(n)
		assert.InDelta(t, 1, v.Len(), 1e-5, "normal %d", i)
		// a closed, evenly sampled tube barely changes
		assert.Greater(t, v.Dot(mathutil.FromFloat32(ring[i])), 0.95, "normal %d", i)
	}
}

func TestArcLengthSpacing(t *testing.T) {
	c := curve.Polyline{Points: []mathutil.Vec3{{0, 0, 0}, {3, 0, 0}, {3, 1, 0}}}
	points, frames, err := Rings(curve.NewSampler(c), Options{TubularSegments: 5, ArcLengthSpacing: true})
	require.NoError(t, err)
	require.Len(t, frames, 5)
	for i := 1; i < len(points); i++ {
		assert.InDelta(t, 1, points[i].Dist(points[i-1]), 1e-6, "ring %d", i)
	}
}

func TestPartialSweep(t *testing.T) {
	m, err := Generate(curve.NewSampler(curve.Line{Direction: mathutil.UnitZ}), Options{
		TubularSegments: 2,
		RadialSegments:  5,
		Radius:          1,
		Arc:             math.Pi,
	})
	require.NoError(t, err)
	// half pipe: four quads, the open side is not bridged
	assert.Len(t, m.Indices, 4*6)

	first := mathutil.FromFloat32(m.Normals[0])
	last := mathutil.FromFloat32(m.Normals[4])
	assert.InDelta(t, -1, first.Dot(last), 1e-6)
}

func TestBuildErrors(t *testing.T) {
	_, err := BuildTube(bend, 1, 8, 0.1, false)
	assert.ErrorIs(t, err, curve.ErrDegenerateCurve)

	_, err = BuildTube(curve.Polyline{Points: []mathutil.Vec3{{1, 1, 1}, {1, 1, 1}}}, 4, 8, 0.1, false)
	assert.ErrorIs(t, err, curve.ErrDegenerateCurve)

	_, err = Build([]mathutil.Vec3{{0, 0, 0}}, nil, Options{RadialSegments: 4})
	assert.ErrorIs(t, err, curve.ErrDegenerateCurve)

	frames, err := ComputeFrames(bend, 2, false)
	require.NoError(t, err)
	_, err = Build([]mathutil.Vec3{{0, 0, 0}, {0, 2, 0}}, frames, Options{RadialSegments: 4})
	assert.ErrorIs(t, err, ErrFrameMismatch)

	_, err = Build([]mathutil.Vec3{{0, 0, 0}, {0, 2, 0}, {2, 2, 0}}, frames, Options{RadialSegments: 0})
	assert.ErrorIs(t, err, ErrInvalidOptions)

	_, err = Build([]mathutil.Vec3{{0, 0, 0}, {0, 2, 0}, {2, 2, 0}}, frames, Options{RadialSegments: 4, Radius: math.NaN()})
	assert.ErrorIs(t, err, ErrInvalidOptions)
}

func TestBuildFailsOnDomainError(t *testing.T) {
	m, err := BuildTube(halfLine{}, 10, 6, 0.1, false)
	assert.ErrorIs(t, err, curve.ErrInvalidDomain)
	assert.Nil(t, m)
}

// halfLine has no value past t = 0.5.
type halfLine struct{}

func (halfLine) Evaluate(t float64) (mathutil.Vec3, bool) {
	if t < 0 || t > 0.5 {
		return mathutil.Vec3{}, false
	}
	return mathutil.Vec3{t, 0, 0}, true
}

func TestValidate(t *testing.T) {
	m := &Mesh{
		Positions: make([][3]float32, 3),
		Normals:   make([][3]float32, 3),
		Indices:   []uint32{0, 1, 3},
	}
	assert.ErrorIs(t, m.Validate(), ErrMalformedTopology)

	m.Indices = []uint32{0, 1}
	assert.ErrorIs(t, m.Validate(), ErrMalformedTopology)

	m.Indices = []uint32{0, 1, 2}
	m.Normals = m.Normals[:2]
	assert.ErrorIs(t, m.Validate(), ErrMalformedTopology)
}

func TestBuildUsesGivenFrames(t *testing.T) {
	f := frame.Frame{Tangent: mathutil.UnitZ, Normal: mathutil.UnitX, Binormal: mathutil.UnitY}
	m, err := Build([]mathutil.Vec3{{0, 0, 0}, {0, 0, 1}}, []frame.Frame{f, f}, Options{RadialSegments: 4, Radius: 2})
	require.NoError(t, err)
	want := [][3]float32{{2, 0, 0}, {0, 2, 0}, {-2, 0, 0}, {0, -2, 0}}
	for j, w := range want {
		assert.True(t, mathutil.FromFloat32(m.Positions[j]).ApproxEqual(mathutil.FromFloat32(w), 1e-6), "slot %d", j)
	}
	assert.Equal(t, [2]float32{1, 0.25}, m.UVs[5])
}
