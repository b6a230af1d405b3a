package frame

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tube-renderer/internal/curve"
	"tube-renderer/internal/mathutil"
)

const tol = 1e-4

func requireOrthonormal(t *testing.T, frames []Frame) {
	t.Helper()
	for i, f := range frames {
		require.NoError(t, f.CheckOrthonormal(tol), "frame %d", i)
		assert.True(t, f.Binormal.ApproxEqual(f.Tangent.Cross(f.Normal), tol), "frame %d handedness", i)
	}
}

func TestSeedPicksSmallestComponentAxis(t *testing.T) {
	cases := []struct {
		name    string
		tangent mathutil.Vec3
		normal  mathutil.Vec3
	}{
		// ties between x and z resolve to z
		{"along y", mathutil.UnitY, mathutil.Vec3{0, 0, -1}},
		{"along x", mathutil.UnitX, mathutil.Vec3{0, 0, -1}},
		{"along z", mathutil.UnitZ, mathutil.Vec3{0, -1, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := seed(tc.tangent)
			require.NoError(t, err)
			assert.True(t, f.Normal.ApproxEqual(tc.normal, 1e-12), "normal %v", f.Normal)
			require.NoError(t, f.CheckOrthonormal(1e-12))
		})
	}
}

func TestStraightLineFramesConstant(t *testing.T) {
	s := curve.NewSampler(curve.Line{Start: mathutil.Vec3{1, -2, 0.5}, Direction: mathutil.Vec3{1, 2, 3}})
	frames, err := FromSampler(s, 40, false)
	require.NoError(t, err)
	require.Len(t, frames, 41)
	requireOrthonormal(t, frames)

	for i := 1; i < len(frames); i++ {
		assert.True(t, frames[i].Normal.ApproxEqual(frames[0].Normal, 1e-9), "normal %d", i)
		assert.True(t, frames[i].Binormal.ApproxEqual(frames[0].Binormal, 1e-9), "binormal %d", i)
	}
}

func TestBendScenario(t *testing.T) {
	s := curve.NewSampler(curve.Polyline{Points: []mathutil.Vec3{{0, 0, 0}, {0, 2, 0}, {2, 2, 0}}})
	frames, err := FromSampler(s, 2, false)
	require.NoError(t, err)
	require.Len(t, frames, 3)
	requireOrthonormal(t, frames)

	// the bend lies in the XY plane, so the normal stays out of plane
	for i, f := range frames {
		assert.InDelta(t, 1, math.Abs(f.Normal[2]), 1e-6, "frame %d", i)
	}
}

func TestHelixFramesOrthonormalAndSmooth(t *testing.T) {
	s := curve.NewSampler(curve.Helix{Radius: 1, Pitch: 0.4, Turns: 3})
	frames, err := FromSampler(s, 300, false)
	require.NoError(t, err)
	requireOrthonormal(t, frames)

	// rotation-minimizing: consecutive normals never jump
	for i := 1; i < len(frames); i++ {
		assert.Greater(t, frames[i].Normal.Dot(frames[i-1].Normal), 0.95, "frame %d", i)
	}
}

func TestClosedCircleHasNoSeam(t *testing.T) {
	s := curve.NewSampler(curve.Circle{Radius: 2})
	frames, err := FromSampler(s, 64, true)
	require.NoError(t, err)
	requireOrthonormal(t, frames)

	first, last := frames[0], frames[len(frames)-1]
	assert.True(t, last.Normal.ApproxEqual(first.Normal, 1e-3), "%v vs %v", last.Normal, first.Normal)
}

func TestClosedTwistIsDistributed(t *testing.T) {
	// a trefoil-like closed loop accumulates twist under parallel transport
	knot := curve.Polyline{Loop: true}
	for i := 0; i < 720; i++ {
		a := 2 * math.Pi * float64(i) / 720
		knot.Points = append(knot.Points, mathutil.Vec3{
			math.Sin(a) + 2*math.Sin(2*a),
			math.Cos(a) - 2*math.Cos(2*a),
			-math.Sin(3 * a),
		})
	}
	s := curve.NewSampler(knot)

	closed, err := FromSampler(s, 720, true)
	require.NoError(t, err)
	requireOrthonormal(t, closed)

	n := len(closed) - 1
	assert.Greater(t, closed[n].Normal.Dot(closed[0].Normal), 0.99)

	// the correction grows linearly, so neighbours stay close
	for i := 1; i <= n; i++ {
		assert.Greater(t, closed[i].Normal.Dot(closed[i-1].Normal), 0.9, "frame %d", i)
	}
}

func TestComputeRejectsDegenerateInput(t *testing.T) {
	_, err := Compute([]mathutil.Vec3{mathutil.UnitX}, false)
	assert.ErrorIs(t, err, curve.ErrDegenerateCurve)

	_, err = Compute([]mathutil.Vec3{mathutil.UnitX, {}}, false)
	assert.ErrorIs(t, err, curve.ErrDegenerateCurve)
}

func TestComputeReversal(t *testing.T) {
	// antiparallel tangents have a zero cross product: the normal is carried
	frames, err := Compute([]mathutil.Vec3{mathutil.UnitX, {-1, 0, 0}}, false)
	require.NoError(t, err)
	assert.True(t, frames[1].Normal.ApproxEqual(frames[0].Normal, 1e-12))
	require.NoError(t, frames[1].CheckOrthonormal(tol))
}

func TestMatrixColumns(t *testing.T) {
	f, err := seed(mathutil.UnitZ)
	require.NoError(t, err)
	m := f.Matrix()
	assert.Equal(t, f.Tangent, m.Col(0))
	assert.Equal(t, f.Normal, m.Col(1))
	assert.Equal(t, f.Binormal, m.Col(2))
	assert.InDelta(t, 1, m.Det(), 1e-12)
}
