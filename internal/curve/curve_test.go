package curve

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tube-renderer/internal/mathutil"
)

func TestLineDomain(t *testing.T) {
	l := Line{Start: mathutil.Vec3{1, 2, 3}, Direction: mathutil.Vec3{2, 0, 0}}

	p, ok := l.Evaluate(0.5)
	require.True(t, ok)
	assert.Equal(t, mathutil.Vec3{2, 2, 3}, p)

	_, ok = l.Evaluate(-0.1)
	assert.False(t, ok)
	_, ok = l.Evaluate(1.1)
	assert.False(t, ok)
}

func TestSineMatchesSinePoints(t *testing.T) {
	c := Sine{
		Start:     mathutil.Vec3{0, 0, 0},
		Direction: mathutil.Vec3{0, 0, 1},
		Amplitude: 0.5,
		Period:    3,
		Length:    4,
	}
	points := SinePoints(c.Start, c.Direction, c.Amplitude, c.Period, c.Length, 9)
	require.Len(t, points, 9)
	for i, want := range points {
		got, ok := c.Evaluate(float64(i) / 8)
		require.True(t, ok)
		assert.True(t, got.ApproxEqual(want, 1e-12), "sample %d: %v != %v", i, got, want)
	}
	assert.Nil(t, SinePoints(c.Start, c.Direction, 1, 1, 1, 1))
}

func TestSineAxesAvoidParallelHelper(t *testing.T) {
	dir, up := sineAxes(mathutil.Vec3{5, 0, 0})
	assert.Equal(t, mathutil.UnitX, dir)
	assert.InDelta(t, 1, up.Len(), 1e-12)
	assert.InDelta(t, 0, up.Dot(dir), 1e-12)
}

func TestPolylineEvaluate(t *testing.T) {
	p := Polyline{Points: []mathutil.Vec3{{0, 0, 0}, {0, 2, 0}, {2, 2, 0}}}

	cases := []struct {
		t    float64
		want mathutil.Vec3
	}{
		{0, mathutil.Vec3{0, 0, 0}},
		{0.25, mathutil.Vec3{0, 1, 0}},
		{0.5, mathutil.Vec3{0, 2, 0}},
		{0.75, mathutil.Vec3{1, 2, 0}},
		{1, mathutil.Vec3{2, 2, 0}},
	}
	for _, tc := range cases {
		got, ok := p.Evaluate(tc.t)
		require.True(t, ok)
		assert.True(t, got.ApproxEqual(tc.want, 1e-12), "t=%g: %v", tc.t, got)
	}
	assert.False(t, IsClosed(p))

	_, ok := Polyline{}.Evaluate(0.5)
	assert.False(t, ok)
}

func TestPolylineLoop(t *testing.T) {
	p := Polyline{Points: []mathutil.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}, Loop: true}
	assert.True(t, IsClosed(p))

	end, ok := p.Evaluate(1)
	require.True(t, ok)
	assert.True(t, end.ApproxEqual(mathutil.Vec3{0, 0, 0}, 1e-12))
	assert.Zero(t, p.ArcLengthDivisions()%4)
}

func TestCircleIsPeriodic(t *testing.T) {
	c := Circle{Radius: 2}
	assert.True(t, IsClosed(c))

	a, ok := c.Evaluate(0.25)
	require.True(t, ok)
	b, ok := c.Evaluate(1.25)
	require.True(t, ok)
	assert.True(t, a.ApproxEqual(b, 1e-9))
	assert.True(t, a.ApproxEqual(mathutil.Vec3{0, 2, 0}, 1e-9))

	_, ok = c.Evaluate(math.NaN())
	assert.False(t, ok)
}

func TestHelixRises(t *testing.T) {
	h := Helix{Radius: 1, Pitch: 0.5, Turns: 2}
	p, ok := h.Evaluate(1)
	require.True(t, ok)
	assert.InDelta(t, 1.0, p[1], 1e-12)
	assert.InDelta(t, 1, math.Hypot(p[0], p[2]), 1e-12)
}
