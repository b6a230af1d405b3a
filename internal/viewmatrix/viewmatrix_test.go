package viewmatrix

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tube-renderer/internal/mathutil"
)

func TestFromAnglesMatchesIsoPreset(t *testing.T) {
	got := FromAngles(30, -25)
	for i := range got {
		assert.InDelta(t, mathutil.IsoView[i], got[i], 1e-12)
	}
	id := FromAngles(0, 0)
	assert.Equal(t, mathutil.Mat3Identity(), id)
}

func TestFitCentersAndScales(t *testing.T) {
	verts := [][3]float32{{-1, -1, 0}, {3, 1, 0}, {1, 0, 2}}
	p := Fit(verts, mathutil.Mat3Identity(), 100, 10)

	// X span is 4 → 80 usable pixels
	assert.InDelta(t, 20.0, p.Scale, 1e-9)

	x, y, z := p.Project(mathutil.Vec3{1, 0, 1})
	assert.InDelta(t, 50.0, x, 1e-9)
	assert.InDelta(t, 50.0, y, 1e-9)
	assert.InDelta(t, 0.0, z, 1e-9)

	x0, y0, _ := p.Project(mathutil.FromFloat32(verts[0]))
	x1, y1, _ := p.Project(mathutil.FromFloat32(verts[1]))
	assert.InDelta(t, 10.0, x0, 1e-9)
	assert.InDelta(t, 90.0, x1, 1e-9)
	// +Y points up on screen
	assert.Greater(t, y0, y1)
}

func TestFitEmpty(t *testing.T) {
	p := Fit(nil, mathutil.Mat3Identity(), 64, 4)
	x, y, _ := p.Project(mathutil.Vec3{})
	assert.InDelta(t, 32.0, x, 1e-9)
	assert.InDelta(t, 32.0, y, 1e-9)
}

func TestDepthFollowsRotation(t *testing.T) {
	// Ry(90°) maps +X to -Z: a point on +X ends up behind one on -X.
	verts := [][3]float32{{1, 0, 0}, {-1, 0, 0}}
	p := Fit(verts, FromAngles(90, 0), 64, 0)
	_, _, z0 := p.Project(mathutil.FromFloat32(verts[0]))
	_, _, z1 := p.Project(mathutil.FromFloat32(verts[1]))
	assert.Less(t, z0, z1)
}

func TestNormalIgnoresTranslation(t *testing.T) {
	p := Fit([][3]float32{{5, 5, 5}, {7, 9, 5}}, mathutil.Mat3Identity(), 64, 0)
	assert.Equal(t, mathutil.Vec3{0, -1, 0}, p.Normal(mathutil.UnitY))
	assert.Equal(t, mathutil.UnitZ, p.Normal(mathutil.UnitZ))
}
