package viewmatrix

import (
	"math"

	"tube-renderer/internal/mathutil"
)

// FromAngles builds the camera rotation Rx(pitch) @ Ry(yaw), angles in degrees.
func FromAngles(yawDeg, pitchDeg float64) mathutil.Mat3 {
	return mathutil.Mat3Mul(mathutil.RotX(mathutil.Deg2Rad(pitchDeg)), mathutil.RotY(mathutil.Deg2Rad(yawDeg)))
}

// Projection maps world points to screen pixels for a square render target.
// Screen Y grows downward; larger Z is closer to the viewer.
type Projection struct {
	View  mathutil.Affine // world → view, bounding-box center moved to the origin
	Scale float64
	Half  float64
}

// Fit returns a projection that frames all verts inside a renderSize square
// with margin pixels of padding on each side.
func Fit(verts [][3]float32, R mathutil.Mat3, renderSize, margin int) Projection {
	allMin := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	allMax := [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, v := range verts {
		tv := R.MulVec3(mathutil.FromFloat32(v))
		for k := 0; k < 3; k++ {
			if tv[k] < allMin[k] {
				allMin[k] = tv[k]
			}
			if tv[k] > allMax[k] {
				allMax[k] = tv[k]
			}
		}
	}

	var center mathutil.Vec3
	span := 0.001
	if len(verts) > 0 {
		center = mathutil.Vec3{
			(allMin[0] + allMax[0]) / 2,
			(allMin[1] + allMax[1]) / 2,
			(allMin[2] + allMax[2]) / 2,
		}
		span = math.Max(allMax[0]-allMin[0], allMax[1]-allMin[1])
		if span < 0.001 {
			span = 0.001
		}
	}

	usable := renderSize - 2*margin
	if usable < 1 {
		usable = 1
	}

	return Projection{
		View:  mathutil.Recentered(R, center),
		Scale: float64(usable) / span,
		Half:  float64(renderSize) / 2,
	}
}

// Project returns screen X, screen Y and depth for a world point.
func (p Projection) Project(v mathutil.Vec3) (x, y, z float64) {
	t := p.View.Apply(v)
	return t[0]*p.Scale + p.Half, -t[1]*p.Scale + p.Half, t[2]
}

// Normal rotates a world-space normal into screen orientation (Y down).
func (p Projection) Normal(n mathutil.Vec3) mathutil.Vec3 {
	r := p.View.ApplyDir(n)
	return mathutil.Vec3{r[0], -r[1], r[2]}
}
