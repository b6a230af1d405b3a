// Package wireframe derives per-vertex and per-edge marker transforms from an
// indexed triangle mesh, and axis arrows from curve frames, for instanced
// debug overlays.
package wireframe

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"tube-renderer/internal/frame"
	"tube-renderer/internal/mathutil"
)

// ErrMalformedTopology is returned when an index references a vertex outside
// the position buffer.
var ErrMalformedTopology = errors.New("malformed mesh topology")

// DefaultThickness is the marker size on the two axes across an edge.
const DefaultThickness = 0.01

// IndexedMesh is a triangle list over a shared vertex buffer.
type IndexedMesh interface {
	VertexPositions() [][3]float32
	TriangleIndices() []uint32
}

// Axis tags which frame vector an arrow instance shows.
type Axis int

const (
	AxisNone Axis = iota
	AxisTangent
	AxisNormal
	AxisBinormal
)

func (a Axis) String() string {
	switch a {
	case AxisTangent:
		return "tangent"
	case AxisNormal:
		return "normal"
	case AxisBinormal:
		return "binormal"
	}
	return "none"
}

// Instance places one marker primitive. The primitive's reference direction
// is +X with unit length.
type Instance struct {
	Transform mgl32.Mat4
	Axis      Axis
}

// Segment returns the world-space image of the reference segment (0,0,0)–(1,0,0).
func (in Instance) Segment() (start, end mgl32.Vec3) {
	start = in.Transform.Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
	end = in.Transform.Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	return start, end
}

// Thickness returns the cross-section size, the length of the local Y axis.
func (in Instance) Thickness() float32 {
	return in.Transform.Col(1).Vec3().Len()
}

// Origin returns the instance translation.
func (in Instance) Origin() mgl32.Vec3 {
	return in.Transform.Col(3).Vec3()
}

// VertexInstances returns one translation per vertex.
func VertexInstances(m IndexedMesh) []Instance {
	positions := m.VertexPositions()
	out := make([]Instance, len(positions))
	for i, p := range positions {
		out[i] = Instance{Transform: mgl32.Translate3D(p[0], p[1], p[2])}
	}
	return out
}

// EdgeInstances returns one transform per unique undirected edge.
//
// Edges are first taken in canonical order: an edge of triangle (i1,i2,i3) is
// emitted from the side where its first index is smaller, which covers every
// interior edge of a consistently wound mesh exactly once. Boundary edges that
// only ever appear descending are emitted in a second pass. Either way the
// instance runs from the lower to the higher vertex index.
func EdgeInstances(m IndexedMesh, thickness float32) ([]Instance, error) {
	positions := m.VertexPositions()
	indices := m.TriangleIndices()
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("wireframe: index count %d not a multiple of 3: %w", len(indices), ErrMalformedTopology)
	}
	n := uint32(len(positions))
	for i, idx := range indices {
		if idx >= n {
			return nil, fmt.Errorf("wireframe: index %d = %d, %d vertices: %w", i, idx, n, ErrMalformedTopology)
		}
	}

	seen := make(map[uint64]struct{}, len(indices)/2)
	out := make([]Instance, 0, len(indices)/2)
	emit := func(lo, hi uint32) {
		key := uint64(lo)<<32 | uint64(hi)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, Instance{Transform: EdgeTransform(positions[lo], positions[hi], thickness)})
	}

	for f := 0; f < len(indices); f += 3 {
		i1, i2, i3 := indices[f], indices[f+1], indices[f+2]
		if i1 < i2 {
			emit(i1, i2)
		}
		if i2 < i3 {
			emit(i2, i3)
		}
		if i3 < i1 {
			emit(i3, i1)
		}
	}
	for f := 0; f < len(indices); f += 3 {
		i1, i2, i3 := indices[f], indices[f+1], indices[f+2]
		if i1 > i2 {
			emit(i2, i1)
		}
		if i2 > i3 {
			emit(i3, i2)
		}
		if i3 > i1 {
			emit(i1, i3)
		}
	}
	return out, nil
}

// EdgeTransform maps the +X unit segment onto p1→p2: translate to p1, rotate
// +X onto the edge direction by the shortest arc, and scale X to the edge
// length while Y and Z keep thickness.
func EdgeTransform(p1, p2 [3]float32, thickness float32) mgl32.Mat4 {
	a := mgl32.Vec3{p1[0], p1[1], p1[2]}
	d := mgl32.Vec3{p2[0], p2[1], p2[2]}.Sub(a)
	length := d.Len()

	rot := mgl32.Ident4()
	if length > 0 {
		rot = mgl32.QuatBetweenVectors(mgl32.Vec3{1, 0, 0}, d.Mul(1/length)).Mat4()
	}
	return mgl32.Translate3D(a[0], a[1], a[2]).
		Mul4(rot).
		Mul4(mgl32.Scale3D(length, thickness, thickness))
}

// FrameArrows returns three arrows per sample, along the tangent, normal and
// binormal of frames[i] starting at points[i].
func FrameArrows(points []mathutil.Vec3, frames []frame.Frame, length, thickness float32) ([]Instance, error) {
	if len(points) != len(frames) {
		return nil, fmt.Errorf("wireframe: %d points for %d frames: %w", len(points), len(frames), ErrMalformedTopology)
	}
	out := make([]Instance, 0, 3*len(frames))
	for i, f := range frames {
		p := points[i]
		for _, ax := range []struct {
			axis Axis
			dir  mathutil.Vec3
		}{
			{AxisTangent, f.Tangent},
			{AxisNormal, f.Normal},
			{AxisBinormal, f.Binormal},
		} {
			tip := p.AddScaled(ax.dir, float64(length))
			out = append(out, Instance{
				Transform: EdgeTransform(p.Float32(), tip.Float32(), thickness),
				Axis:      ax.axis,
			})
		}
	}
	return out, nil
}
