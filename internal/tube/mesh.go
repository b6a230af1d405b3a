// Package tube sweeps a circular cross-section along sampled curve frames to
// build a triangulated tube surface.
package tube

import (
	"fmt"

	"github.com/chewxy/math32"

	"tube-renderer/internal/wireframe"
)

// ErrMalformedTopology is returned by Validate for out-of-range indices.
var ErrMalformedTopology = wireframe.ErrMalformedTopology

// Mesh holds tube geometry as GPU-ready buffers. Vertices are laid out
// ring by ring: index = ring*RadialSegments + slot.
type Mesh struct {
	Positions [][3]float32
	Normals   [][3]float32
	UVs       [][2]float32
	Indices   []uint32 // triangle list

	TubularSegments int // rings
	RadialSegments  int // vertices per ring
	Closed          bool
}

// VertexPositions implements wireframe.IndexedMesh.
func (m *Mesh) VertexPositions() [][3]float32 { return m.Positions }

// TriangleIndices implements wireframe.IndexedMesh.
func (m *Mesh) TriangleIndices() []uint32 { return m.Indices }

// Triangles returns the number of triangles.
func (m *Mesh) Triangles() int { return len(m.Indices) / 3 }

// Validate checks buffer lengths and that every index references a vertex.
func (m *Mesh) Validate() error {
	n := len(m.Positions)
	if len(m.Normals) != n {
		return fmt.Errorf("tube: %d normals for %d positions: %w", len(m.Normals), n, ErrMalformedTopology)
	}
	if m.UVs != nil && len(m.UVs) != n {
		return fmt.Errorf("tube: %d uvs for %d positions: %w", len(m.UVs), n, ErrMalformedTopology)
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("tube: index count %d not a multiple of 3: %w", len(m.Indices), ErrMalformedTopology)
	}
	for i, idx := range m.Indices {
		if int(idx) >= n {
			return fmt.Errorf("tube: index %d = %d, %d vertices: %w", i, idx, n, ErrMalformedTopology)
		}
	}
	return nil
}

// SmoothNormals replaces the ring normals with area-weighted averages of the
// adjacent face normals. Vertices without faces keep their normal.
func (m *Mesh) SmoothNormals() {
	acc := make([][3]float32, len(m.Positions))

	for f := 0; f+2 < len(m.Indices); f += 3 {
		i0, i1, i2 := m.Indices[f], m.Indices[f+1], m.Indices[f+2]
		p0, p1, p2 := m.Positions[i0], m.Positions[i1], m.Positions[i2]

		e1 := [3]float32{p1[0] - p0[0], p1[1] - p0[1], p1[2] - p0[2]}
		e2 := [3]float32{p2[0] - p0[0], p2[1] - p0[1], p2[2] - p0[2]}
		// unnormalized cross product: length is twice the face area
		n := [3]float32{
			e1[1]*e2[2] - e1[2]*e2[1],
			e1[2]*e2[0] - e1[0]*e2[2],
			e1[0]*e2[1] - e1[1]*e2[0],
		}
		for _, i := range [3]uint32{i0, i1, i2} {
			acc[i][0] += n[0]
			acc[i][1] += n[1]
			acc[i][2] += n[2]
		}
	}

	for i, n := range acc {
		l := math32.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
		if l == 0 || math32.IsNaN(l) {
			continue
		}
		m.Normals[i] = [3]float32{n[0] / l, n[1] / l, n[2] / l}
	}
}
