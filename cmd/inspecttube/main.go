package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"tube-renderer/internal/curve"
	"tube-renderer/internal/mathutil"
	"tube-renderer/internal/scenelist"
	"tube-renderer/internal/tube"
	"tube-renderer/internal/wireframe"
)

func main() {
	list := flag.String("scenes", "scenes.xml", "Scene list XML")
	flag.Parse()

	scenes, err := scenelist.Parse(*list)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scene list: %v\n", err)
		os.Exit(1)
	}

	want := make(map[string]bool)
	for _, arg := range flag.Args() {
		want[arg] = true
	}

	for _, def := range scenes {
		if len(want) > 0 && !want[def.Name] {
			continue
		}
		fmt.Printf("\n=== %s (curve=%s tubular=%d radial=%d radius=%g closed=%v) ===\n",
			def.Name, def.Kind, def.Tubular, def.Radial, def.Thickness, def.Closed)
		if err := inspect(def); err != nil {
			fmt.Printf("  ERROR: %v\n", err)
		}
	}
}

func inspect(def scenelist.SceneDef) error {
	c, err := def.Curve()
	if err != nil {
		return err
	}
	s := curve.NewSampler(c)

	length, err := s.Length()
	if err != nil {
		return err
	}
	fmt.Printf("  Arc length: %.6f (%d divisions, closed curve=%v)\n", length, s.Divisions(), s.Closed())

	opts := tube.Options{
		TubularSegments:  def.Tubular,
		RadialSegments:   def.Radial,
		Radius:           def.Thickness,
		Closed:           def.Closed,
		ArcLengthSpacing: def.ArcLength,
	}
	points, frames, err := tube.Rings(s, opts)
	if err != nil {
		return err
	}

	// Worst orthonormality residual over all frames
	worst := 0.0
	for _, f := range frames {
		for _, d := range []float64{
			math.Abs(f.Tangent.Len() - 1),
			math.Abs(f.Normal.Len() - 1),
			math.Abs(f.Binormal.Len() - 1),
			math.Abs(f.Tangent.Dot(f.Normal)),
			math.Abs(f.Tangent.Dot(f.Binormal)),
			math.Abs(f.Normal.Dot(f.Binormal)),
		} {
			worst = math.Max(worst, d)
		}
	}
	fmt.Printf("  Frames: %d, worst residual %.2e\n", len(frames), worst)

	// Normal turn between neighbours, and across the seam for closed tubes
	maxTurn := 0.0
	for i := 1; i < len(frames); i++ {
		maxTurn = math.Max(maxTurn, angle(frames[i-1].Normal, frames[i].Normal))
	}
	fmt.Printf("  Max normal turn: %.3f°\n", maxTurn)
	if def.Closed && len(frames) > 1 {
		fmt.Printf("  Seam normal turn: %.3f°\n", angle(frames[len(frames)-1].Normal, frames[0].Normal))
	}

	mesh, err := tube.Build(points, frames, opts)
	if err != nil {
		return err
	}
	if err := mesh.Validate(); err != nil {
		return err
	}
	fmt.Printf("  Mesh: %d vertices, %d triangles\n", len(mesh.Positions), mesh.Triangles())

	edges, err := wireframe.EdgeInstances(mesh, wireframe.DefaultThickness)
	if err != nil {
		return err
	}
	fmt.Printf("  Wireframe: %d edges, %d vertex markers\n", len(edges), len(wireframe.VertexInstances(mesh)))

	var lo, hi mathutil.Vec3
	for i, p := range mesh.Positions {
		v := mathutil.FromFloat32(p)
		if i == 0 {
			lo, hi = v, v
			continue
		}
		for k := 0; k < 3; k++ {
			lo[k] = math.Min(lo[k], v[k])
			hi[k] = math.Max(hi[k], v[k])
		}
	}
	fmt.Printf("  Bounds: x=[%.3f..%.3f] y=[%.3f..%.3f] z=[%.3f..%.3f]\n",
		lo[0], hi[0], lo[1], hi[1], lo[2], hi[2])
	return nil
}

// angle returns the angle between two unit vectors in degrees.
func angle(a, b mathutil.Vec3) float64 {
	return math.Acos(mathutil.Clamp(a.Dot(b), -1, 1)) * 180 / math.Pi
}
