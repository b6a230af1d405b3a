package raster

import (
	"image/color"

	"tube-renderer/internal/mathutil"
	"tube-renderer/internal/wireframe"
)

// Line is a world-space overlay segment. Width is in world units; lines
// thinner than a hairline on screen are drawn as a hairline.
type Line struct {
	A, B  mathutil.Vec3
	Width float64
	Color color.NRGBA
}

// Overlay colors.
var (
	EdgeColor   = color.NRGBA{20, 24, 32, 255}
	VertexColor = color.NRGBA{240, 200, 40, 255}

	axisColors = map[wireframe.Axis]color.NRGBA{
		wireframe.AxisTangent:  {220, 40, 40, 255},
		wireframe.AxisNormal:   {40, 190, 60, 255},
		wireframe.AxisBinormal: {50, 90, 230, 255},
	}
)

// InstanceLines turns instance transforms into overlay lines along their
// reference segment, as wide as the instance's cross-section. Frame-axis
// instances take their axis color, the rest c.
func InstanceLines(instances []wireframe.Instance, c color.NRGBA) []Line {
	lines := make([]Line, 0, len(instances))
	for _, in := range instances {
		a, b := in.Segment()
		col := c
		if ac, ok := axisColors[in.Axis]; ok {
			col = ac
		}
		lines = append(lines, Line{
			A:     mathutil.FromFloat32(a),
			B:     mathutil.FromFloat32(b),
			Width: float64(in.Thickness()),
			Color: col,
		})
	}
	return lines
}

// InstanceDots returns the world-space origin of each instance.
func InstanceDots(instances []wireframe.Instance) []mathutil.Vec3 {
	dots := make([]mathutil.Vec3, len(instances))
	for i, in := range instances {
		dots[i] = mathutil.FromFloat32(in.Origin())
	}
	return dots
}
