package scenelist

import (
	"fmt"
	"strings"

	"tube-renderer/internal/curve"
	"tube-renderer/internal/mathutil"
)

// SceneDef holds one scene parsed from the scene list.
type SceneDef struct {
	Name string

	// Curve
	Kind      string // line, sine, sinepoints, polyline, circle, helix
	Start     mathutil.Vec3
	Direction mathutil.Vec3
	Amplitude float64
	Period    float64
	Length    float64
	Count     int // sinepoints
	Radius    float64
	Pitch     float64
	Turns     float64
	Points    []mathutil.Vec3
	Loop      bool

	// Tube
	Tubular   int
	Radial    int
	Thickness float64 // tube radius
	Closed    bool
	ArcLength bool
	Smooth    bool

	// Overlays and look
	Wireframe bool
	Vertices  bool
	Frames    bool
	Texture   string
	Color     [3]uint8
}

// Curve builds the curve described by the scene.
func (s SceneDef) Curve() (curve.Curve, error) {
	switch strings.ToLower(s.Kind) {
	case "line":
		return curve.Line{Start: s.Start, Direction: s.Direction}, nil
	case "sine":
		return curve.Sine{Start: s.Start, Direction: s.Direction, Amplitude: s.Amplitude, Period: s.Period, Length: s.Length}, nil
	case "sinepoints":
		points := curve.SinePoints(s.Start, s.Direction, s.Amplitude, s.Period, s.Length, s.Count)
		if points == nil {
			return nil, fmt.Errorf("scenelist: %s: sinepoints needs Count >= 2, got %d", s.Name, s.Count)
		}
		return curve.Polyline{Points: points}, nil
	case "polyline":
		if len(s.Points) < 2 {
			return nil, fmt.Errorf("scenelist: %s: polyline needs 2 points, got %d", s.Name, len(s.Points))
		}
		return curve.Polyline{Points: s.Points, Loop: s.Loop}, nil
	case "circle":
		return curve.Circle{Center: s.Start, Radius: s.Radius}, nil
	case "helix":
		return curve.Helix{Radius: s.Radius, Pitch: s.Pitch, Turns: s.Turns}, nil
	}
	return nil, fmt.Errorf("scenelist: %s: unknown curve %q", s.Name, s.Kind)
}
