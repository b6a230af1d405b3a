package scenelist

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"tube-renderer/internal/mathutil"
)

// xmlSceneList matches the scene list schema.
type xmlSceneList struct {
	Scenes []xmlScene `xml:"Scene"`
}

type xmlScene struct {
	Name      string     `xml:"Name,attr"`
	Curve     string     `xml:"Curve,attr"`
	Start     string     `xml:"Start,attr"`
	Direction string     `xml:"Direction,attr"`
	Amplitude float64    `xml:"Amplitude,attr"`
	Period    float64    `xml:"Period,attr"`
	Length    float64    `xml:"Length,attr"`
	Count     int        `xml:"Count,attr"`
	Radius    float64    `xml:"CurveRadius,attr"`
	Pitch     float64    `xml:"Pitch,attr"`
	Turns     float64    `xml:"Turns,attr"`
	Loop      bool       `xml:"Loop,attr"`
	Tubular   int        `xml:"Tubular,attr"`
	Radial    int        `xml:"Radial,attr"`
	Thickness float64    `xml:"Radius,attr"`
	Closed    bool       `xml:"Closed,attr"`
	ArcLength bool       `xml:"ArcLength,attr"`
	Smooth    bool       `xml:"Smooth,attr"`
	Wireframe bool       `xml:"Wireframe,attr"`
	Vertices  bool       `xml:"Vertices,attr"`
	Frames    bool       `xml:"Frames,attr"`
	Texture   string     `xml:"Texture,attr"`
	Color     string     `xml:"Color,attr"`
	Points    []xmlPoint `xml:"Point"`
}

type xmlPoint struct {
	X float64 `xml:"X,attr"`
	Y float64 `xml:"Y,attr"`
	Z float64 `xml:"Z,attr"`
}

// Parse reads a scene list file and returns all scenes.
func Parse(path string) ([]SceneDef, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenelist: read %s: %w", path, err)
	}
	scenes, err := Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("scenelist: parse %s: %w", path, err)
	}
	return scenes, nil
}

// Decode parses a scene list. Besides UTF-8 the declaration may name
// windows-1252, iso-8859-1 or iso-8859-15.
func Decode(r io.Reader) ([]SceneDef, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader

	var list xmlSceneList
	if err := dec.Decode(&list); err != nil {
		return nil, err
	}

	scenes := make([]SceneDef, 0, len(list.Scenes))
	seen := make(map[string]bool, len(list.Scenes))
	for i, xs := range list.Scenes {
		name := strings.TrimSpace(xs.Name)
		if name == "" {
			name = fmt.Sprintf("scene%d", i)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate scene %q", name)
		}
		seen[name] = true

		sc := SceneDef{
			Name:      name,
			Kind:      strings.ToLower(strings.TrimSpace(xs.Curve)),
			Amplitude: xs.Amplitude,
			Period:    xs.Period,
			Length:    xs.Length,
			Count:     xs.Count,
			Radius:    xs.Radius,
			Pitch:     xs.Pitch,
			Turns:     xs.Turns,
			Loop:      xs.Loop,
			Tubular:   xs.Tubular,
			Radial:    xs.Radial,
			Thickness: xs.Thickness,
			Closed:    xs.Closed,
			ArcLength: xs.ArcLength,
			Smooth:    xs.Smooth,
			Wireframe: xs.Wireframe,
			Vertices:  xs.Vertices,
			Frames:    xs.Frames,
			Texture:   strings.TrimSpace(xs.Texture),
			Color:     [3]uint8{170, 180, 200},
			Direction: mathutil.UnitX,
		}

		var err error
		if xs.Start != "" {
			if sc.Start, err = parseVec(xs.Start); err != nil {
				return nil, fmt.Errorf("scene %q: Start: %w", name, err)
			}
		}
		if xs.Direction != "" {
			if sc.Direction, err = parseVec(xs.Direction); err != nil {
				return nil, fmt.Errorf("scene %q: Direction: %w", name, err)
			}
		}
		if xs.Color != "" {
			if sc.Color, err = parseColor(xs.Color); err != nil {
				return nil, fmt.Errorf("scene %q: Color: %w", name, err)
			}
		}
		for _, p := range xs.Points {
			sc.Points = append(sc.Points, mathutil.Vec3{p.X, p.Y, p.Z})
		}

		// Defaults
		if sc.Tubular <= 0 {
			sc.Tubular = 64
		}
		if sc.Radial <= 0 {
			sc.Radial = 8
		}
		if sc.Thickness <= 0 {
			sc.Thickness = 0.1
		}

		scenes = append(scenes, sc)
	}

	return scenes, nil
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(label) {
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(input), nil
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1.NewDecoder().Reader(input), nil
	case "iso-8859-15", "latin9":
		return charmap.ISO8859_15.NewDecoder().Reader(input), nil
	}
	return nil, fmt.Errorf("unsupported charset %q", label)
}

// parseVec reads "x y z" (spaces or commas).
func parseVec(s string) (mathutil.Vec3, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	if len(fields) != 3 {
		return mathutil.Vec3{}, fmt.Errorf("want 3 components, got %q", s)
	}
	var v mathutil.Vec3
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return mathutil.Vec3{}, err
		}
		v[i] = x
	}
	return v, nil
}

// parseColor reads "#rrggbb".
func parseColor(s string) ([3]uint8, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return [3]uint8{}, fmt.Errorf("want #rrggbb, got %q", s)
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return [3]uint8{}, err
	}
	return [3]uint8{uint8(n >> 16), uint8(n >> 8), uint8(n)}, nil
}
