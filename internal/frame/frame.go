// Package frame propagates rotation-minimizing orthonormal frames along a
// sequence of curve tangents.
package frame

import (
	"fmt"
	"math"

	"tube-renderer/internal/curve"
	"tube-renderer/internal/mathutil"
)

// Frame is a right-handed orthonormal triple at one curve sample.
// Binormal = Tangent × Normal.
type Frame struct {
	Tangent  mathutil.Vec3
	Normal   mathutil.Vec3
	Binormal mathutil.Vec3
}

// Matrix returns the frame as a rotation whose columns are T, N, B.
func (f Frame) Matrix() mathutil.Mat3 {
	return mathutil.Mat3FromColumns(f.Tangent, f.Normal, f.Binormal)
}

// CheckOrthonormal returns an error if any vector is not unit length or any
// pair is not orthogonal within tol, or if the triple is left-handed.
func (f Frame) CheckOrthonormal(tol float64) error {
	for name, v := range map[string]mathutil.Vec3{"tangent": f.Tangent, "normal": f.Normal, "binormal": f.Binormal} {
		if math.Abs(v.Len()-1) > tol {
			return fmt.Errorf("frame: %s length %g", name, v.Len())
		}
	}
	if d := f.Tangent.Dot(f.Normal); math.Abs(d) > tol {
		return fmt.Errorf("frame: tangent·normal = %g", d)
	}
	if d := f.Tangent.Dot(f.Binormal); math.Abs(d) > tol {
		return fmt.Errorf("frame: tangent·binormal = %g", d)
	}
	if d := f.Normal.Dot(f.Binormal); math.Abs(d) > tol {
		return fmt.Errorf("frame: normal·binormal = %g", d)
	}
	if f.Matrix().Det() < 0 {
		return fmt.Errorf("frame: left-handed")
	}
	return nil
}

// Compute returns one frame per tangent. The first normal is seeded from the
// coordinate axis least aligned with the first tangent. Each following normal
// is the previous one rotated by the turn between consecutive tangents. For
// closed curves the residual twist between the first and last normal is spread
// linearly over the sequence.
//
// Tangents must be unit length. Fewer than two tangents, a zero tangent, or a
// seed that cannot be normalized yields curve.ErrDegenerateCurve.
func Compute(tangents []mathutil.Vec3, closed bool) ([]Frame, error) {
	if len(tangents) < 2 {
		return nil, fmt.Errorf("frame: %d tangents: %w", len(tangents), curve.ErrDegenerateCurve)
	}
	for i, t := range tangents {
		if math.Abs(t.Len()-1) > 1e-6 {
			return nil, fmt.Errorf("frame: tangent %d length %g: %w", i, t.Len(), curve.ErrDegenerateCurve)
		}
	}

	segments := len(tangents) - 1
	frames := make([]Frame, len(tangents))

	first, err := seed(tangents[0])
	if err != nil {
		return nil, err
	}
	frames[0] = first

	for i := 1; i <= segments; i++ {
		prev, cur := tangents[i-1], tangents[i]
		normal := frames[i-1].Normal

		if axis, ok := prev.Cross(cur).TryNormalize(mathutil.Epsilon32); ok {
			theta := math.Acos(mathutil.Clamp(prev.Dot(cur), -1, 1))
			normal = mathutil.RotateAbout(normal, axis, theta)
		}

		f, err := complete(cur, normal)
		if err != nil {
			return nil, fmt.Errorf("frame: sample %d: %w", i, err)
		}
		frames[i] = f
	}

	if closed {
		if err := untwist(frames); err != nil {
			return nil, err
		}
	}
	return frames, nil
}

// seed builds the first frame from the axis along which tangent has the
// smallest absolute component. Ties go to the later axis.
func seed(tangent mathutil.Vec3) (Frame, error) {
	a := tangent.Abs()
	axis := mathutil.UnitX
	min := a[0]
	if a[1] <= min {
		min = a[1]
		axis = mathutil.UnitY
	}
	if a[2] <= min {
		axis = mathutil.UnitZ
	}

	side, ok := tangent.Cross(axis).TryNormalize(mathutil.Epsilon32)
	if !ok {
		return Frame{}, fmt.Errorf("frame: seed axis parallel to tangent: %w", curve.ErrDegenerateCurve)
	}
	return complete(tangent, tangent.Cross(side))
}

// complete normalizes normal, re-orthogonalizes it against tangent and derives
// the binormal.
func complete(tangent, normal mathutil.Vec3) (Frame, error) {
	// strip drift along the tangent before normalizing
	normal = normal.AddScaled(tangent, -normal.Dot(tangent))
	n, ok := normal.TryNormalize(mathutil.Epsilon32)
	if !ok {
		return Frame{}, fmt.Errorf("frame: normal collapsed: %w", curve.ErrDegenerateCurve)
	}
	b, ok := tangent.Cross(n).TryNormalize(mathutil.Epsilon32)
	if !ok {
		return Frame{}, fmt.Errorf("frame: binormal collapsed: %w", curve.ErrDegenerateCurve)
	}
	return Frame{Tangent: tangent, Normal: n, Binormal: b}, nil
}

func untwist(frames []Frame) error {
	segments := len(frames) - 1
	n0, nN := frames[0].Normal, frames[segments].Normal

	theta := math.Acos(mathutil.Clamp(n0.Dot(nN), -1, 1)) / float64(segments)
	if frames[0].Tangent.Dot(n0.Cross(nN)) > 0 {
		theta = -theta
	}
	if theta == 0 {
		return nil
	}

	for i := 1; i <= segments; i++ {
		t := frames[i].Tangent
		f, err := complete(t, mathutil.RotateAbout(frames[i].Normal, t, theta*float64(i)))
		if err != nil {
			return fmt.Errorf("frame: untwist sample %d: %w", i, err)
		}
		frames[i] = f
	}
	return nil
}

// FromSampler samples segments+1 tangents at t = i/segments and computes
// their frames.
func FromSampler(s *curve.Sampler, segments int, closed bool) ([]Frame, error) {
	tangents, err := s.Tangents(segments)
	if err != nil {
		return nil, err
	}
	return Compute(tangents, closed)
}
