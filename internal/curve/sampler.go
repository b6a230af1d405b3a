package curve

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"tube-renderer/internal/logging"
	"tube-renderer/internal/mathutil"
)

const (
	// DefaultArcLengthDivisions is the arc-length table resolution for curves
	// that do not implement Divider.
	DefaultArcLengthDivisions = 200

	// TangentDelta is the central-difference step of TangentAt.
	TangentDelta = 1e-4
)

// Sampler evaluates a curve and caches its arc-length table.
// Safe for concurrent use.
type Sampler struct {
	curve Curve

	mu        sync.RWMutex
	table     []float64
	tableDivs int
}

// NewSampler wraps c.
func NewSampler(c Curve) *Sampler {
	return &Sampler{curve: c}
}

// Curve returns the sampled curve.
func (s *Sampler) Curve() Curve {
	return s.curve
}

// Closed reports whether the sampled curve is closed.
func (s *Sampler) Closed() bool {
	return IsClosed(s.curve)
}

// Evaluate returns the point at t.
func (s *Sampler) Evaluate(t float64) (mathutil.Vec3, error) {
	p, ok := s.curve.Evaluate(t)
	if !ok {
		return mathutil.Vec3{}, fmt.Errorf("curve: evaluate t=%g: %w", t, ErrInvalidDomain)
	}
	if math.IsNaN(p[0]) || math.IsNaN(p[1]) || math.IsNaN(p[2]) {
		return mathutil.Vec3{}, fmt.Errorf("curve: evaluate t=%g: NaN point: %w", t, ErrInvalidDomain)
	}
	return p, nil
}

// SamplePoints returns divisions+1 points at t = d/divisions.
// A missing value anywhere fails the whole call.
func (s *Sampler) SamplePoints(divisions int) ([]mathutil.Vec3, error) {
	if divisions < 1 {
		return nil, fmt.Errorf("curve: sample %d divisions: %w", divisions, ErrDegenerateCurve)
	}
	points := make([]mathutil.Vec3, 0, divisions+1)
	for d := 0; d <= divisions; d++ {
		p, err := s.Evaluate(float64(d) / float64(divisions))
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}

// Divisions returns the arc-length table resolution used for the curve.
func (s *Sampler) Divisions() int {
	if d, ok := s.curve.(Divider); ok {
		if n := d.ArcLengthDivisions(); n > 0 {
			return n
		}
	}
	return DefaultArcLengthDivisions
}

// ArcLengths returns the cumulative chord lengths over divisions+1 samples.
// divisions <= 0 selects the curve's default. The table is cached until a
// different resolution is requested; callers must not modify it.
func (s *Sampler) ArcLengths(divisions int) ([]float64, error) {
	if divisions <= 0 {
		divisions = s.Divisions()
	}

	s.mu.RLock()
	if s.table != nil && s.tableDivs == divisions {
		table := s.table
		s.mu.RUnlock()
		return table, nil
	}
	s.mu.RUnlock()

	points, err := s.SamplePoints(divisions)
	if err != nil {
		return nil, err
	}
	table := make([]float64, len(points))
	sum := 0.0
	for i := 1; i < len(points); i++ {
		sum += points[i].Dist(points[i-1])
		table[i] = sum
	}

	s.mu.Lock()
	s.table = table
	s.tableDivs = divisions
	s.mu.Unlock()

	logging.Logger().Debug("curve: arc length table rebuilt", "divisions", divisions, "length", sum)
	return table, nil
}

// Length returns the total arc length at the default resolution.
func (s *Sampler) Length() (float64, error) {
	table, err := s.ArcLengths(0)
	if err != nil {
		return 0, err
	}
	return table[len(table)-1], nil
}

// ParamAtArcFraction maps u in [0,1] (fraction of total length) to the curve
// parameter t. u is clamped; 0 and 1 map to exactly 0 and 1.
func (s *Sampler) ParamAtArcFraction(u float64) (float64, error) {
	table, err := s.ArcLengths(0)
	if err != nil {
		return 0, err
	}
	return paramAt(table, mathutil.Clamp(u, 0, 1)*table[len(table)-1], u <= 0, u >= 1)
}

// ParamAtDistance maps an arc-length distance from the start to the curve
// parameter t. Distances outside [0, length] are clamped.
func (s *Sampler) ParamAtDistance(distance float64) (float64, error) {
	table, err := s.ArcLengths(0)
	if err != nil {
		return 0, err
	}
	total := table[len(table)-1]
	return paramAt(table, mathutil.Clamp(distance, 0, total), distance <= 0, distance >= total)
}

func paramAt(table []float64, target float64, atStart, atEnd bool) (float64, error) {
	n := len(table)
	total := table[n-1]
	if math.IsNaN(target) {
		return 0, fmt.Errorf("curve: arc length target NaN: %w", ErrInvalidDomain)
	}
	if total <= 0 {
		return 0, fmt.Errorf("curve: zero arc length: %w", ErrDegenerateCurve)
	}
	if atStart {
		return 0, nil
	}
	if atEnd {
		return 1, nil
	}

	// first index whose cumulative length reaches the target
	i := sort.SearchFloat64s(table, target)
	if i >= n {
		return 1, nil
	}
	if table[i] == target {
		return float64(i) / float64(n-1), nil
	}

	before := table[i-1]
	segment := table[i] - before
	frac := (target - before) / segment
	return (float64(i-1) + frac) / float64(n-1), nil
}

// TangentAt returns the unit tangent at t by central difference, one-sided at
// the ends of the domain.
func (s *Sampler) TangentAt(t float64) (mathutil.Vec3, error) {
	if !inDomain(t) {
		return mathutil.Vec3{}, fmt.Errorf("curve: tangent t=%g: %w", t, ErrInvalidDomain)
	}
	t1 := math.Max(t-TangentDelta, 0)
	t2 := math.Min(t+TangentDelta, 1)

	p1, err := s.Evaluate(t1)
	if err != nil {
		return mathutil.Vec3{}, err
	}
	p2, err := s.Evaluate(t2)
	if err != nil {
		return mathutil.Vec3{}, err
	}
	tan, ok := p2.Sub(p1).TryNormalize(1e-12)
	if !ok {
		return mathutil.Vec3{}, fmt.Errorf("curve: tangent t=%g: zero difference: %w", t, ErrDegenerateCurve)
	}
	return tan, nil
}

// Tangents returns divisions+1 unit tangents at t = d/divisions.
func (s *Sampler) Tangents(divisions int) ([]mathutil.Vec3, error) {
	if divisions < 1 {
		return nil, fmt.Errorf("curve: tangents %d divisions: %w", divisions, ErrDegenerateCurve)
	}
	tangents := make([]mathutil.Vec3, 0, divisions+1)
	for d := 0; d <= divisions; d++ {
		tan, err := s.TangentAt(float64(d) / float64(divisions))
		if err != nil {
			return nil, err
		}
		tangents = append(tangents, tan)
	}
	return tangents, nil
}

// PointAtArcFraction returns the point a fraction u of the way along the curve
// by length.
func (s *Sampler) PointAtArcFraction(u float64) (mathutil.Vec3, error) {
	t, err := s.ParamAtArcFraction(u)
	if err != nil {
		return mathutil.Vec3{}, err
	}
	return s.Evaluate(t)
}

// TangentAtArcFraction returns the unit tangent a fraction u of the way along
// the curve by length.
func (s *Sampler) TangentAtArcFraction(u float64) (mathutil.Vec3, error) {
	t, err := s.ParamAtArcFraction(u)
	if err != nil {
		return mathutil.Vec3{}, err
	}
	return s.TangentAt(t)
}

// SpacedPoints returns divisions+1 points equally spaced by arc length.
func (s *Sampler) SpacedPoints(divisions int) ([]mathutil.Vec3, error) {
	if divisions < 1 {
		return nil, fmt.Errorf("curve: spaced points %d divisions: %w", divisions, ErrDegenerateCurve)
	}
	points := make([]mathutil.Vec3, 0, divisions+1)
	for d := 0; d <= divisions; d++ {
		p, err := s.PointAtArcFraction(float64(d) / float64(divisions))
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}
