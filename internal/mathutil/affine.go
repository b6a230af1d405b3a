package mathutil

// Affine is a rigid transform: rotate by R, then translate by T.
type Affine struct {
	R Mat3
	T Vec3
}

// Recentered returns the transform that rotates by r and then moves the
// rotated point c to the origin.
func Recentered(r Mat3, c Vec3) Affine {
	return Affine{R: r, T: c.Scale(-1)}
}

// Apply transforms a point.
func (a Affine) Apply(v Vec3) Vec3 {
	return a.R.MulVec3(v).Add(a.T)
}

// ApplyDir rotates a direction; translation does not apply.
func (a Affine) ApplyDir(v Vec3) Vec3 {
	return a.R.MulVec3(v)
}
