package mathutil

// Epsilon32 is the single-precision machine epsilon (2^-23). Geometry is
// computed in float64 but uploaded as float32, so degeneracy checks use the
// coarser threshold.
const Epsilon32 = 1.1920928955078125e-07

// IsoView is the default three-quarter preview camera: Rx(-25°) @ Ry(30°)
var IsoView = Mat3Mul(RotX(Deg2Rad(-25)), RotY(Deg2Rad(30)))
