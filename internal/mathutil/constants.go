package mathutil

import "math"

// Camera setup for the product preview.
var (
	// ViewTilt looks slightly down onto the model: Rx(-8°).
	ViewTilt = RotX(Deg2Rad(-8))

	// LightRig is the fixed key light direction in view space.
	LightRig = Vec3{180, 260, 140}.Normalize()
)

// ViewMatrix returns the camera rotation for a model spun by yawDeg around
// its vertical axis: ViewTilt @ Ry(yaw).
func ViewMatrix(yawDeg float64) Mat3 {
	return Mat3Mul(ViewTilt, RotY(Deg2Rad(yawDeg)))
}

// NormalizeDeg wraps an angle into [0, 360).
func NormalizeDeg(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}
