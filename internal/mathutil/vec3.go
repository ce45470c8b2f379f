package mathutil

import "math"

// Vec3 is a point or direction in model space.
type Vec3 [3]float64

// Add returns v+w. The lighting rig uses it to build its half vector.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{v[0] + w[0], v[1] + w[1], v[2] + w[2]}
}

// Dot returns the scalar product of v and w.
func (v Vec3) Dot(w Vec3) float64 {
	return v[0]*w[0] + v[1]*w[1] + v[2]*w[2]
}

// Cross returns v×w, the face normal for a counter-clockwise triangle edge pair.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		v[1]*w[2] - v[2]*w[1],
		v[2]*w[0] - v[0]*w[2],
		v[0]*w[1] - v[1]*w[0],
	}
}

// Len returns the Euclidean length of v.
func (v Vec3) Len() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize returns v scaled to unit length. Degenerate vectors map to zero.
func (v Vec3) Normalize() Vec3 {
	n := v.Len()
	if n < 1e-12 {
		return Vec3{}
	}
	inv := 1 / n
	return Vec3{v[0] * inv, v[1] * inv, v[2] * inv}
}
