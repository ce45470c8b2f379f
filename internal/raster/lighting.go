package raster

import (
	"math"

	"screen-mockup/internal/mathutil"
)

// Rig is a fixed studio light setup in view space: a key light, a cool rim
// from behind, a sky/ground hemisphere fill and a Blinn-Phong highlight.
type Rig struct {
	Key, Rim mathutil.Vec3
	half     mathutil.Vec3

	Ambient, Hemi, KeyGain, RimGain float64
	Gloss, GlossPow                 float64
}

// StudioRig keeps the screen readable: most of the light comes from the
// ambient and hemisphere terms, so a face turned away is dimmed, not black.
func StudioRig() Rig {
	view := mathutil.Vec3{0, 0, 1}
	key := mathutil.LightRig
	return Rig{
		Key:      key,
		Rim:      mathutil.Vec3{-0.5, 0.4, -0.75}.Normalize(),
		half:     key.Add(view).Normalize(),
		Ambient:  0.45,
		Hemi:     0.40,
		KeyGain:  0.90,
		RimGain:  0.35,
		Gloss:    0.30,
		GlossPow: 24,
	}
}

// Shade returns the light scalar for a unit face normal. Faces are lit
// double-sided.
func (r *Rig) Shade(n mathutil.Vec3) float64 {
	up := 0.5 + 0.5*(1-math.Abs(n[1]))
	spec := math.Pow(math.Max(n.Dot(r.half), 0), r.GlossPow)
	return r.Ambient +
		r.Hemi*up +
		r.KeyGain*math.Abs(n.Dot(r.Key)) +
		r.RimGain*math.Abs(n.Dot(r.Rim)) +
		r.Gloss*spec
}

const invGamma = 1 / 2.2

// srgbToLinear decodes 8-bit sRGB with a 2.2 power curve.
var srgbToLinear = func() (t [256]float64) {
	for i := range t {
		t[i] = math.Pow(float64(i)/255, 2.2)
	}
	return t
}()

// aces is the Narkowicz fit of the ACES filmic curve.
func aces(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}
