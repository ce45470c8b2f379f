// Package postprocess resamples supersampled renders down to their output size.
package postprocess

import (
	"image"

	"github.com/disintegration/imaging"
)

// Downsample reduces img to w×h with CatmullRom filtering. Colour is weighted
// by alpha, so fully transparent texels never darken the model's edges. An
// image that is already w×h is returned as is.
func Downsample(img *image.NRGBA, w, h int) *image.NRGBA {
	if b := img.Bounds(); b.Dx() == w && b.Dy() == h {
		return img
	}
	return imaging.Resize(img, w, h, imaging.CatmullRom)
}
