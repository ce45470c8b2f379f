// Package fit scales arbitrary bitmaps into fixed-size rasters using a
// cover policy: the target is always filled and the overflow is cropped
// evenly on the longer axis.
package fit

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Raster is a square pixel buffer ready for texture upload.
type Raster struct {
	Image    *image.NRGBA
	Size     int
	FlippedY bool // rows already reversed for a bottom-left UV origin
}

// Fit cover-fits src into a size×size raster. When flipY is set the result
// is flipped vertically so that row 0 holds the bottom of the image.
func Fit(src image.Image, size int, flipY bool) *Raster {
	img := Cover(src, size, size)
	if flipY {
		img = imaging.FlipV(img)
	}
	return &Raster{Image: img, Size: size, FlippedY: flipY}
}

// Cover scales src by max(w/sw, h/sh) and centers it on a w×h canvas.
// Every destination pixel is sampled from src, so there is never a blank border.
func Cover(src image.Image, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if src == nil {
		return dst
	}
	sb := src.Bounds()
	sw, sh := sb.Dx(), sb.Dy()
	if sw == 0 || sh == 0 || w <= 0 || h <= 0 {
		return dst
	}

	scale, dx, dy := CoverTransform(sw, sh, w, h)

	// src → dst: x' = scale*(x - minX) + dx
	s2d := f64.Aff3{
		scale, 0, dx - scale*float64(sb.Min.X),
		0, scale, dy - scale*float64(sb.Min.Y),
	}
	draw.CatmullRom.Transform(dst, s2d, src, sb, draw.Src, nil)
	return dst
}

// CoverTransform returns the uniform scale and the top-left draw offset that
// cover-fit an sw×sh source into a w×h target. Offsets are <= 0 on the
// cropped axis and 0 on the other.
func CoverTransform(sw, sh, w, h int) (scale, dx, dy float64) {
	scale = math.Max(float64(w)/float64(sw), float64(h)/float64(sh))
	dx = (float64(w) - float64(sw)*scale) / 2
	dy = (float64(h) - float64(sh)*scale) / 2
	return scale, dx, dy
}
