// Package background renders the procedural or image backdrop behind the
// rendered frame.
package background

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/gogpu/gg"

	"screen-mockup/internal/fit"
)

// Kind selects the active background variant.
type Kind int

const (
	Solid Kind = iota
	Linear
	Radial
	Image
)

func (k Kind) String() string {
	switch k {
	case Linear:
		return "linear"
	case Radial:
		return "radial"
	case Image:
		return "image"
	default:
		return "solid"
	}
}

// Parse maps a kind name to a Kind. Unknown names are Solid.
func Parse(s string) Kind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linear", "linear-gradient":
		return Linear
	case "radial", "radial-gradient":
		return Radial
	case "image":
		return Image
	default:
		return Solid
	}
}

// Placeholder fills an Image background whose bitmap has not arrived yet.
var Placeholder = color.NRGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}

// Spec describes one background. Only the fields used by Kind matter.
type Spec struct {
	Kind           Kind
	ColorA         string  // hex, solid fill and first stop
	ColorB         string  // hex, last stop
	AngleDeg       float64 // linear: 0 points up, clockwise
	RadiusFraction float64 // radial: share of half the short edge
	Image          image.Image
}

// Render draws spec into a new w×h raster. It never fails: a missing image
// yields the placeholder fill.
func Render(spec Spec, w, h int) *image.NRGBA {
	switch spec.Kind {
	case Linear:
		return shade(w, h, linearBrush(spec, w, h))
	case Radial:
		return shade(w, h, radialBrush(spec, w, h))
	case Image:
		if spec.Image == nil || spec.Image.Bounds().Empty() {
			return fill(w, h, Placeholder)
		}
		return fit.Cover(spec.Image, w, h)
	default:
		return fill(w, h, ParseColor(spec.ColorA))
	}
}

// linearBrush follows the CSS angle convention. The axis passes through the
// canvas center and is long enough to reach every corner at any angle.
func linearBrush(spec Spec, w, h int) *gg.LinearGradientBrush {
	theta := (spec.AngleDeg - 90) * math.Pi / 180
	dx, dy := math.Cos(theta), math.Sin(theta)
	cx, cy := float64(w)/2, float64(h)/2
	half := math.Hypot(float64(w), float64(h)) / 2

	return gg.NewLinearGradientBrush(cx-dx*half, cy-dy*half, cx+dx*half, cy+dy*half).
		AddColorStop(0, gg.Hex(spec.ColorA)).
		AddColorStop(1, gg.Hex(spec.ColorB))
}

func radialBrush(spec Spec, w, h int) *gg.RadialGradientBrush {
	frac := spec.RadiusFraction
	if frac <= 0 {
		frac = 1
	}
	r := frac * float64(min(w, h)) / 2
	return gg.NewRadialGradientBrush(float64(w)/2, float64(h)/2, 0, r).
		AddColorStop(0, gg.Hex(spec.ColorA)).
		AddColorStop(1, gg.Hex(spec.ColorB))
}

type brush interface {
	ColorAt(x, y float64) gg.RGBA
}

// shade evaluates b at every pixel center.
func shade(w, h int, b brush) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, toNRGBA(b.ColorAt(float64(x)+0.5, float64(y)+0.5)))
		}
	}
	return img
}

func fill(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

// toNRGBA rounds to the nearest 8-bit value; gg.RGBA.Color truncates.
func toNRGBA(c gg.RGBA) color.NRGBA {
	return color.NRGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(c.A)}
}

func to8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// ParseColor parses a hex color (#rgb, #rgba, #rrggbb, #rrggbbaa).
// Malformed input yields opaque black.
func ParseColor(hex string) color.NRGBA {
	return toNRGBA(gg.Hex(strings.TrimSpace(hex)))
}
