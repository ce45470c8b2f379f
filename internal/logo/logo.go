// Package logo places a secondary image at one of six canvas anchors.
package logo

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Anchor names a corner or edge midpoint.
type Anchor string

const (
	TopLeft      Anchor = "tl"
	TopMiddle    Anchor = "tm"
	TopRight     Anchor = "tr"
	BottomLeft   Anchor = "bl"
	BottomMiddle Anchor = "bm"
	BottomRight  Anchor = "br"
)

// ParseAnchor normalizes s. Unknown anchors fall back to BottomRight.
func ParseAnchor(s string) Anchor {
	switch a := Anchor(strings.ToLower(strings.TrimSpace(s))); a {
	case TopLeft, TopMiddle, TopRight, BottomLeft, BottomMiddle, BottomRight:
		return a
	default:
		return BottomRight
	}
}

const (
	DefaultPadding      = 24
	DefaultWidthPercent = 28
)

// Spec describes the logo overlay.
type Spec struct {
	Image        image.Image
	WidthPercent float64 // of the canvas edge; capped at the intrinsic width
	Anchor       Anchor
	PaddingPx    float64
	Enabled      bool
}

// Rect is a draw rectangle in canvas pixels.
type Rect struct {
	X, Y, W, H float64
}

// Place computes where spec's image goes on a size×size canvas. It reports
// false when the logo is disabled or has no usable bitmap.
func Place(spec Spec, size int) (Rect, bool) {
	if !spec.Enabled || spec.Image == nil {
		return Rect{}, false
	}
	b := spec.Image.Bounds()
	bw, bh := float64(b.Dx()), float64(b.Dy())
	if bw <= 0 || bh <= 0 {
		return Rect{}, false
	}

	s := float64(size)
	pad := spec.PaddingPx
	w := math.Min(spec.WidthPercent/100*s, bw)
	h := w * bh / bw

	r := Rect{W: w, H: h}
	switch ParseAnchor(string(spec.Anchor)) {
	case TopLeft:
		r.X, r.Y = pad, pad
	case TopMiddle:
		r.X, r.Y = (s-w)/2, pad
	case TopRight:
		r.X, r.Y = s-pad-w, pad
	case BottomLeft:
		r.X, r.Y = pad, s-pad-h
	case BottomMiddle:
		r.X, r.Y = (s-w)/2, s-pad-h
	default:
		r.X, r.Y = s-pad-w, s-pad-h
	}
	return r, true
}

// Draw composites the logo over dst, which is assumed square.
func Draw(dst draw.Image, spec Spec) {
	r, ok := Place(spec, dst.Bounds().Dx())
	if !ok || r.W <= 0 || r.H <= 0 {
		return
	}
	sb := spec.Image.Bounds()
	sx := r.W / float64(sb.Dx())
	sy := r.H / float64(sb.Dy())
	s2d := f64.Aff3{
		sx, 0, r.X - sx*float64(sb.Min.X),
		0, sy, r.Y - sy*float64(sb.Min.Y),
	}
	draw.CatmullRom.Transform(dst, s2d, spec.Image, sb, draw.Over, nil)
}

// FromQR renders text as a QR code image of size×size pixels.
func FromQR(text string, size int) (image.Image, error) {
	if text == "" {
		return nil, fmt.Errorf("logo: qr: empty payload")
	}
	q, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("logo: qr: %w", err)
	}
	q.BackgroundColor = color.White
	q.ForegroundColor = color.Black
	return q.Image(size), nil
}
