package fit

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func halves(w, h int, top, bottom color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		c := top
		if y >= h/2 {
			c = bottom
		}
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

func TestFit_NeverLetterboxes(t *testing.T) {
	sizes := []struct{ w, h int }{{3, 7}, {7, 3}, {1, 1}, {100, 1}, {1, 100}, {64, 64}}
	for _, s := range sizes {
		r := Fit(halves(s.w, s.h, red, red), 16, false)
		if b := r.Image.Bounds(); b.Dx() != 16 || b.Dy() != 16 || r.Size != 16 {
			t.Fatalf("%dx%d: raster is %v", s.w, s.h, b)
		}
		for y := 0; y < 16; y++ {
			for x := 0; x < 16; x++ {
				if a := r.Image.NRGBAAt(x, y).A; a != 255 {
					t.Fatalf("%dx%d: pixel (%d,%d) alpha %d, want opaque", s.w, s.h, x, y, a)
				}
			}
		}
	}
}

func TestFit_FlipY(t *testing.T) {
	src := halves(4, 8, red, blue)

	up := Fit(src, 8, false)
	if c := up.Image.NRGBAAt(4, 0); c.R <= c.B {
		t.Errorf("unflipped top = %v, want red", c)
	}
	if up.FlippedY {
		t.Error("FlippedY set without flip")
	}

	down := Fit(src, 8, true)
	if c := down.Image.NRGBAAt(4, 0); c.B <= c.R {
		t.Errorf("flipped top = %v, want blue", c)
	}
	if c := down.Image.NRGBAAt(4, 7); c.R <= c.B {
		t.Errorf("flipped bottom = %v, want red", c)
	}
	if !down.FlippedY {
		t.Error("FlippedY not recorded")
	}
}

func TestCover_Empty(t *testing.T) {
	for name, src := range map[string]image.Image{
		"nil":  nil,
		"zero": image.NewNRGBA(image.Rect(0, 0, 0, 0)),
	} {
		img := Cover(src, 5, 3)
		if b := img.Bounds(); b.Dx() != 5 || b.Dy() != 3 {
			t.Errorf("%s: bounds %v", name, b)
		}
		if img.NRGBAAt(2, 1).A != 0 {
			t.Errorf("%s: want transparent", name)
		}
	}
}

func TestCover_SolidStaysExact(t *testing.T) {
	c := color.NRGBA{R: 0x12, G: 0x34, B: 0x56, A: 255}
	img := Cover(halves(30, 10, c, c), 12, 20)
	for _, p := range []image.Point{{0, 0}, {11, 19}, {6, 10}} {
		if got := img.NRGBAAt(p.X, p.Y); got != c {
			t.Errorf("pixel %v = %v, want %v", p, got, c)
		}
	}
}

func TestCoverTransform(t *testing.T) {
	tests := []struct {
		sw, sh, w, h  int
		scale, dx, dy float64
	}{
		{4000, 2000, 2048, 2048, 1.024, -1024, 0},
		{2000, 4000, 2048, 2048, 1.024, 0, -1024},
		{100, 100, 50, 50, 0.5, 0, 0},
		{720, 360, 720, 720, 2, -360, 0},
	}
	for _, tt := range tests {
		scale, dx, dy := CoverTransform(tt.sw, tt.sh, tt.w, tt.h)
		if math.Abs(scale-tt.scale) > 1e-9 || math.Abs(dx-tt.dx) > 1e-6 || math.Abs(dy-tt.dy) > 1e-6 {
			t.Errorf("CoverTransform(%d,%d,%d,%d) = %v,%v,%v want %v,%v,%v",
				tt.sw, tt.sh, tt.w, tt.h, scale, dx, dy, tt.scale, tt.dx, tt.dy)
		}
	}
}
