package raster

import (
	"image"
	"image/color"
	"sort"
	"testing"

	"screen-mockup/internal/binder"
	"screen-mockup/internal/fit"
	"screen-mockup/internal/material"
	"screen-mockup/internal/texture"
)

// twoTone is red on the top half and blue on the bottom half.
func twoTone(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		c := color.NRGBA{R: 255, A: 255}
		if y >= h/2 {
			c = color.NRGBA{B: 255, A: 255}
		}
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// medianRows returns the median row of red- and blue-dominant pixels in
// the center column of frame.
func medianRows(frame *image.NRGBA) (red, blue int, ok bool) {
	x := frame.Bounds().Dx() / 2
	var reds, blues []int
	for y := 0; y < frame.Bounds().Dy(); y++ {
		c := frame.NRGBAAt(x, y)
		switch {
		case int(c.R) > int(c.B)+80:
			reds = append(reds, y)
		case int(c.B) > int(c.R)+80:
			blues = append(blues, y)
		}
	}
	if len(reds) == 0 || len(blues) == 0 {
		return 0, 0, false
	}
	sort.Ints(reds)
	sort.Ints(blues)
	return reds[len(reds)/2], blues[len(blues)/2], true
}

func TestRender_ScreenOrientation(t *testing.T) {
	tests := []struct {
		name    string
		flipY   bool
		upright bool
	}{
		{"flipped raster shows image upright", true, true},
		{"unflipped raster shows image upside down", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := material.NewRegistry()
			scene := DeviceScene(reg)
			screen, _ := reg.Resolve("Screen")

			b := binder.New(texture.NewCPUDevice(), nil)
			if err := b.Bind(screen, fit.Fit(twoTone(90, 160), 64, tt.flipY), binder.Options{BrightEmissive: true}); err != nil {
				t.Fatal(err)
			}

			frame := Render(scene, Options{Size: 160, Supersample: 1})
			red, blue, ok := medianRows(frame)
			if !ok {
				t.Fatal("screen colors not visible in frame")
			}
			if upright := red < blue; upright != tt.upright {
				t.Errorf("red median row %d, blue median row %d: upright = %v, want %v", red, blue, upright, tt.upright)
			}
		})
	}
}

func TestRender_TransparentBackground(t *testing.T) {
	scene := DeviceScene(material.NewRegistry())
	frame := Render(scene, Options{Size: 120, Supersample: 2})
	if got := frame.Bounds().Size(); got != image.Pt(120, 120) {
		t.Fatalf("size = %v", got)
	}
	if c := frame.NRGBAAt(0, 0); c.A != 0 {
		t.Errorf("corner = %v, want transparent", c)
	}
	if c := frame.NRGBAAt(60, 60); c.A != 255 {
		t.Errorf("center = %v, want the opaque device", c)
	}
}

func TestRender_EmissiveBrightens(t *testing.T) {
	gray := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < len(gray.Pix); i += 4 {
		gray.Pix[i], gray.Pix[i+1], gray.Pix[i+2], gray.Pix[i+3] = 90, 90, 90, 255
	}

	luma := func(bright bool) int {
		reg := material.NewRegistry()
		scene := DeviceScene(reg)
		screen, _ := reg.Resolve("Screen")
		if err := binder.New(texture.NewCPUDevice(), nil).Bind(screen, fit.Fit(gray, 8, true), binder.Options{BrightEmissive: bright}); err != nil {
			t.Fatal(err)
		}
		c := Render(scene, Options{Size: 100}).NRGBAAt(50, 50)
		return int(c.R) + int(c.G) + int(c.B)
	}
	if dim, lit := luma(false), luma(true); lit <= dim {
		t.Errorf("bright screen (%d) not brighter than dim (%d)", lit, dim)
	}
}

func TestRenderer_LazyRerender(t *testing.T) {
	reg := material.NewRegistry()
	r := NewRenderer(DeviceScene(reg), Options{Size: 64})
	screen, _ := reg.Resolve("Screen")

	first := r.CurrentFrame()
	if r.CurrentFrame() != first || r.Renders() != 1 {
		t.Fatalf("unchanged scene re-rendered: %d renders", r.Renders())
	}

	b := binder.New(texture.NewCPUDevice(), r)
	if err := b.Bind(screen, fit.Fit(twoTone(10, 10), 16, true), binder.Options{}); err != nil {
		t.Fatal(err)
	}
	r.CurrentFrame()
	if r.Renders() != 2 {
		t.Errorf("renders after bind = %d, want 2", r.Renders())
	}

	r.SetYaw(30)
	r.CurrentFrame()
	if r.Renders() != 3 {
		t.Errorf("renders after SetYaw = %d, want 3", r.Renders())
	}
}

func TestSampleTexture_EdgesClamp(t *testing.T) {
	tex := twoTone(4, 4)
	if r, _, b, _ := SampleTexture(tex, 0.5, 0); r != 255 || b != 0 {
		t.Errorf("v=0 sampled (%d,_,%d), want row 0 (red)", r, b)
	}
	if r, _, b, _ := SampleTexture(tex, 0.5, 1); r != 0 || b != 255 {
		t.Errorf("v=1 sampled (%d,_,%d), want last row (blue)", r, b)
	}
	if r, _, _, _ := SampleTexture(tex, 0.5, 1.0625); r != 255 {
		t.Errorf("v>1 should wrap to the top rows, got r=%d", r)
	}
}
