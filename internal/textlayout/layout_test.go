package textlayout

import (
	"image"
	"image/color"
	"math"
	"strings"
	"testing"
)

// wordMeasurer makes every word 10px wide and spaces free.
type wordMeasurer struct{}

func (wordMeasurer) Measure(s string) float64 { return float64(10 * len(strings.Fields(s))) }

func TestLayout_ThreeWordsPerLine(t *testing.T) {
	spec := Spec{Value: "Hello world this is a long line", SizePx: 20, LineHeight: 1.5}
	box := Box{CanvasWidth: 720, Margin: 40, MaxWidth: 30, Baseline: 680}

	lines := Layout(spec, wordMeasurer{}, box)

	want := []string{"Hello world this", "is a long", "line"}
	if len(lines) != int(math.Ceil(7.0/3)) || len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d", len(lines), len(want))
	}
	for i, l := range lines {
		if l.Text != want[i] {
			t.Errorf("line %d = %q, want %q", i, l.Text, want[i])
		}
		wantY := 680 - float64(len(lines)-1-i)*30
		if l.Y != wantY {
			t.Errorf("line %d y = %v, want %v", i, l.Y, wantY)
		}
	}
	if lines[len(lines)-1].Y != box.Baseline {
		t.Error("last line is not on the baseline")
	}
	if lines[0].Y >= lines[1].Y {
		t.Error("earliest line should be topmost")
	}
}

func TestLayout_Align(t *testing.T) {
	box := Box{CanvasWidth: 720, Margin: 40, MaxWidth: 640, Baseline: 680}
	tests := []struct {
		align    Align
		x, drawX float64
	}{
		{Left, 40, 40},
		{Center, 360, 345},
		{Right, 680, 650},
	}
	for _, tt := range tests {
		t.Run(tt.align.String(), func(t *testing.T) {
			lines := Layout(Spec{Value: "one two three", Align: tt.align}, wordMeasurer{}, box)
			if len(lines) != 1 {
				t.Fatalf("got %d lines, want 1", len(lines))
			}
			if lines[0].X != tt.x || lines[0].DrawX != tt.drawX {
				t.Errorf("x, drawX = %v, %v; want %v, %v", lines[0].X, lines[0].DrawX, tt.x, tt.drawX)
			}
		})
	}
}

func TestLayout_Empty(t *testing.T) {
	for _, v := range []string{"", "   ", "\n\t"} {
		if lines := Layout(Spec{Value: v}, wordMeasurer{}, ExportBox(720, 720)); len(lines) != 0 {
			t.Errorf("Layout(%q) = %d lines, want 0", v, len(lines))
		}
	}
}

func TestLayout_LongWordAlone(t *testing.T) {
	m := measureFunc(func(s string) float64 { return float64(len(s)) })
	lines := Layout(Spec{Value: "a supercalifragilistic b"}, m, Box{MaxWidth: 5})
	want := []string{"a", "supercalifragilistic", "b"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d", len(lines), len(want))
	}
	for i := range want {
		if lines[i].Text != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i].Text, want[i])
		}
	}
}

type measureFunc func(string) float64

func (f measureFunc) Measure(s string) float64 { return f(s) }

func TestExportBox(t *testing.T) {
	b := ExportBox(720, 720)
	if b.MaxWidth != 640 || b.Baseline != 680 || b.Margin != 40 {
		t.Errorf("ExportBox = %+v", b)
	}
}

func TestSpec_WithDefaults(t *testing.T) {
	s := Spec{}.WithDefaults()
	if s.SizePx != 28 || s.LineHeight != 1.2 || s.Color != "#111111" || s.Align != Left {
		t.Errorf("defaults = %+v", s)
	}
}

func TestDraw(t *testing.T) {
	fonts := NewFonts()
	face, err := fonts.Face("Inter, sans-serif", 28)
	if err != nil {
		t.Fatal(err)
	}
	defer face.Close()

	dst := image.NewNRGBA(image.Rect(0, 0, 200, 100))
	lines := Layout(Spec{Value: "Hi there"}, FaceMeasurer{Face: face}, Box{CanvasWidth: 200, Margin: 10, MaxWidth: 180, Baseline: 80})
	Draw(dst, lines, face, color.Black)

	inked := 0
	for i := 3; i < len(dst.Pix); i += 4 {
		if dst.Pix[i] != 0 {
			inked++
		}
	}
	if inked == 0 {
		t.Error("Draw left the canvas blank")
	}
}
