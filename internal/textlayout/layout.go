// Package textlayout wraps overlay text into lines and positions them inside
// a bottom-anchored box.
package textlayout

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Align is the horizontal anchor of each line.
type Align int

const (
	Left Align = iota
	Center
	Right
)

func (a Align) String() string {
	switch a {
	case Center:
		return "center"
	case Right:
		return "right"
	default:
		return "left"
	}
}

// ParseAlign maps left/center/right (CSS spellings included) to an Align.
func ParseAlign(s string) Align {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "center", "centre", "middle":
		return Center
	case "right", "end":
		return Right
	default:
		return Left
	}
}

// Overlay defaults.
const (
	DefaultSize       = 28
	DefaultLineHeight = 1.2
	DefaultColor      = "#111111"
	DefaultFamily     = "Inter, system-ui, sans-serif"
	Margin            = 40
)

// Spec is the overlay text block.
type Spec struct {
	Value      string
	FontFamily string
	SizePx     float64
	LineHeight float64 // multiple of SizePx
	Align      Align
	Color      string
}

// WithDefaults fills unset fields.
func (s Spec) WithDefaults() Spec {
	if s.SizePx <= 0 {
		s.SizePx = DefaultSize
	}
	if s.LineHeight <= 0 {
		s.LineHeight = DefaultLineHeight
	}
	if strings.TrimSpace(s.Color) == "" {
		s.Color = DefaultColor
	}
	if strings.TrimSpace(s.FontFamily) == "" {
		s.FontFamily = DefaultFamily
	}
	return s
}

// Measurer reports the advance width of a run of text in pixels.
type Measurer interface {
	Measure(s string) float64
}

// FaceMeasurer measures with a font face.
type FaceMeasurer struct {
	Face font.Face
}

func (m FaceMeasurer) Measure(s string) float64 {
	return fixedToFloat(font.MeasureString(m.Face, s))
}

// Box bounds the text block. Lines grow upward from Baseline.
type Box struct {
	CanvasWidth float64
	Margin      float64
	MaxWidth    float64
	Baseline    float64
}

// ExportBox is the box used for a w×h export: uniform margin, bottom anchored.
func ExportBox(w, h int) Box {
	return Box{
		CanvasWidth: float64(w),
		Margin:      Margin,
		MaxWidth:    float64(w - 2*Margin),
		Baseline:    float64(h - Margin),
	}
}

// Line is one laid-out line. X is the alignment anchor, DrawX the left edge
// of the run and Y its baseline.
type Line struct {
	Text  string
	X     float64
	DrawX float64
	Y     float64
	Width float64
}

// Layout greedily wraps spec.Value to box.MaxWidth. The last line sits on
// box.Baseline and earlier lines stack above it. A word wider than the box
// gets a line of its own.
func Layout(spec Spec, m Measurer, box Box) []Line {
	spec = spec.WithDefaults()
	words := strings.Fields(spec.Value)
	if len(words) == 0 {
		return nil
	}

	var texts []string
	cur := words[0]
	for _, w := range words[1:] {
		next := cur + " " + w
		if m.Measure(next) > box.MaxWidth {
			texts = append(texts, cur)
			cur = w
			continue
		}
		cur = next
	}
	texts = append(texts, cur)

	step := spec.LineHeight * spec.SizePx
	var anchor float64
	switch spec.Align {
	case Center:
		anchor = box.CanvasWidth / 2
	case Right:
		anchor = box.CanvasWidth - box.Margin
	default:
		anchor = box.Margin
	}

	lines := make([]Line, len(texts))
	for i, s := range texts {
		w := m.Measure(s)
		x := anchor
		switch spec.Align {
		case Center:
			x -= w / 2
		case Right:
			x -= w
		}
		lines[i] = Line{
			Text:  s,
			X:     anchor,
			DrawX: x,
			Y:     box.Baseline - float64(len(texts)-1-i)*step,
			Width: w,
		}
	}
	return lines
}

// Draw renders lines onto dst with face in color c.
func Draw(dst draw.Image, lines []Line, face font.Face, c color.Color) {
	if len(lines) == 0 {
		return
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
	}
	for _, l := range lines {
		d.Dot = fixed.Point26_6{X: floatToFixed(l.DrawX), Y: floatToFixed(l.Y)}
		d.DrawString(l.Text)
	}
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

func floatToFixed(v float64) fixed.Int26_6 { return fixed.Int26_6(math.Round(v * 64)) }
