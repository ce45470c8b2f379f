// Package compositor stacks the background, the rendered frame and the
// overlays into the fixed-size export canvas.
package compositor

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"

	"screen-mockup/internal/background"
	"screen-mockup/internal/logging"
	"screen-mockup/internal/logo"
	"screen-mockup/internal/textlayout"
)

// Size is the edge length of every export.
const Size = 720

// ErrFrameSize is returned when the rendered frame is not Size×Size.
var ErrFrameSize = errors.New("compositor: frame must be 720x720")

// Layers are the already-resolved inputs of one export. Nil Frame, Text or
// Logo skip that layer.
type Layers struct {
	Background background.Spec
	Frame      image.Image
	Text       *textlayout.Spec
	Logo       *logo.Spec
}

// Compositor builds export canvases. It is safe for concurrent use.
type Compositor struct {
	fonts *textlayout.Fonts
}

// New creates a Compositor resolving text fonts through fonts. A nil fonts
// uses only the embedded Go fonts.
func New(fonts *textlayout.Fonts) *Compositor {
	if fonts == nil {
		fonts = textlayout.NewFonts()
	}
	return &Compositor{fonts: fonts}
}

// Compose draws background, frame, text and logo, in that order, onto a
// new canvas. Everything that can fail is checked before drawing starts.
func (c *Compositor) Compose(l Layers) (*Canvas, error) {
	if l.Frame != nil {
		if sz := l.Frame.Bounds().Size(); sz != image.Pt(Size, Size) {
			return nil, fmt.Errorf("%w: got %dx%d", ErrFrameSize, sz.X, sz.Y)
		}
	}

	var (
		face  font.Face
		lines []textlayout.Line
		text  textlayout.Spec
	)
	if l.Text != nil && strings.TrimSpace(l.Text.Value) != "" {
		text = l.Text.WithDefaults()
		f, err := c.fonts.Face(text.FontFamily, text.SizePx)
		if err != nil {
			return nil, fmt.Errorf("compositor: %w", err)
		}
		defer f.Close()
		face = f
		lines = textlayout.Layout(text, textlayout.FaceMeasurer{Face: face}, textlayout.ExportBox(Size, Size))
	}

	img := background.Render(l.Background, Size, Size)
	if l.Frame != nil {
		fb := l.Frame.Bounds()
		draw.Draw(img, img.Bounds(), l.Frame, fb.Min, draw.Over)
	}
	if len(lines) > 0 {
		textlayout.Draw(img, lines, face, background.ParseColor(text.Color))
	}
	if l.Logo != nil {
		logo.Draw(img, *l.Logo)
	}

	logging.Logger().Debug("composed export",
		"background", l.Background.Kind.String(),
		"frame", l.Frame != nil, "lines", len(lines), "logo", l.Logo != nil && l.Logo.Enabled)

	return &Canvas{Image: img}, nil
}
